package sheetimport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRow(t *testing.T) {
	row := NewRow(2)
	row.Set(" Cliente ", "Ana")
	row.Set("CPF", "   ")
	row.Set("total_gasto", 1500.0)

	assert.Equal(t, "Ana", row.Get("cliente"))
	assert.Equal(t, "Ana", row.Get("CLIENTE"))
	assert.Nil(t, row.Get("cpf"))
	assert.Nil(t, row.Get("missing"))
	assert.Equal(t, "1500", row.String("total_gasto"))
	assert.False(t, row.IsEmpty())

	t.Run("Lookup returns first non-empty alias", func(t *testing.T) {
		v, ok := row.Lookup("cpf", "nome", "cliente")
		assert.True(t, ok)
		assert.Equal(t, "Ana", v)

		_, ok = row.Lookup("cpf", "documento")
		assert.False(t, ok)
	})

	t.Run("Empty row", func(t *testing.T) {
		empty := NewRow(3)
		empty.Set("cliente", "")
		empty.Set("data", time.Time{})
		assert.True(t, empty.IsEmpty())
	})
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "", CellString(nil))
	assert.Equal(t, "abc", CellString("  abc "))
	assert.Equal(t, "3.5", CellString(3.5))
	assert.Equal(t, "true", CellString(true))
	assert.Equal(t, "2023-03-15", CellString(time.Date(2023, 3, 15, 10, 0, 0, 0, time.UTC)))
}
