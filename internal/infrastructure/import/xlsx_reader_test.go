package sheetimport

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, value))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestXLSXReader_ReadRows(t *testing.T) {
	t.Run("Typed cells from the first sheet", func(t *testing.T) {
		buf := buildWorkbook(t, [][]any{
			{"Cliente", "Total_Gasto", "Qtde_Compras_Total", "Data_Ultima_Compra", "Marcas"},
			{"Ana Silva", "1.500,00", 3, 45000, "['FARM','Animale']"},
			{"Bruno", 250.5, nil, nil, nil},
		})

		rows, err := XLSXReader{}.ReadRows(buf)

		require.NoError(t, err)
		require.Len(t, rows, 2)

		first := rows[0]
		assert.Equal(t, 2, first.LineNumber)
		assert.Equal(t, "Ana Silva", first.Get("cliente"))
		assert.Equal(t, "1.500,00", first.Get("total_gasto"))
		assert.Equal(t, float64(3), first.Get("qtde_compras_total"))
		assert.Equal(t, float64(45000), first.Get("data_ultima_compra"))
		assert.Equal(t, "['FARM','Animale']", first.Get("marcas"))

		second := rows[1]
		assert.Equal(t, 3, second.LineNumber)
		assert.Equal(t, 250.5, second.Get("total_gasto"))
		assert.Nil(t, second.Get("data_ultima_compra"))
	})

	t.Run("Date cells arrive as serial numbers", func(t *testing.T) {
		buf := buildWorkbook(t, [][]any{
			{"data_ultima_compra"},
			{time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)},
		})

		rows, err := XLSXReader{}.ReadRows(buf)

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, float64(45000), rows[0].Get("data_ultima_compra"))
	})

	t.Run("Blank rows are skipped and line numbers kept", func(t *testing.T) {
		buf := buildWorkbook(t, [][]any{
			{"cliente"},
			{"Ana"},
			{nil},
			{"Bruno"},
		})

		rows, err := XLSXReader{}.ReadRows(buf)

		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, 4, rows[1].LineNumber)
	})

	t.Run("Empty workbook yields no rows", func(t *testing.T) {
		rows, err := XLSXReader{}.ReadRows(buildWorkbook(t, nil))

		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("Garbage input is rejected", func(t *testing.T) {
		_, err := XLSXReader{}.ReadRows(bytes.NewBufferString("not a workbook"))
		assert.ErrorIs(t, err, ErrInvalidWorkbook)
	})
}
