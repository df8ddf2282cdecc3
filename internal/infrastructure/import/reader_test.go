package sheetimport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderFor(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		want    SheetReader
		wantErr error
	}{
		{"xlsx", "clientes.xlsx", XLSXReader{}, nil},
		{"xlsm upper case", "CLIENTES.XLSM", XLSXReader{}, nil},
		{"csv", "export.csv", CSVReader{}, nil},
		{"legacy xls", "old.xls", nil, ErrUnsupportedFormat},
		{"no extension", "clientes", nil, ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReaderFor(tt.file)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, got)
		})
	}
}

func TestReadFile(t *testing.T) {
	t.Run("CSV with header only", func(t *testing.T) {
		rows, err := ReadFile("export.csv", strings.NewReader("cliente,cpf\n"))

		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})

	t.Run("CSV rows", func(t *testing.T) {
		rows, err := ReadFile("export.csv", strings.NewReader("cliente;cpf\nAna;111\n"))

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "111", rows[0].Get("CPF"))
	})

	t.Run("Unsupported extension", func(t *testing.T) {
		_, err := ReadFile("notes.txt", strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}
