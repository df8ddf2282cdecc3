package sheetimport

import (
	"io"
	"path/filepath"
	"strings"
)

// SheetReader turns an uploaded file into ordered data rows
type SheetReader interface {
	ReadRows(r io.Reader) ([]*Row, error)
}

// CSVReader reads delimited text exports
type CSVReader struct {
	Options []ParserOption
}

// ReadRows implements SheetReader
func (c CSVReader) ReadRows(r io.Reader) ([]*Row, error) {
	parser, err := NewCSVParser(r, c.Options...)
	if err != nil {
		return nil, err
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, err
	}
	rows, err := parser.ReadAllRows()
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []*Row{}
	}
	return rows, nil
}

// ReaderFor picks a SheetReader from the file extension
func ReaderFor(fileName string) (SheetReader, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx", ".xlsm":
		return XLSXReader{}, nil
	case ".csv":
		return CSVReader{}, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// ReadFile reads all rows of an uploaded file, dispatching on its name
func ReadFile(fileName string, r io.Reader) ([]*Row, error) {
	reader, err := ReaderFor(fileName)
	if err != nil {
		return nil, err
	}
	return reader.ReadRows(r)
}
