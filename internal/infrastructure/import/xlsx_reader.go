package sheetimport

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// XLSXReader reads the first worksheet of an Office Open XML workbook.
// The first row is the header; numeric cells (date-formatted ones included)
// come back as float64 so date serials reach the normalizers untouched.
type XLSXReader struct{}

// ReadRows implements SheetReader
func (XLSXReader) ReadRows(r io.Reader) ([]*Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrInvalidWorkbook
	}

	records, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(records) == 0 {
		return []*Row{}, nil
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = trimSpaces(h)
	}

	rows := make([]*Row, 0, len(records)-1)
	for i, record := range records[1:] {
		lineNumber := i + 2
		row := NewRow(lineNumber)
		for col, header := range headers {
			if header == "" {
				continue
			}
			if col >= len(record) {
				row.Set(header, nil)
				continue
			}
			row.Set(header, typedCell(f, sheet, col+1, lineNumber, record[col]))
		}
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// typedCell converts a raw cell value into the loose cell types a Row holds
func typedCell(f *excelize.File, sheet string, col, line int, raw string) any {
	if trimSpaces(raw) == "" {
		return nil
	}

	axis, err := excelize.CoordinatesToCellName(col, line)
	if err != nil {
		return raw
	}
	cellType, err := f.GetCellType(sheet, axis)
	if err != nil {
		return raw
	}

	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return raw
	case excelize.CellTypeBool:
		return raw == "1" || raw == "TRUE" || raw == "true"
	case excelize.CellTypeDate:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", time.DateOnly} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t
			}
		}
		return raw
	}

	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	return raw
}
