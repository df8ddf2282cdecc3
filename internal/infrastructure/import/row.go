package sheetimport

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Row is one data row of an uploaded sheet. Data is keyed by the normalized
// header (trimmed, lower-cased) and holds loosely typed cell values: string,
// float64, bool, time.Time, or nil for an empty cell.
type Row struct {
	LineNumber int
	Data       map[string]any
}

// NewRow creates an empty row for the given 1-indexed sheet line
func NewRow(lineNumber int) *Row {
	return &Row{
		LineNumber: lineNumber,
		Data:       make(map[string]any),
	}
}

// NormalizeHeader returns the key under which a header's cells are stored
func NormalizeHeader(h string) string {
	return strings.ToLower(trimSpaces(h))
}

// Set stores a cell value under the normalized header
func (r *Row) Set(header string, value any) {
	if s, ok := value.(string); ok && trimSpaces(s) == "" {
		value = nil
	}
	r.Data[NormalizeHeader(header)] = value
}

// Get returns the cell value for a header, or nil when absent
func (r *Row) Get(header string) any {
	return r.Data[NormalizeHeader(header)]
}

// Lookup returns the first non-empty cell among the given headers
func (r *Row) Lookup(headers ...string) (any, bool) {
	for _, h := range headers {
		if v := r.Get(h); !IsEmptyCell(v) {
			return v, true
		}
	}
	return nil, false
}

// String renders a cell as text, the empty string when the cell is empty
func (r *Row) String(header string) string {
	return CellString(r.Get(header))
}

// IsEmpty returns true if the row has no non-empty values
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if !IsEmptyCell(v) {
			return false
		}
	}
	return true
}

// IsEmptyCell reports whether a cell value carries no data
func IsEmptyCell(v any) bool {
	switch c := v.(type) {
	case nil:
		return true
	case string:
		return trimSpaces(c) == ""
	case time.Time:
		return c.IsZero()
	}
	return false
}

// CellString renders any cell value as trimmed text
func CellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return trimSpaces(c)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case time.Time:
		return c.Format(time.DateOnly)
	default:
		return trimSpaces(fmt.Sprint(c))
	}
}
