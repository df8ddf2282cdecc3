package importapp

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/lojacrm/backend/internal/domain/catalog"
	sheetimport "github.com/lojacrm/backend/internal/infrastructure/import"
	"github.com/shopspring/decimal"
)

// Spreadsheet date serials count days from 1899-12-30, which absorbs the
// 1900 leap-year bug of the original spreadsheet format.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// maxSerial is 9999-12-31, the last date a spreadsheet can hold.
const maxSerial = 2_958_465

var (
	leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	shoePrefix    = regexp.MustCompile(`^N(?:\s*-\s*|\s+)(\d+)$`)
)

// Slashed dates are read day first, as Brazilian sheets write them. The
// month-first layouts only match when the day-first reading is impossible,
// such as 1/15/2024.
var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	time.DateTime,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006/1/2",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"2/1/2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"1/2/2006",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
}

// NormalizeNumber reads a cell as a number using the Brazilian locale:
// '.' groups thousands and ',' separates decimals. Anything unreadable is 0.
func NormalizeNumber(raw any) float64 {
	switch v := raw.(type) {
	case nil:
		return 0
	case float64:
		return finiteOrZero(v)
	case float32:
		return finiteOrZero(float64(v))
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case string:
		return parseLocaleNumber(v)
	}
	return 0
}

func parseLocaleNumber(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsSpace(r), r == '.':
		case r == ',':
			b.WriteByte('.')
		default:
			b.WriteRune(r)
		}
	}

	// Only the leading numeric prefix counts, so "12abc" reads as 12.
	prefix := leadingNumber.FindString(b.String())
	if prefix == "" {
		return 0
	}
	n, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0
	}
	return finiteOrZero(n)
}

func finiteOrZero(n float64) float64 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// NormalizeInteger rounds a normalized number half away from zero and
// clamps everything that is not positive to 0.
func NormalizeInteger(raw any) int {
	rounded := math.Round(NormalizeNumber(raw))
	if !(rounded > 0) || rounded > math.MaxInt32 {
		return 0
	}
	return int(rounded)
}

// NormalizeMoney is NormalizeNumber as a two decimal amount
func NormalizeMoney(raw any) decimal.Decimal {
	return decimal.NewFromFloat(NormalizeNumber(raw)).Round(2)
}

// ConvertDateSerial reads a cell as a date. Numbers (and numeric strings,
// since CSV cells are always text) are date serials; other strings are
// parsed against the accepted layouts. Empty, zero or unreadable is nil.
func ConvertDateSerial(raw any) *time.Time {
	switch v := raw.(type) {
	case nil:
		return nil
	case time.Time:
		if v.IsZero() {
			return nil
		}
		return &v
	case float64:
		return fromSerial(v)
	case int:
		return fromSerial(float64(v))
	case int64:
		return fromSerial(float64(v))
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return fromSerial(n)
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return &t
			}
		}
	}
	return nil
}

func fromSerial(serial float64) *time.Time {
	if serial == 0 || math.IsNaN(serial) || math.Abs(serial) > maxSerial {
		return nil
	}
	days := math.Floor(serial)
	ms := math.Round((serial - days) * 86_400_000)
	t := serialEpoch.AddDate(0, 0, int(days)).Add(time.Duration(ms) * time.Millisecond)
	return &t
}

// ParsePseudoArray splits a list cell such as "['A', 'B']". Brackets and
// quotes are dropped, as are empty and "nan" tokens. The result is never nil.
func ParsePseudoArray(field any) []string {
	out := make([]string, 0)
	if sheetimport.IsEmptyCell(field) {
		return out
	}

	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', '\'', '"':
			return -1
		}
		return r
	}, sheetimport.CellString(field))

	for _, token := range strings.Split(cleaned, ",") {
		token = strings.TrimSpace(token)
		if token == "" || strings.EqualFold(token, "nan") {
			continue
		}
		out = append(out, token)
	}
	return out
}

// SanitizeBrandToken canonicalizes a brand name. Names longer than a
// brand column can hold are dropped.
func SanitizeBrandToken(token string) (string, bool) {
	return canonicalToken(token, catalog.MaxBrandNameLength)
}

// SanitizeClothingSizeToken canonicalizes a clothing size
func SanitizeClothingSizeToken(token string) (string, bool) {
	return canonicalToken(token, catalog.MaxSizeNameLength)
}

// SanitizeShoeSizeToken canonicalizes a shoe size. A numbering marker
// ("n-36", "N 36", "N - 36") becomes "N-36".
func SanitizeShoeSizeToken(token string) (string, bool) {
	s, ok := canonicalToken(token, catalog.MaxSizeNameLength)
	if !ok {
		return "", false
	}
	if m := shoePrefix.FindStringSubmatch(s); m != nil {
		return "N-" + m[1], true
	}
	return s, true
}

func canonicalToken(token string, maxLen int) (string, bool) {
	s := strings.ToUpper(strings.Join(strings.Fields(token), " "))
	if s == "" || utf8.RuneCountInString(s) > maxLen {
		return "", false
	}
	return s, true
}
