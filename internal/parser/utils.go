package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// NormalizeColumnName lower-cased, trimmed column name used for keyword matching
func NormalizeColumnName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ContainsAny reports whether text contains any of the keywords
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Stringify renders a raw cell the way it reads in the spreadsheet
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case bool:
		if val {
			return "True"
		}
		return "False"
	case decimal.Decimal:
		return val.String()
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	}
	return fmt.Sprint(v)
}

// removeSpaces drops every unicode space, including the non-breaking ones spreadsheets emit
func removeSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
