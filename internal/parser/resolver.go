package parser

import (
	"strings"

	"github.com/jeanthielis/relatorio-retidos/internal/model"
)

// ResolveColumn finds the real column for a logical field.
// Keywords are tried in priority order; for each keyword the header is scanned in
// table order and the first column containing it (case-insensitive, trimmed) wins.
// A later keyword is only tried when no column contains an earlier one.
func ResolveColumn(columns []string, keywords []string) (string, bool) {
	normalized := make([]string, len(columns))
	for i, col := range columns {
		normalized[i] = NormalizeColumnName(col)
	}

	for _, kw := range keywords {
		kw = NormalizeColumnName(kw)
		if kw == "" {
			continue
		}
		if idx := firstColumnContaining(normalized, kw); idx >= 0 {
			return columns[idx], true
		}
	}
	return "", false
}

func firstColumnContaining(columns []string, keyword string) int {
	for i, col := range columns {
		if strings.Contains(col, keyword) {
			return i
		}
	}
	return -1
}

// Bind resolves a field and wraps the outcome
func Bind(field string, columns []string, keywords []string) model.ColumnBinding {
	col, ok := ResolveColumn(columns, keywords)
	return model.ColumnBinding{Field: field, Column: col, Found: ok}
}
