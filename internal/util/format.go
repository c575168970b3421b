package util

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatQuantity pt-BR number with two decimals: 12345.6 -> "12.345,60"
func FormatQuantity(value float64) string {
	return formatBR(decimal.NewFromFloat(value).StringFixed(2))
}

// FormatPercent pt-BR percentage of a value already in percent: 0.59 -> "0,59%"
func FormatPercent(value float64) string {
	return formatBR(decimal.NewFromFloat(value).StringFixed(2)) + "%"
}

// formatBR rewrites "-12345.60" as "-12.345,60"
func formatBR(fixed string) string {
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteByte(',')
		b.WriteString(frac)
	}
	return sign + b.String()
}
