package parser

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jeanthielis/relatorio-retidos/internal/model"
)

// maxExcelSerial 9999-12-31 as an Excel serial date
const maxExcelSerial = 2958465

// dayFirstLayouts accepted date layouts, day-first before ISO
var dayFirstLayouts = []string{
	"02/01/2006",
	"02/01/2006 15:04",
	"02/01/2006 15:04:05",
	"2/1/2006",
	"2/1/2006 15:04",
	"2/1/2006 15:04:05",
	"02/01/06",
	"02-01-2006",
	"02-01-2006 15:04:05",
	"02.01.2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.000",
	time.RFC3339,
	"2006/01/02",
}

// NormalizeQuantity converts a raw cell into a quantity.
// Numbers pass through. Strings use the Brazilian convention: "R$" and spaces are
// dropped, "." is a thousands separator and "," the decimal separator.
// Anything that does not parse yields 0.
func NormalizeQuantity(raw any) float64 {
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
	case bool:
		if v {
			return 1
		}
		return 0
	case decimal.Decimal:
		f, _ := v.Float64()
		return finiteOrZero(f)
	case string:
		return parseLocaleNumber(v)
	}
	return parseLocaleNumber(Stringify(raw))
}

func parseLocaleNumber(s string) float64 {
	s = strings.ReplaceAll(s, "R$", "")
	s = removeSpaces(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return finiteOrZero(f)
}

func finiteOrZero(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// NormalizeDate buckets a raw cell into its year-month period.
// Numbers are read as Excel serial dates, strings day-first.
// Unusable values land in model.Undated.
func NormalizeDate(raw any) model.Period {
	switch v := raw.(type) {
	case nil:
		return model.Undated
	case time.Time:
		if v.IsZero() {
			return model.Undated
		}
		return periodOf(v)
	case float64:
		return serialPeriod(v)
	case int:
		return serialPeriod(float64(v))
	case int64:
		return serialPeriod(float64(v))
	case string:
		return parseDatePeriod(v)
	}
	return parseDatePeriod(Stringify(raw))
}

func serialPeriod(serial float64) model.Period {
	if math.IsNaN(serial) || serial < 1 || serial > maxExcelSerial {
		return model.Undated
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return model.Undated
	}
	return periodOf(t)
}

func parseDatePeriod(s string) model.Period {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.Undated
	}
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return periodOf(t)
		}
	}
	return model.Undated
}

func periodOf(t time.Time) model.Period {
	return model.Period(t.Format("2006-01"))
}
