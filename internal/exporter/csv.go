package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/jeanthielis/relatorio-retidos/internal/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteSummaryCSV writes the summary table as UTF-8 CSV with a BOM so spreadsheet
// tools pick the right encoding. Numbers keep two decimals.
func WriteSummaryCSV(w io.Writer, rows []model.AggregateRow) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			string(r.Line),
			r.Team,
			fixed(r.Produced),
			fixed(r.Target),
			fixed(r.Retained),
			fixed(r.Surplus),
			fixed(r.PctRealized),
			string(r.Status),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func fixed(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
