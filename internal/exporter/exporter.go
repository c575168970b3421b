package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jeanthielis/relatorio-retidos/internal/model"
)

// SheetName the only sheet of the exported workbook
const SheetName = "Dados"

// Headers column titles of the summary export
var Headers = []string{
	"Linha", "Equipe", "M2_Produzido", "Meta_M2", "M2_Retido", "Saldo_M2", "% Realizado", "Status",
}

// Exporter writes the line/team summary table
type Exporter struct {
	progress func(ProgressEvent)
}

// NewExporter creates an exporter. progress may be nil.
func NewExporter(progress func(ProgressEvent)) *Exporter {
	return &Exporter{progress: progress}
}

// Workbook builds the summary workbook
func (e *Exporter) Workbook(rows []model.AggregateRow) (*excelize.File, error) {
	reportProgress(e.progress, 0, "preparando planilha")

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	if err := e.fill(f, rows); err != nil {
		_ = f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	reportProgress(e.progress, 100, "concluído")
	return f, nil
}

// WriteSummary writes the summary workbook to w
func (e *Exporter) WriteSummary(w io.Writer, rows []model.AggregateRow) error {
	f, err := e.Workbook(rows)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (e *Exporter) fill(f *excelize.File, rows []model.AggregateRow) error {
	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := setCellValue(f, SheetName, cell, h); err != nil {
			return err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	numberStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return fmt.Errorf("failed to create number style: %w", err)
	}
	overallStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: 4})
	if err != nil {
		return fmt.Errorf("failed to create overall style: %w", err)
	}

	total := len(rows)
	for i, r := range rows {
		row := i + 2
		values := []any{
			string(r.Line), r.Team, r.Produced, r.Target, r.Retained, r.Surplus, r.PctRealized, string(r.Status),
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}

		style := numberStyle
		if r.Overall {
			style = overallStyle
		}
		from, _ := excelize.CoordinatesToCellName(3, row)
		to, _ := excelize.CoordinatesToCellName(7, row)
		if err := f.SetCellStyle(SheetName, from, to, style); err != nil {
			return fmt.Errorf("failed to style row %d: %w", row, err)
		}

		if total > 0 {
			reportProgress(e.progress, 10+80*(i+1)/total, "gravando linhas")
		}
	}

	if err := f.SetColWidth(SheetName, "A", "B", 18); err != nil {
		return err
	}
	return f.SetColWidth(SheetName, "C", "H", 15)
}

func setCellValue(f *excelize.File, sheet, cell string, value interface{}) error {
	return f.SetCellValue(sheet, cell, value)
}
