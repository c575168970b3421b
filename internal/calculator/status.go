package calculator

import "github.com/jeanthielis/relatorio-retidos/internal/model"

// Status classifies a realized percentage against the target percentage.
// Equal to the target is within.
func Status(pct, targetPct float64) model.Status {
	if pct <= targetPct {
		return model.StatusWithin
	}
	return model.StatusOver
}

// QuantityStatus classifies a retained quantity against the target quantity
func QuantityStatus(retained, target float64) model.Status {
	if retained <= target {
		return model.StatusWithin
	}
	return model.StatusOver
}

// TargetQuantity produced × targetPct / 100
func TargetQuantity(produced, targetPct float64) float64 {
	return produced * (targetPct / 100)
}

// PctRealized retained / produced × 100, 0 when nothing was produced
func PctRealized(retained, produced float64) float64 {
	pct := 0.0
	if produced != 0 {
		pct = retained / produced * 100
	}
	return pct
}

// LineHeadline KPI card of a line, taken from its overall summary row
func LineHeadline(rows []model.AggregateRow, line model.Line) model.Headline {
	for _, r := range rows {
		if r.Line == line && r.Overall {
			return model.Headline{
				Line:        line,
				PctRealized: r.PctRealized,
				Status:      r.Status,
				Available:   true,
			}
		}
	}
	return model.Headline{Line: line}
}

// Headlines one card per reported line
func Headlines(rows []model.AggregateRow) []model.Headline {
	out := make([]model.Headline, 0, len(model.ReportedLines))
	for _, line := range model.ReportedLines {
		out = append(out, LineHeadline(rows, line))
	}
	return out
}
