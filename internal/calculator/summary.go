package calculator

import (
	"sort"

	"github.com/jeanthielis/relatorio-retidos/internal/model"
)

type lineTeam struct {
	line model.Line
	team string
}

// AggregateSummary line/team summary table.
//
// Retained quantities are left-joined onto the production (line, team) keys, so a team
// that only shows up in the retained log has no summary row. Each line gets a trailing
// overall row built from the sums of its team rows.
func AggregateSummary(prod, ret []model.CanonicalRow, targetPct float64) []model.AggregateRow {
	produced := make(map[lineTeam]float64)
	var keys []lineTeam
	for _, r := range prod {
		k := lineTeam{r.Line, r.Team}
		if _, ok := produced[k]; !ok {
			keys = append(keys, k)
		}
		produced[k] += r.Quantity
	}

	retained := make(map[lineTeam]float64)
	for _, r := range ret {
		retained[lineTeam{r.Line, r.Team}] += r.Quantity
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].line != keys[j].line {
			return model.LineOrder(keys[i].line) < model.LineOrder(keys[j].line)
		}
		return keys[i].team < keys[j].team
	})

	out := make([]model.AggregateRow, 0, len(keys)+3)
	for i := 0; i < len(keys); {
		line := keys[i].line
		var totalProduced, totalRetained float64
		for ; i < len(keys) && keys[i].line == line; i++ {
			k := keys[i]
			row := newAggregateRow(line, k.team, produced[k], retained[k], targetPct)
			totalProduced += row.Produced
			totalRetained += row.Retained
			out = append(out, row)
		}
		overall := newAggregateRow(line, model.OverallTeam, totalProduced, totalRetained, targetPct)
		overall.Overall = true
		out = append(out, overall)
	}
	return out
}

func newAggregateRow(line model.Line, team string, produced, retained, targetPct float64) model.AggregateRow {
	target := TargetQuantity(produced, targetPct)
	pct := PctRealized(retained, produced)
	return model.AggregateRow{
		Line:        line,
		Team:        team,
		Produced:    produced,
		Target:      target,
		Retained:    retained,
		Surplus:     target - retained,
		PctRealized: pct,
		Status:      Status(pct, targetPct),
	}
}

// LineRows summary rows of one line
func LineRows(rows []model.AggregateRow, line model.Line) []model.AggregateRow {
	var out []model.AggregateRow
	for _, r := range rows {
		if r.Line == line {
			out = append(out, r)
		}
	}
	return out
}
