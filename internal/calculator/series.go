package calculator

import (
	"sort"

	"github.com/jeanthielis/relatorio-retidos/internal/model"
)

type periodTeam struct {
	period model.Period
	team   string
}

// AggregateTimeSeries monthly evolution of one line.
//
// Production and retained sums are outer-joined on (period, team), a missing side
// counts as 0. Every period also gets an overall point summing all of its teams.
// Points are ordered by period, then team name, with the overall point last.
func AggregateTimeSeries(prod, ret []model.CanonicalRow, line model.Line, targetPct float64) []model.SeriesPoint {
	type sums struct {
		produced, retained float64
	}
	teams := make(map[periodTeam]*sums)
	periods := make(map[model.Period]*sums)

	add := func(r model.CanonicalRow, retained bool) {
		if r.Line != line {
			return
		}
		k := periodTeam{r.Period, r.Team}
		if teams[k] == nil {
			teams[k] = &sums{}
		}
		if periods[r.Period] == nil {
			periods[r.Period] = &sums{}
		}
		if retained {
			teams[k].retained += r.Quantity
			periods[r.Period].retained += r.Quantity
		} else {
			teams[k].produced += r.Quantity
			periods[r.Period].produced += r.Quantity
		}
	}
	for _, r := range prod {
		add(r, false)
	}
	for _, r := range ret {
		add(r, true)
	}
	if len(teams) == 0 {
		return nil
	}

	out := make([]model.SeriesPoint, 0, len(teams)+len(periods))
	for k, s := range teams {
		out = append(out, newSeriesPoint(k.period, k.team, s.produced, s.retained, targetPct))
	}
	for p, s := range periods {
		pt := newSeriesPoint(p, model.OverallTeam, s.produced, s.retained, targetPct)
		pt.Overall = true
		out = append(out, pt)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		if a.Overall != b.Overall {
			return !a.Overall
		}
		return a.Team < b.Team
	})
	return out
}

func newSeriesPoint(period model.Period, team string, produced, retained, targetPct float64) model.SeriesPoint {
	target := TargetQuantity(produced, targetPct)
	return model.SeriesPoint{
		Period:   period,
		Team:     team,
		Label:    string(period) + " | " + team,
		Produced: produced,
		Retained: retained,
		Target:   target,
		Status:   QuantityStatus(retained, target),
	}
}

// AllSeries series of every reported line that has data
func AllSeries(prod, ret []model.CanonicalRow, targetPct float64) []model.LineSeries {
	var out []model.LineSeries
	for _, line := range model.ReportedLines {
		points := AggregateTimeSeries(prod, ret, line, targetPct)
		if len(points) == 0 {
			continue
		}
		out = append(out, model.LineSeries{Line: line, Points: points})
	}
	return out
}
