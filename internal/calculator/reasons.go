package calculator

import (
	"sort"

	"github.com/jeanthielis/relatorio-retidos/internal/model"
)

// DefaultTopReasons number of reasons in each top-reasons ranking
const DefaultTopReasons = 10

// TopReasons retained quantity per grouped reason of one line, largest first.
// n <= 0 keeps every reason.
func TopReasons(ret []model.CanonicalRow, line model.Line, n int) []model.ReasonTotal {
	totals := make(map[string]float64)
	for _, r := range ret {
		if r.Line != line {
			continue
		}
		totals[groupedReason(r)] += r.Quantity
	}

	out := make([]model.ReasonTotal, 0, len(totals))
	for reason, qty := range totals {
		out = append(out, model.ReasonTotal{Reason: reason, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Reason < out[j].Reason
	})

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// TopReasonsByLine top reasons of every reported line that has retained rows
func TopReasonsByLine(ret []model.CanonicalRow, n int) []model.LineReasons {
	var out []model.LineReasons
	for _, line := range model.ReportedLines {
		reasons := TopReasons(ret, line, n)
		if len(reasons) == 0 {
			continue
		}
		out = append(out, model.LineReasons{Line: line, Reasons: reasons})
	}
	return out
}

// ReasonCatalogue sorted distinct raw reasons
func ReasonCatalogue(ret []model.CanonicalRow) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range ret {
		if _, ok := seen[r.Reason]; ok {
			continue
		}
		seen[r.Reason] = struct{}{}
		out = append(out, r.Reason)
	}
	sort.Strings(out)
	return out
}

// ReasonDrilldown per-team and per-line figures of one raw reason.
//
// Every production team appears, with zeros when the reason never hit it, plus any team
// that only appears in the retained rows of the reason. A team is flagged against a
// ceiling only while that ceiling is enabled; reaching the ceiling is not over it.
func ReasonDrilldown(prod, ret []model.CanonicalRow, reason string, targets model.TargetConfig) *model.Drilldown {
	retained := make(map[string]float64)
	occurrences := make(map[string]int)
	perLine := make(map[model.Line]int)
	for _, r := range ret {
		if r.Reason != reason {
			continue
		}
		retained[r.Team] += r.Quantity
		occurrences[r.Team]++
		perLine[r.Line]++
	}

	teamSet := make(map[string]struct{})
	for _, r := range prod {
		teamSet[r.Team] = struct{}{}
	}
	for team := range occurrences {
		teamSet[team] = struct{}{}
	}
	names := make([]string, 0, len(teamSet))
	for team := range teamSet {
		names = append(names, team)
	}
	sort.Strings(names)

	d := &model.Drilldown{
		Reason:  reason,
		Targets: targets,
		Teams:   make([]model.DrilldownTeam, 0, len(names)),
		Lines:   make([]model.DrilldownLine, 0, len(perLine)),
	}
	for _, team := range names {
		qty, occ := retained[team], occurrences[team]
		d.Teams = append(d.Teams, model.DrilldownTeam{
			Team:           team,
			Retained:       qty,
			Occurrences:    occ,
			AreaOver:       targets.AreaCeilingEnabled && qty > targets.AreaCeiling,
			OccurrenceOver: targets.OccurrenceCeilingEnabled && occ > targets.OccurrenceCeiling,
		})
	}
	for line, occ := range perLine {
		d.Lines = append(d.Lines, model.DrilldownLine{Line: line, Occurrences: occ})
	}
	sort.Slice(d.Lines, func(i, j int) bool {
		return model.LineOrder(d.Lines[i].Line) < model.LineOrder(d.Lines[j].Line)
	})
	return d
}

func groupedReason(r model.CanonicalRow) string {
	if r.GroupedReason != "" {
		return r.GroupedReason
	}
	return r.Reason
}
