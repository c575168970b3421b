package model

// Status target classification of a percentage or quantity
type Status string

const (
	StatusWithin Status = "Dentro da Meta"
	StatusOver   Status = "Fora da Meta"
)

// AggregateRow one (line, team) row of the summary table
type AggregateRow struct {
	Line        Line    `json:"line"`
	Team        string  `json:"team"`
	Produced    float64 `json:"produced"`    // m² produced
	Target      float64 `json:"target"`      // produced × target%
	Retained    float64 `json:"retained"`    // m² retained
	Surplus     float64 `json:"surplus"`     // target - retained, negative is over target
	PctRealized float64 `json:"pctRealized"` // retained / produced × 100
	Status      Status  `json:"status"`
	Overall     bool    `json:"overall"`
}

// SeriesPoint one (period, team) bar of the monthly evolution chart
type SeriesPoint struct {
	Period   Period  `json:"period"`
	Team     string  `json:"team"`
	Label    string  `json:"label"`
	Produced float64 `json:"produced"`
	Retained float64 `json:"retained"`
	Target   float64 `json:"target"`
	Status   Status  `json:"status"`
	Overall  bool    `json:"overall"`
}

// LineSeries evolution of one line
type LineSeries struct {
	Line   Line          `json:"line"`
	Points []SeriesPoint `json:"points"`
}

// Headline KPI card of one line
type Headline struct {
	Line        Line    `json:"line"`
	PctRealized float64 `json:"pctRealized"`
	Status      Status  `json:"status"`
	Available   bool    `json:"available"`
}

// ReasonTotal retained quantity of one (grouped) reason
type ReasonTotal struct {
	Reason   string  `json:"reason"`
	Quantity float64 `json:"quantity"`
}

// LineReasons top reasons of one line
type LineReasons struct {
	Line    Line          `json:"line"`
	Reasons []ReasonTotal `json:"reasons"`
}

// DrilldownTeam per-team figures of the selected reason
type DrilldownTeam struct {
	Team           string  `json:"team"`
	Retained       float64 `json:"retained"`
	Occurrences    int     `json:"occurrences"`
	AreaOver       bool    `json:"areaOver"`
	OccurrenceOver bool    `json:"occurrenceOver"`
}

// DrilldownLine occurrences of the selected reason per line
type DrilldownLine struct {
	Line        Line `json:"line"`
	Occurrences int  `json:"occurrences"`
}

// Drilldown analysis of a single raw reason
type Drilldown struct {
	Reason  string          `json:"reason"`
	Targets TargetConfig    `json:"targets"`
	Teams   []DrilldownTeam `json:"teams"`
	Lines   []DrilldownLine `json:"lines"`
}
