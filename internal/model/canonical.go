package model

// Line production line category derived from the furnace identifier
type Line string

const (
	LineFour   Line = "Linha 4 e 5" // furnaces 10 and 11
	LineSix    Line = "Linha 6"     // furnaces 12 and 13
	LineOthers Line = "Outros"
)

// ReportedLines lines that get a headline, series and top-reasons view
var ReportedLines = []Line{LineFour, LineSix}

// LineOrder position of a line in every ordered output
func LineOrder(l Line) int {
	switch l {
	case LineFour:
		return 0
	case LineSix:
		return 1
	default:
		return 2
	}
}

// Period year-month bucket formatted as YYYY-MM
type Period string

// Undated bucket for rows without a usable date
const Undated Period = "Sem Data"

const (
	// OverallTeam synthetic team holding the per-line (or per-period) totals
	OverallTeam = "Média Geral"
	// UnassignedTeam team used when the team cell is blank
	UnassignedTeam = "Sem Equipe"
	// UnspecifiedReason reason used when the reason cell is blank
	UnspecifiedReason = "Sem Motivo"
)

// ColumnBinding result of resolving one logical field against a table header
type ColumnBinding struct {
	Field    string `json:"field"`
	Column   string `json:"column"`
	Found    bool   `json:"found"`
	Required bool   `json:"required"`
}

// CanonicalRow normalized record of either dataset.
// Reason and GroupedReason are only filled for retained-material rows.
type CanonicalRow struct {
	RowNo         int     `json:"rowNo"`
	Line          Line    `json:"line"`
	Team          string  `json:"team"`
	Quantity      float64 `json:"quantity"`
	Period        Period  `json:"period"`
	Reason        string  `json:"reason,omitempty"`
	GroupedReason string  `json:"groupedReason,omitempty"`
}

// CanonicalTable rows of one dataset after binding
type CanonicalTable struct {
	Dataset  Dataset         `json:"dataset"`
	Source   string          `json:"source"`
	Bindings []ColumnBinding `json:"bindings"`
	Rows     []CanonicalRow  `json:"rows"`
}
