package model

import (
	"fmt"
	"strings"
)

// Dataset identifies one of the two uploaded tables
type Dataset string

const (
	DatasetProduction Dataset = "producao"
	DatasetRetained   Dataset = "retidos"
)

// Import log status values
const (
	ImportProcessing = "processing"
	ImportLoaded     = "loaded"
	ImportFailed     = "failed"
)

// Label name shown to the operator
func (d Dataset) Label() string {
	switch d {
	case DatasetProduction:
		return "Produção"
	case DatasetRetained:
		return "Retidos"
	default:
		return string(d)
	}
}

// RawRow original column name -> cell value (string, float64 or nil)
type RawRow map[string]any

// RawTable untrusted table as read from an upload
type RawTable struct {
	Dataset Dataset  `json:"dataset"`
	Source  string   `json:"source"`
	Columns []string `json:"columns"`
	Rows    []RawRow `json:"-"`
}

// Len number of data rows
func (t *RawTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// UniqueColumns makes header names usable as map keys.
// Blank headers become "Unnamed: N" and repeated ones get a ".N" suffix; a suffixed
// name that is already taken is suffixed again ("Equipe.1" -> "Equipe.1.1").
func UniqueColumns(headers []string) []string {
	out := make([]string, len(headers))
	counts := make(map[string]int, len(headers))
	for i, h := range headers {
		name := strings.TrimPrefix(h, "\ufeff")
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		for counts[name] > 0 {
			n := counts[name]
			counts[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n)
		}
		counts[name] = 1
		out[i] = name
	}
	return out
}
