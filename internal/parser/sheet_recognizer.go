package parser

import (
	"github.com/jeanthielis/relatorio-retidos/internal/model"
)

// nameBoost added when the sheet name contains one of the hints
const nameBoost = 0.1

// FieldKeywords keyword list of one expected field
type FieldKeywords struct {
	Field    string
	Keywords []string
}

// SheetRecognizer scores worksheet headers against a set of expected fields
type SheetRecognizer struct {
	fields    []FieldKeywords
	nameHints []string
}

// NewSheetRecognizer creates a recognizer. nameHints are lower-case fragments of
// sheet names that usually hold the dataset (e.g. "retid").
func NewSheetRecognizer(fields []FieldKeywords, nameHints ...string) *SheetRecognizer {
	return &SheetRecognizer{fields: fields, nameHints: nameHints}
}

// Recognize scores one sheet: the share of fields whose keywords resolve against
// the header, plus a small boost when the sheet name matches a hint.
func (r *SheetRecognizer) Recognize(sheetName string, columns []string) model.SheetRecognition {
	res := model.SheetRecognition{SheetName: sheetName}
	if len(r.fields) == 0 {
		return res
	}

	for _, f := range r.fields {
		if _, ok := ResolveColumn(columns, f.Keywords); ok {
			res.Matched++
			continue
		}
		res.MissingFields = append(res.MissingFields, f.Field)
	}
	res.Score = float64(res.Matched) / float64(len(r.fields))

	if res.Score > 0 && ContainsAny(NormalizeColumnName(sheetName), r.nameHints) {
		res.Score += nameBoost
	}
	return res
}

// Best index of the highest score; the earliest sheet wins ties, so a workbook
// whose first sheet matches is read exactly as before. -1 for an empty slice.
func Best(results []model.SheetRecognition) int {
	best := -1
	for i, res := range results {
		if best < 0 || res.Score > results[best].Score {
			best = i
		}
	}
	return best
}

// hintsFor sheet-name hints of a dataset
func hintsFor(dataset model.Dataset) []string {
	if dataset == model.DatasetRetained {
		return []string{"retid", "perda", "refugo"}
	}
	return []string{"prod"}
}

// NewDatasetRecognizer recognizer with the usual sheet-name hints of a dataset
func NewDatasetRecognizer(dataset model.Dataset, fields []FieldKeywords) *SheetRecognizer {
	return NewSheetRecognizer(fields, hintsFor(dataset)...)
}
