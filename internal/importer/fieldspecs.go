package importer

import (
	"github.com/jeanthielis/relatorio-retidos/internal/model"
)

// Field logical column of the canonical schema
type Field string

const (
	FieldTeam     Field = "team"
	FieldLine     Field = "line"
	FieldQuantity Field = "quantity"
	FieldDate     Field = "date"
	FieldReason   Field = "reason"
)

// FieldSpec how to find one logical field in a raw table
type FieldSpec struct {
	Field    Field    `json:"field"`
	Label    string   `json:"label"`    // name used in the validation message
	Keywords []string `json:"keywords"` // candidate fragments, highest priority first
	Required bool     `json:"required"`
}

// FieldSpecSet field specs of both datasets
type FieldSpecSet struct {
	Production []FieldSpec `json:"production"`
	Retained   []FieldSpec `json:"retained"`
}

// DefaultFieldSpecs keyword lists for the usual production and retained-material exports.
// The order of the specs is the order of the validation messages.
func DefaultFieldSpecs() FieldSpecSet {
	return FieldSpecSet{
		Production: []FieldSpec{
			{Field: FieldTeam, Label: "'Equipe'", Keywords: []string{"equipe", "team", "turno"}, Required: true},
			{Field: FieldLine, Label: "'Forno' ou 'Linha'", Keywords: []string{"forno", "linha", "maq"}, Required: true},
			{Field: FieldQuantity, Label: "'Metragem' ou 'Produção'", Keywords: []string{"metragem", "m2", "prod"}, Required: true},
			{Field: FieldDate, Label: "'Data'", Keywords: []string{"data", "date", "dia"}},
		},
		Retained: []FieldSpec{
			{Field: FieldReason, Label: "'Motivo'", Keywords: []string{"motivo", "defeito", "causa"}, Required: true},
			{Field: FieldQuantity, Label: "'M2' ou 'Metragem'", Keywords: []string{"m²", "m2", "metragem", "quant"}, Required: true},
			{Field: FieldTeam, Label: "'Equipe'", Keywords: []string{"equipe", "team", "turno"}, Required: true},
			{Field: FieldLine, Label: "'Forno' ou 'Linha'", Keywords: []string{"forno", "linha", "maq"}, Required: true},
			{Field: FieldDate, Label: "'Data'", Keywords: []string{"data", "date", "dia", "hora"}},
		},
	}
}

// For returns the specs of a dataset
func (s FieldSpecSet) For(dataset model.Dataset) []FieldSpec {
	if dataset == model.DatasetRetained {
		return s.Retained
	}
	return s.Production
}

// WithOverrides replaces keyword lists per dataset and field.
// overrides is keyed by dataset ("producao", "retidos") then field ("team", "line", ...).
// Unknown datasets or fields and empty lists are ignored.
func (s FieldSpecSet) WithOverrides(overrides map[string]map[string][]string) FieldSpecSet {
	out := FieldSpecSet{
		Production: overrideSpecs(s.Production, overrides[string(model.DatasetProduction)]),
		Retained:   overrideSpecs(s.Retained, overrides[string(model.DatasetRetained)]),
	}
	return out
}

func overrideSpecs(specs []FieldSpec, fields map[string][]string) []FieldSpec {
	out := make([]FieldSpec, len(specs))
	for i, spec := range specs {
		out[i] = spec
		out[i].Keywords = append([]string(nil), spec.Keywords...)
		if kws, ok := fields[string(spec.Field)]; ok && len(kws) > 0 {
			out[i].Keywords = append([]string(nil), kws...)
		}
	}
	return out
}
