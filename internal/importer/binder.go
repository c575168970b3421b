package importer

import (
	"fmt"
	"strings"

	"github.com/jeanthielis/relatorio-retidos/internal/model"
	"github.com/jeanthielis/relatorio-retidos/internal/parser"
)

// ValidationHint shown below the validation messages
const ValidationHint = "Dica: Verifique se os nomes das colunas no Excel correspondem ao esperado (ex: 'Equipe', 'M2', 'Forno')."

// BindingError a required logical field with no matching column
type BindingError struct {
	Dataset model.Dataset `json:"dataset"`
	Field   Field         `json:"field"`
	Label   string        `json:"label"`
}

func (e BindingError) Error() string {
	return fmt.Sprintf("Arquivo %s: Coluna de %s não encontrada.", e.Dataset.Label(), e.Label)
}

// ValidationReport every binding failure of both tables, in discovery order
type ValidationReport struct {
	Errors []BindingError `json:"errors"`
}

// OK reports whether binding can proceed
func (r *ValidationReport) OK() bool {
	return r == nil || len(r.Errors) == 0
}

// Messages one human-readable line per missing field
func (r *ValidationReport) Messages() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		out[i] = e.Error()
	}
	return out
}

func (r *ValidationReport) Error() string {
	return "problemas encontrados na estrutura dos arquivos: " + strings.Join(r.Messages(), " ")
}

// Bound canonical tables of a successful bind
type Bound struct {
	Production *model.CanonicalTable
	Retained   *model.CanonicalTable
}

// BindSchema resolves every field spec against the table and, when no required field
// is missing, converts each raw row into exactly one canonical row.
func BindSchema(table *model.RawTable, specs []FieldSpec) (*model.CanonicalTable, []BindingError) {
	bindings := make([]model.ColumnBinding, 0, len(specs))
	var errs []BindingError

	for _, spec := range specs {
		b := parser.Bind(string(spec.Field), table.Columns, spec.Keywords)
		b.Required = spec.Required
		bindings = append(bindings, b)
		if !b.Found && spec.Required {
			errs = append(errs, BindingError{
				Dataset: table.Dataset,
				Field:   spec.Field,
				Label:   spec.Label,
			})
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	columns := make(map[Field]string, len(bindings))
	for _, b := range bindings {
		if b.Found {
			columns[Field(b.Field)] = b.Column
		}
	}

	rows := make([]model.CanonicalRow, 0, len(table.Rows))
	for i, raw := range table.Rows {
		rows = append(rows, canonicalRow(raw, columns, i+2))
	}

	return &model.CanonicalTable{
		Dataset:  table.Dataset,
		Source:   table.Source,
		Bindings: bindings,
		Rows:     rows,
	}, nil
}

// BindPair binds both tables and collects the failures of both before reporting.
// No canonical table is returned unless every required field of both tables resolves.
func BindPair(production, retained *model.RawTable, specs FieldSpecSet) (*Bound, *ValidationReport) {
	report := &ValidationReport{}

	prod, errs := BindSchema(production, specs.Production)
	report.Errors = append(report.Errors, errs...)

	ret, errs := BindSchema(retained, specs.Retained)
	report.Errors = append(report.Errors, errs...)

	if !report.OK() {
		return nil, report
	}
	return &Bound{Production: prod, Retained: ret}, nil
}

func canonicalRow(raw model.RawRow, columns map[Field]string, rowNo int) model.CanonicalRow {
	cell := func(f Field) any {
		col, ok := columns[f]
		if !ok {
			return nil
		}
		return raw[col]
	}

	row := model.CanonicalRow{
		RowNo:    rowNo,
		Line:     parser.ClassifyLine(cell(FieldLine)),
		Team:     textOr(cell(FieldTeam), model.UnassignedTeam),
		Quantity: parser.NormalizeQuantity(cell(FieldQuantity)),
		Period:   model.Undated,
	}
	if _, ok := columns[FieldDate]; ok {
		row.Period = parser.NormalizeDate(cell(FieldDate))
	}
	if _, ok := columns[FieldReason]; ok {
		row.Reason = textOr(cell(FieldReason), model.UnspecifiedReason)
		row.GroupedReason = row.Reason
	}
	return row
}

func textOr(v any, fallback string) string {
	s := strings.TrimSpace(parser.Stringify(v))
	if s == "" {
		return fallback
	}
	return s
}
