package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanthielis/relatorio-retidos/internal/model"
)

func rawTable(dataset model.Dataset, columns []string, rows ...[]any) *model.RawTable {
	t := &model.RawTable{Dataset: dataset, Source: string(dataset) + ".csv", Columns: columns}
	for _, rec := range rows {
		row := make(model.RawRow, len(columns))
		for i, col := range columns {
			row[col] = rec[i]
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func TestBindSchema_Production(t *testing.T) {
	t.Parallel()
	table := rawTable(model.DatasetProduction,
		[]string{"Data Produção", "Equipe", "Forno", "Metragem (m2)"},
		[]any{"15/03/2024", "A", "Forno 10", "1.500,00"},
		[]any{nil, nil, 12.0, 300.0},
	)

	got, errs := BindSchema(table, DefaultFieldSpecs().Production)
	require.Empty(t, errs)
	require.Len(t, got.Rows, 2)

	assert.Equal(t, model.CanonicalRow{
		RowNo:    2,
		Line:     model.LineFour,
		Team:     "A",
		Quantity: 1500,
		Period:   "2024-03",
	}, got.Rows[0])

	assert.Equal(t, model.LineSix, got.Rows[1].Line)
	assert.Equal(t, model.UnassignedTeam, got.Rows[1].Team)
	assert.Equal(t, model.Undated, got.Rows[1].Period)
	assert.Equal(t, 3, got.Rows[1].RowNo)
}

func TestBindSchema_NoDateColumnIsUndated(t *testing.T) {
	t.Parallel()
	table := rawTable(model.DatasetProduction,
		[]string{"Turno", "Linha", "Prod"},
		[]any{1.0, "13", 10.0},
	)
	got, errs := BindSchema(table, DefaultFieldSpecs().Production)
	require.Empty(t, errs)
	assert.Equal(t, model.Undated, got.Rows[0].Period)
	assert.Equal(t, "1", got.Rows[0].Team)

	for _, b := range got.Bindings {
		if b.Field == string(FieldDate) {
			assert.False(t, b.Found)
			assert.False(t, b.Required)
		}
	}
}

func TestBindSchema_Retained(t *testing.T) {
	t.Parallel()
	table := rawTable(model.DatasetRetained,
		[]string{"Motivo", "M² Retido", "Equipe", "Forno"},
		[]any{"  Trinca ", "12,5", "B", "11"},
		[]any{"", 3.0, "B", "11"},
	)
	got, errs := BindSchema(table, DefaultFieldSpecs().Retained)
	require.Empty(t, errs)
	assert.Equal(t, "Trinca", got.Rows[0].Reason)
	assert.Equal(t, "Trinca", got.Rows[0].GroupedReason)
	assert.Equal(t, 12.5, got.Rows[0].Quantity)
	assert.Equal(t, model.UnspecifiedReason, got.Rows[1].Reason)
}

func TestBindPair_CollectsAllErrors(t *testing.T) {
	t.Parallel()
	prod := rawTable(model.DatasetProduction, []string{"Forno", "Metragem"})
	ret := rawTable(model.DatasetRetained, []string{"Equipe", "Forno"})

	bound, report := BindPair(prod, ret, DefaultFieldSpecs())
	assert.Nil(t, bound)
	require.False(t, report.OK())
	assert.Equal(t, []string{
		"Arquivo Produção: Coluna de 'Equipe' não encontrada.",
		"Arquivo Retidos: Coluna de 'Motivo' não encontrada.",
		"Arquivo Retidos: Coluna de 'M2' ou 'Metragem' não encontrada.",
	}, report.Messages())
	assert.Contains(t, report.Error(), "'Motivo'")
}

func TestBindPair_OK(t *testing.T) {
	t.Parallel()
	prod := rawTable(model.DatasetProduction,
		[]string{"Equipe", "Forno", "Metragem"},
		[]any{"A", "10", 100.0},
	)
	ret := rawTable(model.DatasetRetained,
		[]string{"Motivo", "M2", "Equipe", "Forno"},
		[]any{"Bolha", 1.0, "A", "10"},
	)
	bound, report := BindPair(prod, ret, DefaultFieldSpecs())
	require.Nil(t, report)
	assert.True(t, report.OK())
	assert.Len(t, bound.Production.Rows, 1)
	assert.Len(t, bound.Retained.Rows, 1)
}

func TestFieldSpecSet_WithOverrides(t *testing.T) {
	t.Parallel()
	base := DefaultFieldSpecs()
	specs := base.WithOverrides(map[string]map[string][]string{
		"producao": {"team": {"grupo"}, "line": {}},
	})

	prod := rawTable(model.DatasetProduction,
		[]string{"Grupo", "Forno", "Metragem"},
		[]any{"X", "12", 1.0},
	)
	got, errs := BindSchema(prod, specs.Production)
	require.Empty(t, errs)
	assert.Equal(t, "X", got.Rows[0].Team)

	// base untouched, empty override ignored
	assert.Equal(t, []string{"equipe", "team", "turno"}, base.Production[0].Keywords)
	assert.Equal(t, []string{"forno", "linha", "maq"}, specs.Production[1].Keywords)
}
