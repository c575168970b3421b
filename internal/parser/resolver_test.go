package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeanthielis/relatorio-retidos/internal/model"
)

func TestResolveColumn_Synonym(t *testing.T) {
	t.Parallel()

	col, ok := ResolveColumn([]string{"Turno", "Produto"}, []string{"equipe", "team", "turno"})
	assert.True(t, ok)
	assert.Equal(t, "Turno", col)
}

func TestResolveColumn_KeywordPriorityBeatsColumnOrder(t *testing.T) {
	t.Parallel()

	// "m2" appears first in the header but "metragem" is the higher-priority keyword.
	columns := []string{"M2 Bruto", "Data", "Metragem Líquida"}
	col, ok := ResolveColumn(columns, []string{"metragem", "m2", "prod"})
	assert.True(t, ok)
	assert.Equal(t, "Metragem Líquida", col)
}

func TestResolveColumn_FirstColumnWinsWithinKeyword(t *testing.T) {
	t.Parallel()

	columns := []string{"Forno Origem", "Forno Destino"}
	col, ok := ResolveColumn(columns, []string{"forno", "linha"})
	assert.True(t, ok)
	assert.Equal(t, "Forno Origem", col)
}

func TestResolveColumn_CaseAndWhitespace(t *testing.T) {
	t.Parallel()

	col, ok := ResolveColumn([]string{"  EQUIPE  "}, []string{" Equipe"})
	assert.True(t, ok)
	assert.Equal(t, "  EQUIPE  ", col)
}

func TestResolveColumn_Absent(t *testing.T) {
	t.Parallel()

	col, ok := ResolveColumn([]string{"Produto", "Cliente"}, []string{"equipe", "team", "turno"})
	assert.False(t, ok)
	assert.Empty(t, col)

	_, ok = ResolveColumn(nil, []string{"equipe"})
	assert.False(t, ok)

	_, ok = ResolveColumn([]string{"Equipe"}, []string{"", "  "})
	assert.False(t, ok)
}

func TestBind(t *testing.T) {
	t.Parallel()

	b := Bind("team", []string{"Data", "Equipe"}, []string{"equipe"})
	assert.Equal(t, model.ColumnBinding{Field: "team", Column: "Equipe", Found: true}, b)

	b = Bind("date", []string{"Equipe"}, []string{"data", "date", "dia"})
	assert.False(t, b.Found)
}
