package importer

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jeanthielis/relatorio-retidos/internal/model"
	"github.com/jeanthielis/relatorio-retidos/internal/parser"
)

func workbookBytes(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestLoadTable_CSVComma(t *testing.T) {
	t.Parallel()
	src := "Equipe,Forno,Metragem\nA,10,100.5\nB,12,\n"
	table, err := LoadTable(model.DatasetProduction, "prod.csv", strings.NewReader(src), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"Equipe", "Forno", "Metragem"}, table.Columns)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "A", table.Rows[0]["Equipe"])
	assert.Equal(t, 10.0, table.Rows[0]["Forno"])
	assert.Equal(t, 100.5, table.Rows[0]["Metragem"])
	assert.Nil(t, table.Rows[1]["Metragem"])
}

func TestLoadTable_CSVSemicolonWithLocaleNumbers(t *testing.T) {
	t.Parallel()
	src := "\ufeffMotivo;M2 Retido;Equipe;Forno\nTrinca;1.234,50;A;F-11\nBolha;10;B;13\n"
	table, err := LoadTable(model.DatasetRetained, "ret.csv", strings.NewReader(src), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"Motivo", "M2 Retido", "Equipe", "Forno"}, table.Columns)
	require.Equal(t, 2, table.Len())
	// locale text stays a string so the normalizer sees it
	assert.Equal(t, "1.234,50", table.Rows[0]["M2 Retido"])
	assert.Equal(t, 1234.5, parser.NormalizeQuantity(table.Rows[0]["M2 Retido"]))
	assert.Equal(t, "F-11", table.Rows[0]["Forno"])
}

// A column holding only dot-grouped integers ("1.234") parses as plain numbers, so
// "1.234" becomes 1.234 rather than 1234. Spreadsheet tools type such CSV columns the
// same way; a single "1.234,50" cell in the column keeps it as pt-BR text.
func TestLoadTable_CSVDotGroupedIntegersAreNumbers(t *testing.T) {
	t.Parallel()
	src := "Equipe;Forno;Metragem\nA;10;1.234\nB;11;2.000\n"
	table, err := LoadTable(model.DatasetProduction, "prod.csv", strings.NewReader(src), nil)
	require.NoError(t, err)

	require.Equal(t, 2, table.Len())
	assert.Equal(t, 1.234, table.Rows[0]["Metragem"])
	assert.Equal(t, 2.0, table.Rows[1]["Metragem"])
	assert.Equal(t, 1.234, parser.NormalizeQuantity(table.Rows[0]["Metragem"]))

	src = "Equipe;Forno;Metragem\nA;10;1.234\nB;11;1.234,50\n"
	table, err = LoadTable(model.DatasetProduction, "prod.csv", strings.NewReader(src), nil)
	require.NoError(t, err)
	assert.Equal(t, "1.234", table.Rows[0]["Metragem"])
	assert.Equal(t, 1234.0, parser.NormalizeQuantity(table.Rows[0]["Metragem"]))
}

func TestLoadTable_CSVDuplicateAndBlankHeaders(t *testing.T) {
	t.Parallel()
	src := "Equipe,,Equipe\nA,x,B\n"
	table, err := LoadTable(model.DatasetProduction, "prod.csv", strings.NewReader(src), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Equipe", "Unnamed: 1", "Equipe.1"}, table.Columns)
	assert.Equal(t, "B", table.Rows[0]["Equipe.1"])
}

func TestLoadTable_CSVSuffixCollision(t *testing.T) {
	t.Parallel()
	src := "Equipe.1,Equipe,Equipe,Forno,Metragem\nX,Turno 1,Turno 2,10,100\n"
	table, err := LoadTable(model.DatasetProduction, "prod.csv", strings.NewReader(src), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"Equipe.1", "Equipe", "Equipe.1.1", "Forno", "Metragem"}, table.Columns)
	require.Equal(t, 1, table.Len())
	row := table.Rows[0]
	assert.Len(t, row, 5)
	assert.Equal(t, "X", row["Equipe.1"])
	assert.Equal(t, "Turno 1", row["Equipe"])
	assert.Equal(t, "Turno 2", row["Equipe.1.1"])
}

func TestLoadTable_EmptyFile(t *testing.T) {
	t.Parallel()
	_, err := LoadTable(model.DatasetProduction, "prod.csv", strings.NewReader("\n\n"), nil)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestLoadTable_InvalidWorkbook(t *testing.T) {
	t.Parallel()
	_, err := LoadTable(model.DatasetProduction, "prod.xlsx", strings.NewReader("not a zip"), nil)
	assert.Error(t, err)
}

func TestLoadTable_Workbook(t *testing.T) {
	t.Parallel()
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	data := workbookBytes(t, [][]any{
		{"Data", "Equipe", "Forno", "Metragem"},
		{day, "A", 10, 250.75},
		{nil, nil, nil, nil},
		{day, "B", "Forno 12", "1.000,00"},
	})

	table, err := LoadTable(model.DatasetProduction, "prod.xlsx", bytes.NewReader(data), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"Data", "Equipe", "Forno", "Metragem"}, table.Columns)
	require.Equal(t, 2, table.Len())

	first := table.Rows[0]
	assert.Equal(t, 10.0, first["Forno"])
	assert.Equal(t, 250.75, first["Metragem"])
	assert.Equal(t, model.Period("2024-03"), parser.NormalizeDate(first["Data"]))

	second := table.Rows[1]
	assert.Equal(t, "Forno 12", second["Forno"])
	assert.Equal(t, 1000.0, parser.NormalizeQuantity(second["Metragem"]))
}

func TestLoadTable_WorkbookHeaderAfterBlankRows(t *testing.T) {
	t.Parallel()
	data := workbookBytes(t, [][]any{
		{nil},
		{"Equipe", "Forno", "Produção"},
		{"A", 11, 5},
	})

	table, err := LoadTable(model.DatasetProduction, "prod.xlsx", bytes.NewReader(data), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Equipe", "Forno", "Produção"}, table.Columns)
	assert.Equal(t, 1, table.Len())
}

func TestLoadTable_PicksMatchingSheet(t *testing.T) {
	t.Parallel()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Relatório de retidos"}))
	_, err := f.NewSheet("Retidos")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Retidos", "A1", &[]any{"Motivo", "M2", "Equipe", "Forno"}))
	require.NoError(t, f.SetSheetRow("Retidos", "A2", &[]any{"Bolha", 12.5, "A", 10}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	data := buf.Bytes()

	table, err := LoadTable(model.DatasetRetained, "ret.xlsx", bytes.NewReader(data), DefaultFieldSpecs().Retained)
	require.NoError(t, err)
	assert.Equal(t, []string{"Motivo", "M2", "Equipe", "Forno"}, table.Columns)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, 12.5, table.Rows[0]["M2"])

	// without specs the first sheet is read
	table, err = LoadTable(model.DatasetRetained, "ret.xlsx", bytes.NewReader(data), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Relatório de retidos"}, table.Columns)
	assert.Equal(t, 0, table.Len())
}
