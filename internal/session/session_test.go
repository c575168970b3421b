package session

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jeanthielis/relatorio-retidos/internal/importer"
	"github.com/jeanthielis/relatorio-retidos/internal/model"
	"github.com/jeanthielis/relatorio-retidos/internal/overlay"
	"github.com/jeanthielis/relatorio-retidos/internal/store"
)

const productionCSV = "Data;Equipe;Forno;Metragem\n" +
	"01/03/2024;Turno 1;Forno 10;6.000,00\n" +
	"05/03/2024;Turno 2;Forno 11;4.000,00\n" +
	"02/04/2024;Turno 1;12;1.234,56\n"

const retainedCSV = "Data;Motivo;M2;Equipe;Forno\n" +
	"01/03/2024;Bolha;50,00;Turno 1;Forno 10\n" +
	"03/04/2024;Trinca;2,5;Turno 1;12\n" +
	"03/04/2024;Setup;9;Turno 1;12\n"

func newSession(t *testing.T, st *store.Store) *Session {
	t.Helper()
	s, err := New(Options{
		Specs:   importer.DefaultFieldSpecs(),
		Targets: model.DefaultTargetConfig(),
		Store:   st,
	})
	require.NoError(t, err)
	return s
}

func loadedSession(t *testing.T) *Session {
	t.Helper()
	s := newSession(t, nil)
	require.NoError(t, s.LoadProduction("producao.csv", strings.NewReader(productionCSV)))
	require.NoError(t, s.LoadRetained("retidos.csv", strings.NewReader(retainedCSV)))
	return s
}

func findRow(t *testing.T, rows []model.AggregateRow, line model.Line, team string) model.AggregateRow {
	t.Helper()
	for _, r := range rows {
		if r.Line == line && r.Team == team {
			return r
		}
	}
	t.Fatalf("row %s/%s not found", line, team)
	return model.AggregateRow{}
}

func TestReport(t *testing.T) {
	t.Parallel()
	s := loadedSession(t)

	report, err := s.Report()
	require.NoError(t, err)
	assert.Equal(t, s.ID(), report.SessionID)

	l45 := findRow(t, report.Summary, model.LineFour, model.OverallTeam)
	assert.InDelta(t, 10000.0, l45.Produced, 1e-9)
	assert.InDelta(t, 50.0, l45.Target, 1e-9)
	assert.InDelta(t, 50.0, l45.Retained, 1e-9)
	assert.Equal(t, model.StatusWithin, l45.Status)

	l6 := findRow(t, report.Summary, model.LineSix, "Turno 1")
	assert.InDelta(t, 1234.56, l6.Produced, 1e-9)
	assert.InDelta(t, 11.5, l6.Retained, 1e-9)

	require.Len(t, report.Headlines, 2)
	assert.True(t, report.Headlines[0].Available)
	assert.True(t, report.Headlines[1].Available)

	require.Len(t, report.Series, 2)
	assert.Equal(t, model.Period("2024-03"), report.Series[0].Points[0].Period)
	assert.Equal(t, model.Period("2024-04"), report.Series[1].Points[0].Period)

	assert.Equal(t, []string{"Bolha", "Setup", "Trinca"}, report.Reasons)
	assert.Nil(t, report.Drilldown)
	assert.Len(t, report.Bindings[model.DatasetRetained], 5)
}

func TestReport_ExclusionsAndGroups(t *testing.T) {
	t.Parallel()
	s := loadedSession(t)

	s.ExcludeReasons([]string{"Setup"})
	require.NoError(t, s.CreateGroup("Vidro", []string{"Bolha", "Trinca"}))

	report, err := s.Report()
	require.NoError(t, err)

	l6 := findRow(t, report.Summary, model.LineSix, model.OverallTeam)
	assert.InDelta(t, 2.5, l6.Retained, 1e-9)

	require.Len(t, report.TopReasons, 2)
	assert.Equal(t, "Vidro", report.TopReasons[0].Reasons[0].Reason)
	assert.Equal(t, "Vidro", report.TopReasons[1].Reasons[0].Reason)

	// the catalogue still lists excluded reasons so they can be restored
	assert.Contains(t, report.Reasons, "Setup")
	assert.Equal(t, []string{"Setup"}, report.Excluded)
	assert.Equal(t, []overlay.Group{{Name: "Vidro", Reasons: []string{"Bolha", "Trinca"}}}, report.Groups)

	assert.ErrorIs(t, s.CreateGroup("Outro", []string{"Trinca"}), overlay.ErrReasonAlreadyGrouped)
	require.NoError(t, s.RemoveGroup("Vidro"))
	assert.Empty(t, s.Overlay().Groups)
}

func TestReport_Drilldown(t *testing.T) {
	t.Parallel()
	s := loadedSession(t)
	require.NoError(t, s.SelectReason("Bolha"))

	report, err := s.Report()
	require.NoError(t, err)
	require.NotNil(t, report.Drilldown)
	assert.Equal(t, "Bolha", report.Drilldown.Reason)
	assert.Equal(t, []model.DrilldownTeam{
		{Team: "Turno 1", Retained: 50, Occurrences: 1},
		{Team: "Turno 2"},
	}, report.Drilldown.Teams)
	assert.Equal(t, []model.DrilldownLine{{Line: model.LineFour, Occurrences: 1}}, report.Drilldown.Lines)
}

func TestReport_MissingInput(t *testing.T) {
	t.Parallel()
	s := newSession(t, nil)
	require.NoError(t, s.LoadProduction("producao.csv", strings.NewReader(productionCSV)))

	_, err := s.Report()
	assert.ErrorIs(t, err, ErrMissingInput)
	assert.Contains(t, err.Error(), "Retidos")
}

func TestReport_ValidationFailure(t *testing.T) {
	t.Parallel()
	s := newSession(t, nil)
	require.NoError(t, s.LoadProduction("producao.csv", strings.NewReader("Forno;Metragem\n10;1\n")))
	require.NoError(t, s.LoadRetained("retidos.csv", strings.NewReader("Equipe;Forno\nA;10\n")))

	_, err := s.Report()
	var report *importer.ValidationReport
	require.True(t, errors.As(err, &report))
	assert.Len(t, report.Messages(), 3)
	assert.Equal(t, report.Messages(), s.Status().Validation)

	// a new upload clears the stale report
	require.NoError(t, s.LoadProduction("producao.csv", strings.NewReader(productionCSV)))
	assert.Empty(t, s.Status().Validation)
}

func TestLoad_FileErrorDropsDataset(t *testing.T) {
	t.Parallel()
	s := loadedSession(t)

	err := s.LoadRetained("retidos.xlsx", strings.NewReader("corrompido"))
	var fe *importer.FileError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, model.DatasetRetained, fe.Dataset)

	st := s.Status()
	assert.NotNil(t, st.Production)
	assert.Nil(t, st.Retained)

	_, err = s.Report()
	assert.ErrorIs(t, err, ErrMissingInput)
}

func TestTargets_PersistedInStore(t *testing.T) {
	t.Parallel()
	st, err := store.New(store.MemoryPath)
	require.NoError(t, err)
	defer st.Close()

	s := newSession(t, st)
	bad := model.DefaultTargetConfig()
	bad.TargetPct = 7
	assert.Error(t, s.SetTargets(bad))

	want := model.DefaultTargetConfig()
	want.TargetPct = 1.1
	require.NoError(t, s.SetTargets(want))
	require.NoError(t, s.SelectReason("Trinca"))

	again := newSession(t, st)
	assert.Equal(t, want, again.Targets())
	assert.Equal(t, "Trinca", again.Status().SelectedReason)
	assert.NotEqual(t, s.ID(), again.ID())
}

func TestTargets_OutOfRangeStoreValuesIgnored(t *testing.T) {
	t.Parallel()
	st, err := store.New(store.MemoryPath)
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.SetConfig(store.KeyTargetPct, "9"))
	require.NoError(t, st.SetConfig(store.KeyOccurrenceCeiling, "4"))

	s := newSession(t, st)
	assert.Equal(t, model.DefaultTargetConfig(), s.Targets())
}

func TestImportLogsRecorded(t *testing.T) {
	t.Parallel()
	st, err := store.New(store.MemoryPath)
	require.NoError(t, err)
	defer st.Close()

	s := newSession(t, st)
	require.NoError(t, s.LoadProduction("producao.csv", strings.NewReader(productionCSV)))
	require.Error(t, s.LoadRetained("retidos.xlsx", strings.NewReader("x")))

	logs, err := st.ListImportLogs(0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, model.ImportFailed, logs[0].Status)
	assert.Equal(t, model.ImportLoaded, logs[1].Status)
	assert.Equal(t, 3, logs[1].Rows)
}

func TestGroupsExportImport(t *testing.T) {
	t.Parallel()
	s := loadedSession(t)
	require.NoError(t, s.CreateGroup("Vidro", []string{"Bolha"}))
	s.ExcludeReasons([]string{"Setup"})

	var buf bytes.Buffer
	require.NoError(t, s.ExportGroups(&buf))

	other := loadedSession(t)
	require.NoError(t, other.ImportGroups(&buf))
	assert.Equal(t, s.Overlay(), other.Overlay())
}

func TestExports(t *testing.T) {
	t.Parallel()
	s := loadedSession(t)

	var xlsx bytes.Buffer
	require.NoError(t, s.ExportXLSX(&xlsx))
	f, err := excelize.OpenReader(&xlsx)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Dados")
	require.NoError(t, err)
	assert.Len(t, rows, 6) // header + L4/5 (2 teams + overall) + L6 (1 team + overall)

	var csv bytes.Buffer
	require.NoError(t, s.ExportCSV(&csv))
	assert.Contains(t, csv.String(), "Média Geral")
}
