package session

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jeanthielis/relatorio-retidos/internal/calculator"
	"github.com/jeanthielis/relatorio-retidos/internal/exporter"
	"github.com/jeanthielis/relatorio-retidos/internal/importer"
	"github.com/jeanthielis/relatorio-retidos/internal/model"
	"github.com/jeanthielis/relatorio-retidos/internal/overlay"
	"github.com/jeanthielis/relatorio-retidos/internal/store"
)

// ErrMissingInput a report was requested before both files were loaded
var ErrMissingInput = errors.New("carregue os arquivos de Produção e Retidos")

// Options session dependencies
type Options struct {
	Specs   importer.FieldSpecSet
	Targets model.TargetConfig
	Store   *store.Store // optional
	Log     *logrus.Entry
}

// FileStatus a loaded upload
type FileStatus struct {
	Filename string   `json:"filename"`
	Rows     int      `json:"rows"`
	Columns  []string `json:"columns"`
}

// Status what the session currently holds
type Status struct {
	ID             string             `json:"id"`
	Production     *FileStatus        `json:"production"`
	Retained       *FileStatus        `json:"retained"`
	Targets        model.TargetConfig `json:"targets"`
	SelectedReason string             `json:"selectedReason"`
	Validation     []string           `json:"validation,omitempty"`
}

// Report everything derived from the current inputs and settings
type Report struct {
	SessionID      string                                  `json:"sessionId"`
	Targets        model.TargetConfig                      `json:"targets"`
	Bindings       map[model.Dataset][]model.ColumnBinding `json:"bindings"`
	Summary        []model.AggregateRow                    `json:"summary"`
	Headlines      []model.Headline                        `json:"headlines"`
	Series         []model.LineSeries                      `json:"series"`
	TopReasons     []model.LineReasons                     `json:"topReasons"`
	Reasons        []string                                `json:"reasons"`
	Excluded       []string                                `json:"excluded"`
	Groups         []overlay.Group                         `json:"groups"`
	SelectedReason string                                  `json:"selectedReason,omitempty"`
	Drilldown      *model.Drilldown                        `json:"drilldown,omitempty"`
}

// Session state of one operator. Loaded tables are never modified; every Report
// call recomputes from them and the current settings.
type Session struct {
	mu sync.Mutex

	id          uuid.UUID
	coordinator *importer.Coordinator
	store       *store.Store
	log         *logrus.Entry

	production *importer.LoadResult
	retained   *importer.LoadResult

	targets        model.TargetConfig
	overlay        *overlay.Overlay
	selectedReason string
	validation     *importer.ValidationReport
}

// New creates a session. Valid targets saved in the store win over opts.Targets.
func New(opts Options) (*Session, error) {
	log := opts.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if err := opts.Targets.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		id:      uuid.New(),
		store:   opts.Store,
		targets: opts.Targets,
		overlay: overlay.New(),
	}
	s.log = log.WithFields(logrus.Fields{"component": "session", "session": s.id.String()})

	var logs importer.ImportLogger
	if opts.Store != nil {
		logs = opts.Store
		targets, err := opts.Store.LoadTargets(opts.Targets)
		if err != nil {
			return nil, fmt.Errorf("failed to load targets: %w", err)
		}
		if err := targets.Validate(); err != nil {
			s.log.WithError(err).Warn("saved targets out of range, using defaults")
		} else {
			s.targets = targets
		}
		if reason, err := opts.Store.GetConfig(store.KeySelectedReason); err == nil {
			s.selectedReason = reason
		}
	}
	s.coordinator = importer.NewCoordinator(opts.Specs, logs, log)

	return s, nil
}

// ID session identifier
func (s *Session) ID() string {
	return s.id.String()
}

// LoadProduction replaces the production table
func (s *Session) LoadProduction(filename string, r io.Reader) error {
	return s.load(model.DatasetProduction, filename, r)
}

// LoadRetained replaces the retained-material table
func (s *Session) LoadRetained(filename string, r io.Reader) error {
	return s.load(model.DatasetRetained, filename, r)
}

// load reads outside the lock. A failed read drops the previous table of that dataset
// so no report is built until a readable file replaces it.
func (s *Session) load(dataset model.Dataset, filename string, r io.Reader) error {
	res, err := s.coordinator.Load(dataset, filename, r)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.validation = nil
	if dataset == model.DatasetProduction {
		s.production = res
	} else {
		s.retained = res
	}
	return err
}

// Status current inputs and settings
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		ID:             s.id.String(),
		Production:     fileStatus(s.production),
		Retained:       fileStatus(s.retained),
		Targets:        s.targets,
		SelectedReason: s.selectedReason,
	}
	if s.validation != nil {
		st.Validation = s.validation.Messages()
	}
	return st
}

// Targets current target settings
func (s *Session) Targets() model.TargetConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.targets
}

// SetTargets validates and replaces the target settings
func (s *Session) SetTargets(t model.TargetConfig) error {
	if err := t.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		if err := s.store.SaveTargets(t); err != nil {
			return err
		}
	}
	s.targets = t
	s.log.WithField("targetPct", t.TargetPct).Debug("targets updated")
	return nil
}

// SelectReason reason shown in the drilldown, "" clears it
func (s *Session) SelectReason(reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		if err := s.store.SetConfig(store.KeySelectedReason, reason); err != nil {
			return err
		}
	}
	s.selectedReason = reason
	return nil
}

// ExcludeReasons replaces the excluded reasons
func (s *Session) ExcludeReasons(reasons []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay.ExcludeReasons(reasons)
}

// CreateGroup adds or replaces a reason group
func (s *Session) CreateGroup(name string, reasons []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlay.CreateGroup(name, reasons)
}

// RemoveGroup deletes a reason group
func (s *Session) RemoveGroup(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlay.RemoveGroup(name)
}

// Overlay snapshot of groups and exclusions
func (s *Session) Overlay() overlay.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlay.Snapshot()
}

// ExportGroups writes groups and exclusions as TOML
func (s *Session) ExportGroups(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlay.ExportTOML(w)
}

// ImportGroups replaces groups and exclusions from TOML
func (s *Session) ImportGroups(r io.Reader) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlay.ImportTOML(r)
}

// Reasons sorted distinct raw reasons of the retained file
func (s *Session) Reasons() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bound, err := s.bind()
	if err != nil {
		return nil, err
	}
	return calculator.ReasonCatalogue(bound.Retained.Rows), nil
}

// Report recomputes every view. A binding failure is returned as *importer.ValidationReport.
func (s *Session) Report() (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bound, err := s.bind()
	if err != nil {
		return nil, err
	}

	prod := bound.Production.Rows
	ret := s.overlay.Apply(bound.Retained.Rows)
	pct := s.targets.TargetPct

	summary := calculator.AggregateSummary(prod, ret, pct)
	report := &Report{
		SessionID: s.id.String(),
		Targets:   s.targets,
		Bindings: map[model.Dataset][]model.ColumnBinding{
			model.DatasetProduction: bound.Production.Bindings,
			model.DatasetRetained:   bound.Retained.Bindings,
		},
		Summary:        summary,
		Headlines:      calculator.Headlines(summary),
		Series:         calculator.AllSeries(prod, ret, pct),
		TopReasons:     calculator.TopReasonsByLine(ret, calculator.DefaultTopReasons),
		Reasons:        calculator.ReasonCatalogue(bound.Retained.Rows),
		Excluded:       s.overlay.Excluded(),
		Groups:         s.overlay.Groups(),
		SelectedReason: s.selectedReason,
	}
	if s.selectedReason != "" {
		report.Drilldown = calculator.ReasonDrilldown(prod, ret, s.selectedReason, s.targets)
	}

	s.log.WithFields(logrus.Fields{
		"production": len(prod),
		"retained":   len(ret),
		"rows":       len(summary),
	}).Debug("report computed")
	return report, nil
}

// ExportXLSX writes the summary workbook
func (s *Session) ExportXLSX(w io.Writer) error {
	report, err := s.Report()
	if err != nil {
		return err
	}
	progress := func(ev exporter.ProgressEvent) {
		s.log.WithField("percent", ev.Percent).Debug(ev.Stage)
	}
	return exporter.NewExporter(progress).WriteSummary(w, report.Summary)
}

// ExportCSV writes the summary as CSV
func (s *Session) ExportCSV(w io.Writer) error {
	report, err := s.Report()
	if err != nil {
		return err
	}
	return exporter.WriteSummaryCSV(w, report.Summary)
}

// bind must be called with the lock held
func (s *Session) bind() (*importer.Bound, error) {
	var missing []string
	if s.production == nil {
		missing = append(missing, model.DatasetProduction.Label())
	}
	if s.retained == nil {
		missing = append(missing, model.DatasetRetained.Label())
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: falta %s", ErrMissingInput, strings.Join(missing, ", "))
	}

	bound, report := s.coordinator.Bind(s.production.Table, s.retained.Table)
	s.validation = report
	if report != nil {
		return nil, report
	}
	return bound, nil
}

func fileStatus(res *importer.LoadResult) *FileStatus {
	if res == nil {
		return nil
	}
	return &FileStatus{Filename: res.Filename, Rows: res.Rows, Columns: res.Columns}
}
