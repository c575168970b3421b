package importer

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jeanthielis/relatorio-retidos/internal/model"
)

// ImportLogger records upload attempts
type ImportLogger interface {
	CreateImportLog(dataset, filename string, fileSize int64, fileHash string) (int64, error)
	FinishImportLog(id int64, rows, columns int, status, errorMessage string) error
}

// FileError a single upload that could not be read
type FileError struct {
	Dataset  model.Dataset
	Filename string
	Err      error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("Erro ao ler o arquivo de %s. Verifique se o formato está correto (.xlsx ou .csv).", e.Dataset.Label())
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// LoadResult summary of a successful load
type LoadResult struct {
	Dataset  model.Dataset   `json:"dataset"`
	Filename string          `json:"filename"`
	Rows     int             `json:"rows"`
	Columns  []string        `json:"columns"`
	Duration time.Duration   `json:"duration"`
	Table    *model.RawTable `json:"-"`
}

// Coordinator reads uploads and binds them against the field specs
type Coordinator struct {
	specs FieldSpecSet
	logs  ImportLogger
	log   *logrus.Entry
}

// NewCoordinator creates a coordinator. logs may be nil.
func NewCoordinator(specs FieldSpecSet, logs ImportLogger, log *logrus.Entry) *Coordinator {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Coordinator{
		specs: specs,
		logs:  logs,
		log:   log.WithField("component", "importer"),
	}
}

// Load reads one upload. Any failure is returned as a *FileError.
func (c *Coordinator) Load(dataset model.Dataset, filename string, r io.Reader) (*LoadResult, error) {
	start := time.Now()
	name := filepath.Base(filename)
	entry := c.log.WithFields(logrus.Fields{"dataset": dataset, "filename": name})

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, c.fail(entry, 0, dataset, name, err)
	}

	logID := c.createLog(entry, dataset, name, data)

	table, err := LoadTable(dataset, name, bytes.NewReader(data), c.specs.For(dataset))
	if err != nil {
		return nil, c.fail(entry, logID, dataset, name, err)
	}

	if c.logs != nil && logID > 0 {
		if err := c.logs.FinishImportLog(logID, table.Len(), len(table.Columns), model.ImportLoaded, ""); err != nil {
			entry.WithError(err).Warn("failed to update import log")
		}
	}

	res := &LoadResult{
		Dataset:  dataset,
		Filename: name,
		Rows:     table.Len(),
		Columns:  table.Columns,
		Duration: time.Since(start),
		Table:    table,
	}
	entry.WithFields(logrus.Fields{"rows": res.Rows, "columns": len(res.Columns)}).Info("upload loaded")
	return res, nil
}

// Bind validates both tables against the configured field specs
func (c *Coordinator) Bind(production, retained *model.RawTable) (*Bound, *ValidationReport) {
	bound, report := BindPair(production, retained, c.specs)
	if !report.OK() {
		c.log.WithField("problems", len(report.Errors)).Warn("column validation failed")
		return nil, report
	}
	return bound, nil
}

func (c *Coordinator) createLog(entry *logrus.Entry, dataset model.Dataset, name string, data []byte) int64 {
	if c.logs == nil {
		return 0
	}
	sum := sha256.Sum256(data)
	id, err := c.logs.CreateImportLog(string(dataset), name, int64(len(data)), hex.EncodeToString(sum[:]))
	if err != nil {
		entry.WithError(err).Warn("failed to create import log")
		return 0
	}
	return id
}

func (c *Coordinator) fail(entry *logrus.Entry, logID int64, dataset model.Dataset, name string, err error) error {
	entry.WithError(err).Error("upload could not be read")
	if c.logs != nil && logID > 0 {
		if logErr := c.logs.FinishImportLog(logID, 0, 0, model.ImportFailed, err.Error()); logErr != nil {
			entry.WithError(logErr).Warn("failed to update import log")
		}
	}
	return &FileError{Dataset: dataset, Filename: name, Err: err}
}
