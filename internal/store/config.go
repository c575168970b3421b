package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jeanthielis/relatorio-retidos/internal/model"
)

// ErrConfigNotFound the key was never set
var ErrConfigNotFound = errors.New("config key not found")

// Keys of the target settings
const (
	KeyTargetPct                = "target_pct"
	KeyAreaCeiling              = "area_ceiling"
	KeyAreaCeilingEnabled       = "area_ceiling_enabled"
	KeyOccurrenceCeiling        = "occurrence_ceiling"
	KeyOccurrenceCeilingEnabled = "occurrence_ceiling_enabled"
	KeySelectedReason           = "selected_reason"
)

// GetConfig reads a config value
func (s *Store) GetConfig(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, key)
		}
		return "", err
	}
	return value, nil
}

// GetConfigInt integer config value
func (s *Store) GetConfigInt(key string) (int, error) {
	value, err := s.GetConfig(key)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(value)
}

// GetConfigFloat float config value
func (s *Store) GetConfigFloat(key string) (float64, error) {
	value, err := s.GetConfig(key)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(value, 64)
}

// GetConfigBool boolean config value
func (s *Store) GetConfigBool(key string) (bool, error) {
	value, err := s.GetConfig(key)
	if err != nil {
		return false, err
	}
	return strconv.ParseBool(value)
}

// execer *sql.DB or *sql.Tx
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// configWriter typed config upserts on a connection or a transaction
type configWriter struct {
	ex execer
}

// SetConfig upserts a config value
func (w configWriter) SetConfig(key, value string) error {
	_, err := w.ex.Exec(`
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP
	`, key, value, value)
	if err != nil {
		return fmt.Errorf("failed to set config %s: %w", key, err)
	}
	return nil
}

// SetConfigInt stores an integer
func (w configWriter) SetConfigInt(key string, value int) error {
	return w.SetConfig(key, strconv.Itoa(value))
}

// SetConfigFloat stores a float
func (w configWriter) SetConfigFloat(key string, value float64) error {
	return w.SetConfig(key, strconv.FormatFloat(value, 'f', -1, 64))
}

// SetConfigBool stores a boolean
func (w configWriter) SetConfigBool(key string, value bool) error {
	return w.SetConfig(key, strconv.FormatBool(value))
}

// SetConfig upserts a config value
func (s *Store) SetConfig(key, value string) error {
	return configWriter{ex: s.db}.SetConfig(key, value)
}

// SaveTargets stores the target settings in one transaction
func (s *Store) SaveTargets(t model.TargetConfig) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	w := configWriter{ex: tx}
	if err := w.SetConfigFloat(KeyTargetPct, t.TargetPct); err != nil {
		return err
	}
	if err := w.SetConfigFloat(KeyAreaCeiling, t.AreaCeiling); err != nil {
		return err
	}
	if err := w.SetConfigBool(KeyAreaCeilingEnabled, t.AreaCeilingEnabled); err != nil {
		return err
	}
	if err := w.SetConfigInt(KeyOccurrenceCeiling, t.OccurrenceCeiling); err != nil {
		return err
	}
	if err := w.SetConfigBool(KeyOccurrenceCeilingEnabled, t.OccurrenceCeilingEnabled); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadTargets reads the target settings, keys never saved keep the fallback values
func (s *Store) LoadTargets(fallback model.TargetConfig) (model.TargetConfig, error) {
	t := fallback

	if v, err := s.GetConfigFloat(KeyTargetPct); err == nil {
		t.TargetPct = v
	} else if !errors.Is(err, ErrConfigNotFound) {
		return fallback, err
	}
	if v, err := s.GetConfigFloat(KeyAreaCeiling); err == nil {
		t.AreaCeiling = v
	} else if !errors.Is(err, ErrConfigNotFound) {
		return fallback, err
	}
	if v, err := s.GetConfigBool(KeyAreaCeilingEnabled); err == nil {
		t.AreaCeilingEnabled = v
	} else if !errors.Is(err, ErrConfigNotFound) {
		return fallback, err
	}
	if v, err := s.GetConfigInt(KeyOccurrenceCeiling); err == nil {
		t.OccurrenceCeiling = v
	} else if !errors.Is(err, ErrConfigNotFound) {
		return fallback, err
	}
	if v, err := s.GetConfigBool(KeyOccurrenceCeilingEnabled); err == nil {
		t.OccurrenceCeilingEnabled = v
	} else if !errors.Is(err, ErrConfigNotFound) {
		return fallback, err
	}

	return t, nil
}
