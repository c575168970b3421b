package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jeanthielis/relatorio-retidos/internal/model"
)

// ImportLog one upload attempt
type ImportLog struct {
	ID           int64      `json:"id"`
	Dataset      string     `json:"dataset"`
	Filename     string     `json:"filename"`
	FileSize     int64      `json:"fileSize"`
	FileHash     string     `json:"fileHash"`
	Rows         int        `json:"rows"`
	Columns      int        `json:"columns"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// CreateImportLog starts an import log, returns its id
func (s *Store) CreateImportLog(dataset, filename string, fileSize int64, fileHash string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO import_logs (dataset, filename, file_size, file_hash, status)
		VALUES (?, ?, ?, ?, ?)
	`, dataset, filename, fileSize, fileHash, model.ImportProcessing)
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// FinishImportLog completes an import log
func (s *Store) FinishImportLog(id int64, rows, columns int, status, errorMessage string) error {
	_, err := s.db.Exec(`
		UPDATE import_logs SET
			row_count = ?,
			column_count = ?,
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, rows, columns, status, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	return nil
}

// ListImportLogs most recent logs first, limit <= 0 returns all
func (s *Store) ListImportLogs(limit int) ([]ImportLog, error) {
	query := `
		SELECT id, dataset, filename, file_size, file_hash, row_count, column_count,
			status, error_message, created_at, completed_at
		FROM import_logs ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list import logs: %w", err)
	}
	defer rows.Close()

	var out []ImportLog
	for rows.Next() {
		var (
			l         ImportLog
			completed sql.NullTime
		)
		if err := rows.Scan(&l.ID, &l.Dataset, &l.Filename, &l.FileSize, &l.FileHash, &l.Rows, &l.Columns,
			&l.Status, &l.ErrorMessage, &l.CreatedAt, &completed); err != nil {
			return nil, fmt.Errorf("failed to scan import log: %w", err)
		}
		if completed.Valid {
			t := completed.Time
			l.CompletedAt = &t
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
