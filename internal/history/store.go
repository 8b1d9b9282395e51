// Package history keeps a local log of the row queries executed
// against generated tables, stored in a small sqlite database so it
// survives restarts without touching postgres.
package history

import (
	"database/sql"
	_ "embed"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/zarybnicky/baserow/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// Entry is a single executed query.
type Entry struct {
	ID           string
	TableID      int64
	Query        string
	ExecutedAt   time.Time
	Duration     time.Duration
	RowCount     int64
	Success      bool
	ErrorMessage string
}

// Store manages query history persistence.
type Store struct {
	db         *sql.DB
	enabled    bool
	maxEntries int
	saveFailed bool
}

func NewStore(cfg config.HistoryConfig) (*Store, error) {
	path, err := cfg.ResolvedPath()
	if err != nil {
		return nil, err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{
		db:         db,
		enabled:    cfg.Enabled,
		maxEntries: cfg.MaxEntries,
		saveFailed: cfg.SaveFailedQueries,
	}, nil
}

// Add records a query. Disabled stores and, depending on
// configuration, failed queries are silently skipped.
func (s *Store) Add(entry Entry) error {
	if !s.enabled {
		return nil
	}
	if !entry.Success && !s.saveFailed {
		return nil
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.ExecutedAt.IsZero() {
		entry.ExecutedAt = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO query_history
		(id, table_id, query, duration_ms, row_count, success, error, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.TableID,
		entry.Query,
		entry.Duration.Milliseconds(),
		entry.RowCount,
		entry.Success,
		entry.ErrorMessage,
		entry.ExecutedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return err
	}
	return s.trim()
}

// trim keeps the log at the configured size, dropping the oldest
// entries first.
func (s *Store) trim() error {
	if s.maxEntries <= 0 {
		return nil
	}
	_, err := s.db.Exec(`
		DELETE FROM query_history
		WHERE id NOT IN (
			SELECT id FROM query_history
			ORDER BY executed_at DESC
			LIMIT ?
		)`, s.maxEntries)
	return err
}

// GetRecent retrieves the most recent entries, newest first.
func (s *Store) GetRecent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, table_id, query, executed_at,
		       duration_ms, row_count, success, error
		FROM query_history
		ORDER BY executed_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanEntries(rows)
}

// Search matches entries by query text.
func (s *Store) Search(query string, limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, table_id, query, executed_at,
		       duration_ms, row_count, success, error
		FROM query_history
		WHERE query LIKE ?
		ORDER BY executed_at DESC
		LIMIT ?`, "%"+query+"%", limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var durationMs int64
		var executedAt string

		err := rows.Scan(
			&e.ID,
			&e.TableID,
			&e.Query,
			&executedAt,
			&durationMs,
			&e.RowCount,
			&e.Success,
			&e.ErrorMessage,
		)
		if err != nil {
			return nil, err
		}

		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.ExecutedAt, _ = time.Parse("2006-01-02 15:04:05", executedAt)

		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
