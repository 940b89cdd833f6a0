// Package history keeps a local record of annotation runs in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/nodewee/doc-highlight/pkg/utils"
)

// Entry is one recorded run. Error is empty for successful runs.
type Entry struct {
	ID           string
	Timestamp    time.Time
	Input        string
	Output       string
	Query        string
	Kind         string
	Strategy     string
	MatchCount   int
	FallbackUsed bool
	Duration     time.Duration
	Error        string
}

// Store writes and reads run history
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at path
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
			return nil, utils.WrapError(err, "", "failed to create history directory")
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, utils.NewIOError("failed to open history database", err)
	}
	// one connection keeps :memory: databases shared and writes serialized
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, utils.NewIOError("failed to configure history database", err)
		}
	}

	s := &Store{db: db}
	if err := s.Init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Init creates the schema when missing
func (s *Store) Init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id            TEXT PRIMARY KEY,
		ts            INTEGER NOT NULL,
		input         TEXT NOT NULL,
		output        TEXT NOT NULL,
		query         TEXT NOT NULL,
		kind          TEXT NOT NULL DEFAULT '',
		strategy      TEXT NOT NULL DEFAULT '',
		match_count   INTEGER NOT NULL DEFAULT 0,
		fallback_used INTEGER NOT NULL DEFAULT 0,
		duration_us   INTEGER NOT NULL DEFAULT 0,
		error         TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(ts DESC);`)
	if err != nil {
		return utils.NewIOError("failed to create history schema", err)
	}
	return nil
}

// Record stores e, assigning an ID and timestamp when unset
func (s *Store) Record(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, ts, input, output, query, kind, strategy, match_count, fallback_used, duration_us, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Timestamp.UnixMicro(), e.Input, e.Output, e.Query, e.Kind, e.Strategy,
		e.MatchCount, e.FallbackUsed, e.Duration.Microseconds(), e.Error)
	if err != nil {
		return utils.NewIOError("failed to record run", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		return nil, utils.NewValidationError(fmt.Sprintf("limit must be positive, got %d", limit), nil)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ts, input, output, query, kind, strategy, match_count, fallback_used, duration_us, error
		 FROM runs ORDER BY ts DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, utils.NewIOError("failed to query history", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			ts, durUs int64
		)
		if err := rows.Scan(&e.ID, &ts, &e.Input, &e.Output, &e.Query, &e.Kind, &e.Strategy,
			&e.MatchCount, &e.FallbackUsed, &durUs, &e.Error); err != nil {
			return nil, utils.NewIOError("failed to read history row", err)
		}
		e.Timestamp = time.UnixMicro(ts)
		e.Duration = time.Duration(durUs) * time.Microsecond
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, utils.NewIOError("failed to read history", err)
	}
	return entries, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}
