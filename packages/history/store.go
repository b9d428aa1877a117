// Package history records httpc transactions in a local SQLite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

// DefaultLimit is how many entries Recent returns when limit is not positive
const DefaultLimit = 20

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id          TEXT PRIMARY KEY,
	recorded_at INTEGER NOT NULL,
	method      TEXT NOT NULL,
	url         TEXT NOT NULL,
	command     TEXT NOT NULL,
	status_code INTEGER NOT NULL DEFAULT 0,
	bytes       INTEGER NOT NULL DEFAULT 0,
	duration_us INTEGER NOT NULL DEFAULT 0,
	timed_out   INTEGER NOT NULL DEFAULT 0,
	error       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS transactions_recorded_at ON transactions (recorded_at);
`

// Entry is one recorded transaction
type Entry struct {
	ID         string
	Time       time.Time
	Method     string
	URL        string
	Command    string
	StatusCode int
	Bytes      int
	Duration   time.Duration
	TimedOut   bool
	Error      string
}

// Failed reports whether the transaction ended in an error
func (e *Entry) Failed() bool {
	return e.Error != ""
}

// Store is a SQLite-backed transaction log
type Store struct {
	db           *sql.DB
	path         string
	queryTimeout time.Duration
}

// Open opens (creating if needed) the history database at path
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// A single writer keeps SQLite from reporting busy errors.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}

	return &Store{
		db:           db,
		path:         path,
		queryTimeout: 10 * time.Second,
	}, nil
}

// Path returns the database file location
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record appends an entry
func (s *Store) Record(ctx context.Context, e *Entry) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions
			(id, recorded_at, method, url, command, status_code, bytes, duration_us, timed_out, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.Time.UnixNano(),
		e.Method,
		e.URL,
		e.Command,
		e.StatusCode,
		e.Bytes,
		e.Duration.Microseconds(),
		e.TimedOut,
		e.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return s.query(ctx, `
		SELECT id, recorded_at, method, url, command, status_code, bytes, duration_us, timed_out, error
		FROM transactions
		ORDER BY recorded_at DESC, rowid DESC
		LIMIT ?`, limit)
}

// All returns every entry, oldest first
func (s *Store) All(ctx context.Context) ([]*Entry, error) {
	return s.query(ctx, `
		SELECT id, recorded_at, method, url, command, status_code, bytes, duration_us, timed_out, error
		FROM transactions
		ORDER BY recorded_at ASC, rowid ASC`)
}

// Stats summarizes every recorded transaction
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	entries, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeStats(entries), nil
}

// Clear removes every entry
func (s *Store) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]*Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var (
			e          Entry
			recordedAt int64
			durationUs int64
		)
		if err := rows.Scan(
			&e.ID,
			&recordedAt,
			&e.Method,
			&e.URL,
			&e.Command,
			&e.StatusCode,
			&e.Bytes,
			&durationUs,
			&e.TimedOut,
			&e.Error,
		); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		e.Time = time.Unix(0, recordedAt)
		e.Duration = time.Duration(durationUs) * time.Microsecond
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}
