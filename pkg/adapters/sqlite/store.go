// Package sqlite keeps the board snapshot in a local SQLite database using
// modernc.org/sqlite (pure Go, no cgo).
//
// The current snapshot lives in a key/value table under core.StorageKey.
// Every save also appends to a bounded history table.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/aretw0/introspection"
	"github.com/aretw0/muralis/pkg/core"

	_ "modernc.org/sqlite"
)

// DefaultHistoryLimit is how many past snapshots are retained.
const DefaultHistoryLimit = 50

// Config holds the configuration for the SQLite store.
type Config struct {
	Path         string
	HistoryLimit int
	Logger       *slog.Logger
}

// Store implements core.Store on SQLite.
type Store struct {
	db     *sql.DB
	path   string
	key    string
	limit  int
	logger *slog.Logger

	mu    sync.Mutex
	saves int
}

// Open opens (creating if needed) the database at config.Path.
func Open(config Config) (*Store, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "sqlite-store")

	if config.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying %q: %w", p, err)
		}
	}

	limit := config.HistoryLimit
	if limit == 0 {
		limit = DefaultHistoryLimit
	}

	s := &Store{
		db:     db,
		path:   config.Path,
		key:    core.StorageKey,
		limit:  limit,
		logger: logger,
	}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Debug("SQLite store initialized", "path", config.Path)
	return s, nil
}

func (s *Store) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			key TEXT NOT NULL,
			value BLOB NOT NULL,
			subject TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_history_key_id ON history(key, id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Load(ctx context.Context) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, s.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return value, nil
}

func (s *Store) Save(ctx context.Context, data []byte) error {
	return s.write(ctx, data, "update board")
}

func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, s.key); err != nil {
		return fmt.Errorf("clearing snapshot: %w", err)
	}
	return nil
}

func (s *Store) write(ctx context.Context, data []byte, subject string) error {
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.key, data, now); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	if s.limit > 0 {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO history (key, value, subject, created_at) VALUES (?, ?, ?, ?)`,
			s.key, data, subject, now); err != nil {
			return fmt.Errorf("recording history: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM history WHERE key = ? AND id NOT IN (
				SELECT id FROM history WHERE key = ? ORDER BY id DESC LIMIT ?
			)`, s.key, s.key, s.limit); err != nil {
			return fmt.Errorf("pruning history: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}

	s.mu.Lock()
	s.saves++
	s.mu.Unlock()
	return nil
}

// History lists recorded snapshots, newest first.
func (s *Store) History(ctx context.Context, limit int) ([]core.Revision, error) {
	query := `SELECT id, subject, created_at FROM history WHERE key = ? ORDER BY id DESC`
	args := []any{s.key}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var revs []core.Revision
	for rows.Next() {
		var (
			id      int64
			subject string
			created time.Time
		)
		if err := rows.Scan(&id, &subject, &created); err != nil {
			return nil, fmt.Errorf("scanning history: %w", err)
		}
		revs = append(revs, core.Revision{ID: strconv.FormatInt(id, 10), Time: created, Subject: subject})
	}
	return revs, rows.Err()
}

// Revision returns the snapshot recorded as id.
func (s *Store) Revision(ctx context.Context, id string) ([]byte, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid revision %q", id)
	}
	var value []byte
	err = s.db.QueryRowContext(ctx, `SELECT value FROM history WHERE key = ? AND id = ?`, s.key, n).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("revision %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading revision: %w", err)
	}
	return value, nil
}

// StoreState exposes internal state for observability.
type StoreState struct {
	Path      string     `json:"path"`
	Exists    bool       `json:"exists"`
	Bytes     int        `json:"bytes"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	Revisions int        `json:"revisions"`
	Saves     int        `json:"saves"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	ctx := context.Background()
	st := StoreState{Path: s.path}

	var (
		size    int
		updated time.Time
	)
	err := s.db.QueryRowContext(ctx, `SELECT length(value), updated_at FROM kv WHERE key = ?`, s.key).Scan(&size, &updated)
	if err == nil {
		st.Exists = true
		st.Bytes = size
		st.UpdatedAt = &updated
	}
	_ = s.db.QueryRowContext(ctx, `SELECT count(*) FROM history WHERE key = ?`, s.key).Scan(&st.Revisions)

	s.mu.Lock()
	st.Saves = s.saves
	s.mu.Unlock()
	return st
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "sqlite-store"
}

var _ core.Store = (*Store)(nil)
var _ core.Versioned = (*Store)(nil)
var _ core.Closer = (*Store)(nil)
var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
