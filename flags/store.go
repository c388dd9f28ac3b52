// Package flags stores translations that users flagged for later review.
// Stored entries are never read back into prompts.
package flags

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/aschepis/backscratcher/regexgen/migrations"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// DefaultListLimit caps List when no positive limit is given.
const DefaultListLimit = 50

// ErrNotFound is returned by Get when no entry has the requested ID.
var ErrNotFound = errors.New("flag not found")

// ErrDisabled is returned by services when flagging is turned off.
var ErrDisabled = errors.New("flagging is disabled")

// Entry is one flagged translation.
type Entry struct {
	ID        string    `json:"id"`
	Input     string    `json:"input"`
	Direction string    `json:"direction"`
	Model     string    `json:"model"`
	Output    string    `json:"output"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store handles persistence of flagged translations.
type Store struct {
	db *sql.DB
}

// NewStore wraps an already migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens (creating if needed) the SQLite database at path and applies migrations.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("create flag db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open flag db: %w", err)
	}
	// A single connection keeps :memory: databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if err := migrations.RunMigrations(db, logger); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Debug().Str("path", path).Msg("Flag store opened")
	return NewStore(db), nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores e with a fresh ID and timestamp and returns the stored entry.
func (s *Store) Save(ctx context.Context, e Entry) (Entry, error) {
	if e.Direction == "" {
		return Entry{}, fmt.Errorf("flag entry requires a direction")
	}
	e.ID = uuid.NewString()
	e.CreatedAt = time.Now().UTC()

	queryStr, args, err := sq.Insert("flags").
		Columns("id", "input", "direction", "model", "output", "reason", "created_at").
		Values(e.ID, e.Input, e.Direction, e.Model, e.Output, e.Reason, e.CreatedAt.UnixNano()).
		ToSql()
	if err != nil {
		return Entry{}, fmt.Errorf("build query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, queryStr, args...); err != nil {
		return Entry{}, fmt.Errorf("insert flag: %w", err)
	}
	return e, nil
}

// Get returns the entry with the given ID.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	queryStr, args, err := selectEntries().Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return Entry{}, fmt.Errorf("build query: %w", err)
	}

	e, err := scanEntry(s.db.QueryRowContext(ctx, queryStr, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, err
}

// List returns up to limit entries, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	queryStr, args, err := selectEntries().
		OrderBy("created_at DESC", "rowid DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, queryStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query flags: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func selectEntries() sq.SelectBuilder {
	return sq.Select("id", "input", "direction", "model", "output", "reason", "created_at").From("flags")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		e         Entry
		createdAt int64
	)
	if err := row.Scan(&e.ID, &e.Input, &e.Direction, &e.Model, &e.Output, &e.Reason, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("scan flag: %w", err)
	}
	e.CreatedAt = time.Unix(0, createdAt).UTC()
	return e, nil
}
