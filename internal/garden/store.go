// Package garden persists garden beds, their soil tests and the plans
// produced for them. The same store runs on Postgres for the service and
// on SQLite for the local CLI.
package garden

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/furrow/furrow/internal/platform"
)

var (
	// ErrNotFound is returned when a bed, soil test or plan does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalid is returned for input the store refuses to persist.
	ErrInvalid = errors.New("invalid input")
)

// Fixed-width UTC so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store provides garden state management backed by sqlx.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewStore wraps an open database whose schema is already in place.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Open connects to the database and applies the schema. Driver is
// "postgres" or "sqlite"; for SQLite the DSN is a file path.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	switch driver {
	case "postgres":
		db, err := sqlx.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		if err := platform.AutoMigrate(db.DB); err != nil {
			db.Close()
			return nil, err
		}
		return NewStore(db), nil

	case "sqlite":
		db, err := sqlx.Open("sqlite", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		// One writer at a time keeps SQLite from returning SQLITE_BUSY.
		db.SetMaxOpenConns(1)
		schema, err := platform.InitialSchema()
		if err != nil {
			db.Close()
			return nil, err
		}
		if _, err := db.ExecContext(ctx, schema); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
		return NewStore(db), nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) stamp() string {
	return formatTime(s.now())
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		// Rows written by hand may use plain RFC 3339.
		t, _ = time.Parse(time.RFC3339Nano, s)
	}
	return t
}

// rebind converts ? placeholders for the connected driver.
func (s *Store) rebind(q string) string {
	return s.db.Rebind(strings.TrimSpace(q))
}
