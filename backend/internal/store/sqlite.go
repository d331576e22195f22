package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"talent-nest/backend/internal/store/migrations"
)

// SQLiteStore implements every store interface on a single SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

var (
	_ UserDirectory     = (*SQLiteStore)(nil)
	_ ConnectionStore   = (*SQLiteStore)(nil)
	_ NotificationStore = (*SQLiteStore)(nil)
	_ PostStore         = (*SQLiteStore)(nil)
)

// Open opens (or creates) the database at path without touching its schema.
// path may be ":memory:" for a private in-memory database.
func Open(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if path == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStore opens the database at path and applies any pending migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	s, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Migrate applies pending schema migrations.
func (s *SQLiteStore) Migrate() error {
	if err := migrations.MigrateUp(s.db.DB); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// DB exposes the underlying handle for maintenance commands.
func (s *SQLiteStore) DB() *sqlx.DB {
	return s.db
}

// Ping checks that the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func toNanos(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code()&0xff == sqlite3lib.SQLITE_CONSTRAINT &&
		strings.Contains(sqliteErr.Error(), "UNIQUE")
}
