package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seefood/pkg/model"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLite is a Repository backed by a single kv table
type SQLite struct {
	db *sql.DB
}

type sqliteConfig struct {
	maxPageCount int
}

// SQLiteOption is a functional option for NewSQLite
type SQLiteOption func(*sqliteConfig)

// WithMaxPageCount caps the database size in pages. Writes beyond it fail
// with model.ErrStorageQuotaExceeded.
func WithMaxPageCount(n int) SQLiteOption {
	return func(c *sqliteConfig) {
		c.maxPageCount = n
	}
}

// NewSQLite opens (or creates) the database at dbPath
func NewSQLite(dbPath string, opts ...SQLiteOption) (*SQLite, error) {
	var cfg sqliteConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite", goerr.V("path", dbPath))
	}
	// pragmas are per connection
	db.SetMaxOpenConns(1)

	if err := createKVTable(db); err != nil {
		db.Close()
		return nil, err
	}

	if cfg.maxPageCount > 0 {
		if _, err := db.Exec("PRAGMA max_page_count = " + strconv.Itoa(cfg.maxPageCount)); err != nil {
			db.Close()
			return nil, goerr.Wrap(err, "failed to set max_page_count", goerr.V("pages", cfg.maxPageCount))
		}
	}

	return &SQLite{db: db}, nil
}

func isSQLiteFull(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	// extended result codes keep the primary code in the low byte
	return sqliteErr.Code()&0xff == sqlite3.SQLITE_FULL
}

func createKVTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
	`)
	if err != nil {
		return goerr.Wrap(err, "failed to create kv table")
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, goerr.Wrap(err, "failed to select kv", goerr.V("key", key))
	}
	return value, true, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if isSQLiteFull(err) {
			return goerr.Wrap(model.ErrStorageQuotaExceeded, "sqlite is full",
				goerr.V("key", key),
				goerr.V("cause", err.Error()))
		}
		return goerr.Wrap(err, "failed to upsert kv", goerr.V("key", key))
	}
	return nil
}

func (s *SQLite) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return goerr.Wrap(err, "failed to delete kv", goerr.V("key", key))
	}
	return nil
}

func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
