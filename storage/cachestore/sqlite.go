package cachestore

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/alramz/cxdash/core"
	"github.com/alramz/cxdash/core/cache"
)

const (
	sqliteCreateTable = `
		CREATE TABLE IF NOT EXISTS cache_entries (
			cache_key TEXT PRIMARY KEY,
			cache_value BLOB NOT NULL,
			cache_timestamp INTEGER NOT NULL
		);`
	sqliteSelect = `SELECT cache_value FROM cache_entries WHERE cache_key = ?`
	sqliteUpsert = `
		INSERT INTO cache_entries (cache_key, cache_value, cache_timestamp) VALUES (?, ?, ?)
		ON CONFLICT (cache_key) DO UPDATE SET cache_value = excluded.cache_value, cache_timestamp = excluded.cache_timestamp`
)

// SQLiteStore persists cache entries in a local SQLite file, so they survive restarts.
type SQLiteStore struct {
	db *sql.DB
}

var _ cache.Store = (*SQLiteStore)(nil) // interface compliance check

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening sqlite database %q", path)
	}
	// a single connection avoids "database is locked" errors
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "pinging sqlite database %q", path)
	}
	if _, err = db.Exec(sqliteCreateTable); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating cache_entries table")
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	if err := s.db.QueryRowContext(ctx, sqliteSelect, key).Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			cache.RecordStoreOperation(BackendSQLite, "get", "miss")
			return nil, cache.ErrMiss
		}
		cache.RecordStoreOperation(BackendSQLite, "get", "error")
		return nil, errors.Wrap(err, "selecting cache entry")
	}
	cache.RecordStoreOperation(BackendSQLite, "get", "hit")
	return value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, sqliteUpsert, key, value, core.NowFunc().Unix()); err != nil {
		cache.RecordStoreOperation(BackendSQLite, "set", "error")
		return errors.Wrap(err, "upserting cache entry")
	}
	cache.RecordStoreOperation(BackendSQLite, "set", "ok")
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
