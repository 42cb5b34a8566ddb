package cache

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS cache_entries (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	expires_at INTEGER
);
CREATE TABLE IF NOT EXISTS cache_locks (
	key        TEXT PRIMARY KEY,
	owner      TEXT NOT NULL,
	expires_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS cache_counters (
	key        TEXT PRIMARY KEY,
	value      INTEGER NOT NULL,
	expires_at INTEGER NOT NULL
);
`

// SQLiteCache backs SharedCache with modernc.org/sqlite (pure Go, no cgo), for
// single-process durable caching that survives restarts and as the stale-
// fallback recall store's default backing table.
type SQLiteCache struct {
	db *sql.DB
}

// NewSQLiteCache opens (creating if necessary) a sqlite database at path and
// bootstraps its schema.
func NewSQLiteCache(path string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // sqlite's single-writer model; avoid lock contention
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteCache{db: db}, nil
}

func (c *SQLiteCache) GetJSON(ctx context.Context, key string, dst interface{}) error {
	var data []byte
	var expiresAt sql.NullInt64
	row := c.db.QueryRowContext(ctx, `SELECT value, expires_at FROM cache_entries WHERE key = ?`, key)
	if err := row.Scan(&data, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if expiresAt.Valid && time.Now().Unix() > expiresAt.Int64 {
		_, _ = c.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key)
		return ErrNotFound
	}
	return unmarshalValue(data, dst)
}

func (c *SQLiteCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := marshalValue(value)
	if err != nil {
		return err
	}
	var expiresAt sql.NullInt64
	if ttl > 0 {
		expiresAt = sql.NullInt64{Int64: time.Now().Add(ttl).Unix(), Valid: true}
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO cache_entries (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, data, expiresAt)
	return err
}

func (c *SQLiteCache) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	var current int64
	var expiresAt int64
	row := tx.QueryRowContext(ctx, `SELECT value, expires_at FROM cache_counters WHERE key = ?`, key)
	err = row.Scan(&current, &expiresAt)
	switch {
	case errors.Is(err, sql.ErrNoRows), err == nil && now > expiresAt:
		current = 0
		expiresAt = time.Now().Add(ttl).Unix()
	case err != nil:
		return 0, err
	}
	current++

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO cache_counters (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, current, expiresAt); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return current, nil
}

func (c *SQLiteCache) AcquireLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	var existingOwner string
	var expiresAt int64
	row := tx.QueryRowContext(ctx, `SELECT owner, expires_at FROM cache_locks WHERE key = ?`, key)
	err = row.Scan(&existingOwner, &expiresAt)
	if err == nil && now < expiresAt && existingOwner != owner {
		return false, nil
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO cache_locks (key, owner, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET owner = excluded.owner, expires_at = excluded.expires_at`,
		key, owner, time.Now().Add(ttl).Unix()); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (c *SQLiteCache) ReleaseLock(ctx context.Context, key, owner string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM cache_locks WHERE key = ? AND owner = ?`, key, owner)
	return err
}

func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
