package kvstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		expires_at INTEGER
	);
`

// SQLiteStore keeps the key-value data in a single SQLite file. Expired rows
// are ignored on read and overwritten on the next write.
type SQLiteStore struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewSQLiteStore opens path, or an in-memory database for ":memory:".
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}

	// one connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite store: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}

	log.Printf("✅ Opened SQLite store at %s", path)
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) expiry(ttl time.Duration) sql.NullInt64 {
	if ttl <= 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: s.now().Add(ttl).UnixNano(), Valid: true}
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
	`, key, jsonValue, s.expiry(ttl))
	if err != nil {
		return fmt.Errorf("failed to set value: %w", err)
	}
	return nil
}

func (s *SQLiteStore) get(ctx context.Context, q sqlx.QueryerContext, key string) ([]byte, error) {
	var raw []byte
	err := sqlx.GetContext(ctx, q, &raw, `
		SELECT value FROM kv
		WHERE key = ? AND (expires_at IS NULL OR expires_at > ?)
	`, key, s.now().UnixNano())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to get value: %w", err)
	}
	return raw, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string, dest interface{}) error {
	raw, err := s.get(ctx, s.db, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete value: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.get(ctx, s.db, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *SQLiteStore) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int64
	raw, err := s.get(ctx, tx, key)
	switch {
	case err == nil:
		if err := json.Unmarshal(raw, &count); err != nil {
			return false, fmt.Errorf("failed to decode counter: %w", err)
		}
	case !errors.Is(err, ErrNotFound):
		return false, err
	}
	count++

	_, err = tx.ExecContext(ctx, `
		INSERT INTO kv (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
	`, key, []byte(fmt.Sprint(count)), s.expiry(window))
	if err != nil {
		return false, fmt.Errorf("failed to update counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit counter: %w", err)
	}
	return count <= int64(limit), nil
}

func (s *SQLiteStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
