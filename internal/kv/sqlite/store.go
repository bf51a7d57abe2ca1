package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/talentflow/talentflow/internal/kv"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS kv_documents (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

// Store persists documents in a single SQLite table
type Store struct {
	db *sqlx.DB
}

// Open opens or creates the database at path. ":memory:" keeps everything
// in a private in-memory database.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := ":memory:"
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// sqlite serializes writers anyway and every :memory: connection would
	// otherwise see its own empty database
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.GetContext(ctx, &value, `SELECT value FROM kv_documents WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, kv.NewNotFoundError(key)
	}
	if err != nil {
		return nil, kv.NewStoreError(err, "get", key)
	}
	return value, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if err := kv.ValidateKey(key); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv_documents (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return kv.NewStoreError(err, "put", key)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_documents WHERE key = ?`, key); err != nil {
		return kv.NewStoreError(err, "delete", key)
	}
	return nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]kv.Entry, error) {
	query := `SELECT key, value FROM kv_documents WHERE key >= ? ORDER BY key`
	args := []any{prefix}
	if upper := kv.PrefixUpperBound(prefix); upper != "" {
		query = `SELECT key, value FROM kv_documents WHERE key >= ? AND key < ? ORDER BY key`
		args = append(args, upper)
	}

	var rows []struct {
		Key   string `db:"key"`
		Value []byte `db:"value"`
	}
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, kv.NewStoreError(err, "list", prefix)
	}

	entries := make([]kv.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, kv.Entry{Key: row.Key, Value: row.Value})
	}
	return entries, nil
}

// Close closes the SQLite handle
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
