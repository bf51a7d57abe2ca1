package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/talentflow/talentflow/internal/config"
	"github.com/talentflow/talentflow/internal/kv"
	"github.com/talentflow/talentflow/internal/logger"
)

// Store keeps documents as JSONB rows of a single table
type Store struct {
	db     *sqlx.DB
	table  string
	logger *logger.Logger
}

// NewStore connects to Postgres and makes sure the documents table exists
func NewStore(ctx context.Context, cfg config.PostgresConfig, log *logger.Logger) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	table := cfg.Table
	if table == "" {
		table = "kv_documents"
	}

	s := &Store{db: db, table: pq.QuoteIdentifier(table), logger: log}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Infow("postgres store ready", "host", cfg.Host, "dbname", cfg.DBName, "table", table)
	return s, nil
}

// NewStoreFromDB wraps an existing connection, the table must exist
func NewStoreFromDB(db *sqlx.DB, table string, log *logger.Logger) *Store {
	return &Store{db: db, table: pq.QuoteIdentifier(table), logger: log}
}

func (s *Store) migrate(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		key        TEXT PRIMARY KEY,
		value      JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`, s.table)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create %s: %w", s.table, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	query := fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, s.table)
	err := s.db.GetContext(ctx, &value, query, key)
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
	// passed as text so the driver does not bind it as bytea
	query := fmt.Sprintf(`INSERT INTO %s (key, value, updated_at) VALUES ($1, $2::jsonb, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`, s.table)
	if _, err := s.db.ExecContext(ctx, query, key, string(value)); err != nil {
		s.logger.Errorw("postgres put failed", "key", key, "error", err)
		return kv.NewStoreError(err, "put", key)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, s.table)
	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return kv.NewStoreError(err, "delete", key)
	}
	return nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]kv.Entry, error) {
	query := fmt.Sprintf(`SELECT key, value FROM %s WHERE left(key, length($1)) = $1 ORDER BY key COLLATE "C"`, s.table)

	var rows []struct {
		Key   string `db:"key"`
		Value []byte `db:"value"`
	}
	if err := s.db.SelectContext(ctx, &rows, query, prefix); err != nil {
		return nil, kv.NewStoreError(err, "list", prefix)
	}

	entries := make([]kv.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, kv.Entry{Key: row.Key, Value: row.Value})
	}
	return entries, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
