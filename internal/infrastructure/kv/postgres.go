package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const kvSchema = `
	CREATE TABLE IF NOT EXISTS kv_entries (
		key        TEXT PRIMARY KEY,
		value      BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

type postgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates the kv_entries table if needed.
func NewPostgresStore(ctx context.Context, db *sqlx.DB) (Store, error) {
	if _, err := db.ExecContext(ctx, kvSchema); err != nil {
		return nil, fmt.Errorf("failed to create kv_entries table: %w", err)
	}
	return &postgresStore{db: db}, nil
}

func (s *postgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	query := `SELECT value FROM kv_entries WHERE key = $1`
	err := s.db.GetContext(ctx, &value, query, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("postgres get %s: %w", key, err)
	}
	return value, nil
}

func (s *postgresStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("postgres set %s: %w", key, err)
	}
	return nil
}

func (s *postgresStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM kv_entries WHERE key = $1`
	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("postgres delete %s: %w", key, err)
	}
	return nil
}

func (s *postgresStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_entries`); err != nil {
		return fmt.Errorf("postgres clear: %w", err)
	}
	return nil
}
