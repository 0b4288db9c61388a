package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresTimeout bounds every PostgreSQL round trip.
const PostgresTimeout = 5 * time.Second

const createEntriesTable = `
CREATE TABLE IF NOT EXISTS kv_entries (
	name       TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const upsertEntry = `
INSERT INTO kv_entries (name, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (name) DO UPDATE SET
	value = EXCLUDED.value,
	updated_at = now()`

// Postgres stores entries in a kv_entries table.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to url and creates the entry table if needed.
func OpenPostgres(url string) (*Postgres, error) {
	if url == "" {
		return nil, errors.New("postgres storage: connection url required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), PostgresTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	s, err := NewPostgres(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgres wraps an existing pool and creates the entry table if needed.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (*Postgres, error) {
	if _, err := pool.Exec(ctx, createEntriesTable); err != nil {
		return nil, fmt.Errorf("failed to create kv_entries: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Load implements Slot.
func (s *Postgres) Load(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), PostgresTimeout)
	defer cancel()

	var data []byte
	err := s.pool.QueryRow(ctx, "SELECT value FROM kv_entries WHERE name = $1", key).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return data, nil
}

// Save implements Slot.
func (s *Postgres) Save(key string, data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), PostgresTimeout)
	defer cancel()

	if _, err := s.pool.Exec(ctx, upsertEntry, key, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Close implements Slot.
func (s *Postgres) Close() error {
	s.pool.Close()
	return nil
}
