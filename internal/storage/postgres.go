package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/port"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type postgresStore struct {
	q       querier
	pool    *pgxpool.Pool // nil when q is already a transaction
	ownerID string
}

const (
	getValueSQL = `SELECT value FROM kv_store WHERE owner_id = $1 AND key = $2`

	setValueSQL = `INSERT INTO kv_store (owner_id, key, value, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (owner_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`

	deleteValueSQL = `DELETE FROM kv_store WHERE owner_id = $1 AND key = $2`
)

// NewPostgres stores keys in the kv_store table, scoped to ownerID so several
// devices of the same buyer share one cart. Last write wins.
func NewPostgres(pool *pgxpool.Pool, ownerID string) (port.KeyValueStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is empty")
	}

	return &postgresStore{q: pool, pool: pool, ownerID: ownerID}, nil
}

func NewPostgresWithTx(tx pgx.Tx, ownerID string) (port.KeyValueStore, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx is nil")
	}
	return newPostgres(tx, ownerID)
}

func newPostgres(q querier, ownerID string) (port.KeyValueStore, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is empty")
	}

	return &postgresStore{q: q, ownerID: ownerID}, nil
}

func (s *postgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	err := s.q.QueryRow(ctx, getValueSQL, s.ownerID, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("q.QueryRow: %w", err)
	}

	return value, nil
}

func (s *postgresStore) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}

	if _, err := s.q.Exec(ctx, setValueSQL, s.ownerID, key, value); err != nil {
		return fmt.Errorf("q.Exec: %w", err)
	}

	return nil
}

func (s *postgresStore) Delete(ctx context.Context, key string) error {
	if _, err := s.q.Exec(ctx, deleteValueSQL, s.ownerID, key); err != nil {
		return fmt.Errorf("q.Exec: %w", err)
	}

	return nil
}
