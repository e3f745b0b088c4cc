package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/nikolayk812/storefront/internal/port"
)

// Atomically runs fn against store inside a transaction when the store supports
// one, and against the store itself otherwise.
func Atomically(ctx context.Context, store port.KeyValueStore, fn func(store port.KeyValueStore) error) error {
	if tx, ok := store.(port.Transactor); ok {
		return tx.InTx(ctx, fn)
	}
	return fn(store)
}

func (s *postgresStore) InTx(ctx context.Context, fn func(store port.KeyValueStore) error) (txErr error) {
	// Already in a transaction.
	if s.pool == nil {
		return fn(s)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pool.Begin: %w", err)
	}

	defer func() {
		if txErr != nil {
			rollbackErr := tx.Rollback(ctx)
			if rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				txErr = errors.Join(txErr, fmt.Errorf("tx.Rollback: %w", rollbackErr))
			}
		}
	}()

	if err := fn(&postgresStore{q: tx, ownerID: s.ownerID}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("tx.Commit: %w", err)
	}

	return nil
}
