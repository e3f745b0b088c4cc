package port

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// KeyValueStore is the persistent client-side storage used by the cart and the session.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Transactor is implemented by stores that can apply several writes atomically.
type Transactor interface {
	InTx(ctx context.Context, fn func(store KeyValueStore) error) error
}
