package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/config"
	"github.com/nikolayk812/storefront/internal/port"
)

var ErrEmptyKey = errors.New("key is empty")

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Open builds the store selected by cfg.StorageDriver. The returned closer releases
// any connection pool and is never nil.
func Open(ctx context.Context, cfg config.Config) (port.KeyValueStore, func(), error) {
	noop := func() {}

	switch cfg.StorageDriver {
	case DriverMemory:
		return NewMemory(), noop, nil
	case DriverFile, "":
		store, err := NewFile(cfg.StoragePath)
		if err != nil {
			return nil, noop, fmt.Errorf("storage.NewFile: %w", err)
		}
		return store, noop, nil
	case DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("pgxpool.New: %w", err)
		}
		store, err := NewPostgres(pool, cfg.OwnerID)
		if err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("storage.NewPostgres: %w", err)
		}
		return store, pool.Close, nil
	case DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("redis.Ping: %w", err)
		}
		store, err := NewRedis(client, cfg.OwnerID)
		if err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("storage.NewRedis: %w", err)
		}
		return store, func() { _ = client.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("storage driver[%s] is not supported", cfg.StorageDriver)
	}
}
