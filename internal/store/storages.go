package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/cubic-js/cubic-api/internal/config"
	"github.com/redis/go-redis/v9"
)

// Storages groups the stores used by the cache and rate-limit middleware.
type Storages struct {
	Cache   CacheStore
	Counter CounterStore

	closeFn func() error
}

// Close stops the memory sweepers or releases the redis connection.
func (s *Storages) Close() error {
	if s == nil || s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}

// NewStorages builds the stores described by cfg. An empty address selects the
// in-process memory backend; otherwise a redis client is created and pinged.
func NewStorages(ctx context.Context, cfg config.Redis) (*Storages, error) {
	if cfg.Addr == "" {
		cache, counter := NewMemoryCache(), NewMemoryCounter()
		cache.StartSweeper(ctx, sweepInterval)
		counter.StartSweeper(ctx, sweepInterval)

		return &Storages{
			Cache:   cache,
			Counter: counter,
			closeFn: func() error {
				return errors.Join(cache.Close(), counter.Close())
			},
		}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", ErrStoreUnavailable, cfg.Addr, err)
	}

	return &Storages{
		Cache:   NewRedisCache(client),
		Counter: NewRedisCounter(client),
		closeFn: client.Close,
	}, nil
}
