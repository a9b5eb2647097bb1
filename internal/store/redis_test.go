package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cubic-js/cubic-api/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configRedis(addr string) config.Redis {
	return config.Redis{Addr: addr}
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestRedisCache_SetGetExpire(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	cache := NewRedisCache(client)

	_, ok, err := cache.Get(ctx, "GET /status")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "GET /status", []byte(`{"status":200}`), 30*time.Second))
	assert.True(t, mr.Exists(cacheKeyPrefix+"GET /status"))

	got, ok, err := cache.Get(ctx, "GET /status")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"status":200}`, string(got))

	mr.FastForward(31 * time.Second)
	_, ok, err = cache.Get(ctx, "GET /status")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCounter_IncrementAndExpire(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	counter := NewRedisCounter(client)

	for i := int64(1); i <= 3; i++ {
		n, err := counter.Incr(ctx, "10.0.0.1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}
	assert.Equal(t, time.Minute, mr.TTL(counterKeyPrefix+"10.0.0.1"))

	mr.FastForward(time.Minute)
	n, err := counter.Incr(ctx, "10.0.0.1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRedis_Unavailable(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	mr.Close()

	_, err := NewRedisCounter(client).Incr(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	_, _, err = NewRedisCache(client).Get(ctx, "k")
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	err = NewRedisCache(client).Set(ctx, "k", []byte("v"), time.Minute)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestNewStorages_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := NewStorages(context.Background(), configRedis(mr.Addr()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	assert.IsType(t, &RedisCache{}, s.Cache)
	assert.IsType(t, &RedisCounter{}, s.Counter)
}

func TestNewStorages_RedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewStorages(context.Background(), configRedis(addr))
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
