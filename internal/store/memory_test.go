package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestMemoryCache_SetGetExpire(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	cache := NewMemoryCache()
	cache.now = clock.Now

	_, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Second))
	got, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	clock.Advance(time.Second)
	_, ok, err = cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCache_InvalidTTL(t *testing.T) {
	cache := NewMemoryCache()
	assert.ErrorIs(t, cache.Set(context.Background(), "k", nil, 0), ErrInvalidTTL)
}

func TestMemoryCache_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()
	require.NoError(t, cache.Set(ctx, "k", []byte("abc"), time.Minute))

	got, _, _ := cache.Get(ctx, "k")
	got[0] = 'x'

	again, _, _ := cache.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), again)
}

func TestMemoryCounter_WindowReset(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	counter := NewMemoryCounter()
	counter.now = clock.Now

	for i := int64(1); i <= 3; i++ {
		n, err := counter.Incr(ctx, "user", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	n, err := counter.Incr(ctx, "other", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	clock.Advance(time.Minute)
	n, err = counter.Incr(ctx, "user", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMemoryCounter_Concurrent(t *testing.T) {
	ctx := context.Background()
	counter := NewMemoryCounter()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = counter.Incr(ctx, "k", time.Minute)
		}()
	}
	wg.Wait()

	n, err := counter.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(51), n)
}

func TestMemoryCounter_WritesDropExpiredWindows(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	counter := NewMemoryCounter()
	counter.now = clock.Now

	for i := 0; i < 10_000; i++ {
		_, err := counter.Incr(ctx, fmt.Sprintf("198.51.%d.%d", i/256, i%256), time.Second)
		require.NoError(t, err)
	}
	require.Equal(t, 10_000, counter.Len())

	clock.Advance(time.Hour)
	_, err := counter.Incr(ctx, "203.0.113.1", time.Second)
	require.NoError(t, err)

	assert.Equal(t, 1, counter.Len())
}

func TestMemoryCache_WritesDropExpiredEntries(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	cache := NewMemoryCache()
	cache.now = clock.Now

	require.NoError(t, cache.Set(ctx, "short", []byte("a"), time.Second))
	require.NoError(t, cache.Set(ctx, "long", []byte("b"), 2*time.Hour))

	clock.Advance(time.Hour)
	require.NoError(t, cache.Set(ctx, "new", []byte("c"), time.Minute))

	assert.Equal(t, 2, cache.Len())
	_, ok, err := cache.Get(ctx, "long")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryStore_BackgroundSweeper(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	cache := NewMemoryCache()
	cache.now = clock.Now

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Second))
	clock.Advance(time.Minute)

	cache.StartSweeper(ctx, 10*time.Millisecond)
	cache.StartSweeper(ctx, 10*time.Millisecond)

	assert.Eventually(t, func() bool { return cache.Len() == 0 }, time.Second, 10*time.Millisecond)
	require.NoError(t, cache.Close())
	assert.NoError(t, cache.Close())
}

func TestMemoryStore_SweeperStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	counter := NewMemoryCounter()
	counter.StartSweeper(ctx, time.Hour)

	cancel()
	done := make(chan struct{})
	go func() {
		_ = counter.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after context cancellation")
	}
}

func TestNewStorages_Memory(t *testing.T) {
	s, err := NewStorages(context.Background(), configRedis(""))
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, s.Cache)
	assert.IsType(t, &MemoryCounter{}, s.Counter)
	assert.NoError(t, s.Close())
}
