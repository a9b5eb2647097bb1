package store

import (
	"context"
	"sync"
	"time"
)

// sweepInterval is how often expired entries are removed from the memory
// stores, both on writes and by the background sweeper.
const sweepInterval = time.Minute

type memoryEntry struct {
	value     []byte
	count     int64
	expiresAt time.Time
}

type memoryStore struct {
	mu        sync.Mutex
	entries   map[string]memoryEntry
	now       func() time.Time
	nextSweep time.Time

	sweeperMu sync.Mutex
	shutdown  chan struct{}
	done      chan struct{}
}

func (m *memoryStore) init() {
	m.entries = make(map[string]memoryEntry)
	m.now = time.Now
}

// Len returns the number of entries held, expired ones included until the
// next sweep.
func (m *memoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// maybeSweepLocked runs a sweep when the previous one is older than
// sweepInterval. Writes call it so that the map stays bounded even without
// the background sweeper.
func (m *memoryStore) maybeSweepLocked(now time.Time) {
	if now.Before(m.nextSweep) {
		return
	}
	m.sweepLocked(now)
}

func (m *memoryStore) sweepLocked(now time.Time) {
	for key, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, key)
		}
	}
	m.nextSweep = now.Add(sweepInterval)
}

func (m *memoryStore) sweep() {
	m.mu.Lock()
	m.sweepLocked(m.now())
	m.mu.Unlock()
}

// StartSweeper removes expired entries every interval until ctx is done or
// Close is called. Calling it on a running sweeper does nothing.
func (m *memoryStore) StartSweeper(ctx context.Context, interval time.Duration) {
	m.sweeperMu.Lock()
	defer m.sweeperMu.Unlock()

	if m.shutdown != nil {
		return
	}
	m.shutdown = make(chan struct{})
	m.done = make(chan struct{})

	go m.runSweeper(ctx, interval, m.shutdown, m.done)
}

func (m *memoryStore) runSweeper(ctx context.Context, interval time.Duration, shutdown <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-shutdown:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

// Close stops the background sweeper and waits for it to exit.
func (m *memoryStore) Close() error {
	m.sweeperMu.Lock()
	defer m.sweeperMu.Unlock()

	if m.shutdown == nil {
		return nil
	}
	close(m.shutdown)
	<-m.done
	m.shutdown, m.done = nil, nil
	return nil
}

// MemoryCache is a CacheStore kept in process memory.
type MemoryCache struct {
	memoryStore
}

// NewMemoryCache returns an empty MemoryCache. Expired entries are dropped
// on access, on writes once per sweep interval, and by StartSweeper.
func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{}
	c.init()
	return c
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidTTL
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.maybeSweepLocked(now)
	m.entries[key] = memoryEntry{value: append([]byte(nil), value...), expiresAt: now.Add(ttl)}
	return nil
}

// MemoryCounter is a CounterStore kept in process memory.
type MemoryCounter struct {
	memoryStore
}

// NewMemoryCounter returns an empty MemoryCounter. Expired windows are
// dropped like MemoryCache entries.
func NewMemoryCounter() *MemoryCounter {
	c := &MemoryCounter{}
	c.init()
	return c
}

func (m *MemoryCounter) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	if window <= 0 {
		return 0, ErrInvalidTTL
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.maybeSweepLocked(now)

	e, ok := m.entries[key]
	if !ok || !now.Before(e.expiresAt) {
		e = memoryEntry{expiresAt: now.Add(window)}
	}
	e.count++
	m.entries[key] = e

	return e.count, nil
}
