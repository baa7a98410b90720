package coverage

import (
	"context"
	"sync"
	"time"
)

// Cache memoizes successful lookup results by rounded coordinate key. Values
// are immutable once stored; expiry is lazy, checked on read.
type Cache interface {
	Get(ctx context.Context, key string) (Result, bool)
	Put(ctx context.Context, key string, value Result, ttl time.Duration)
}

type memoryEntry struct {
	value   Result
	expires time.Time
}

// MemoryCache is the in-process cache backend.
type MemoryCache struct {
	mu    sync.Mutex
	items map[string]memoryEntry
	now   func() time.Time
}

// NewMemoryCache creates an in-memory TTL cache. The clock is injectable for
// tests.
func NewMemoryCache(now func() time.Time) *MemoryCache {
	if now == nil {
		now = time.Now
	}
	return &MemoryCache{
		items: make(map[string]memoryEntry),
		now:   now,
	}
}

// Get returns the cached result if present and fresh. An expired entry is
// evicted on this read.
func (c *MemoryCache) Get(_ context.Context, key string) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, found := c.items[key]
	if !found {
		return Result{}, false
	}
	if c.now().After(entry.expires) {
		delete(c.items, key)
		return Result{}, false
	}
	return entry.value, true
}

// Put stores a result until ttl elapses.
func (c *MemoryCache) Put(_ context.Context, key string, value Result, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = memoryEntry{
		value:   value,
		expires: c.now().Add(ttl),
	}
}

var _ Cache = (*MemoryCache)(nil)
