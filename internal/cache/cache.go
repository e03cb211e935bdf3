// Package cache provides a small in-memory TTL cache for record-API
// responses. Entries expire individually; when the size cap is reached the
// oldest fifth of the entries is evicted to make room. A background sweeper,
// started explicitly by the owning process, removes expired entries
// periodically so abandoned keys do not accumulate.
package cache

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"
)

const (
	// DefaultTTL is applied when Set is called with a zero TTL.
	DefaultTTL = 5 * time.Minute

	// DefaultMaxSize caps the number of live entries.
	DefaultMaxSize = 50

	// sweepInterval is how often the background sweeper runs.
	sweepInterval = time.Minute
)

type entry struct {
	value      any
	insertedAt time.Time
	ttl        time.Duration
}

// Cache is a TTL map safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	maxSize int
	now     func() time.Time // swapped in tests
}

// New returns a cache with the given default TTL and size cap.
// Zero values fall back to the package defaults.
func New(ttl time.Duration, maxSize int) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Get returns the cached value for key, or ok=false when the key is absent
// or its entry has expired. Expired entries are removed on access.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.insertedAt) > e.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key. A zero ttl uses the cache default. When the
// cache is full, the oldest 20% of entries (by insertion time) are evicted
// before the new entry is added.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldestLocked()
	}
	c.entries[key] = entry{value: value, insertedAt: c.now(), ttl: ttl}
}

// Remove deletes a single key.
func (c *Cache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear drops every entry. Mutating operations on the backing store call
// this so stale listings are never served afterwards.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Len reports the number of entries, including any not yet swept.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// StartSweeper removes expired entries every minute until ctx is done.
func (c *Cache) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

func (c *Cache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, e := range c.entries {
		if now.Sub(e.insertedAt) > e.ttl {
			delete(c.entries, key)
		}
	}
}

// evictOldestLocked drops ceil(maxSize * 0.2) entries, oldest first.
func (c *Cache) evictOldestLocked() {
	type aged struct {
		key        string
		insertedAt time.Time
	}
	all := make([]aged, 0, len(c.entries))
	for key, e := range c.entries {
		all = append(all, aged{key, e.insertedAt})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].insertedAt.Before(all[j].insertedAt) })

	toRemove := int(math.Ceil(float64(c.maxSize) * 0.2))
	if toRemove > len(all) {
		toRemove = len(all)
	}
	for _, a := range all[:toRemove] {
		delete(c.entries, a.key)
	}
}
