package gateway

import (
	"context"
	"sync"
	"time"

	"github.com/bsumme/odds-price-alert/pkg/models"
)

// Defaults for the in-process snapshot cache.
const (
	DefaultCacheTTL     = 30 * time.Second
	DefaultCacheEntries = 100
)

type memoryEntry struct {
	snapshot  *models.OddsSnapshot
	expiresAt time.Time
	storedAt  time.Time
}

// MemoryCache is a process-local Cache with a fixed TTL and a hard entry
// cap. When the cap is hit the oldest entry by store time is evicted. Safe
// for concurrent use.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewMemoryCache creates a cache with the given TTL and entry cap.
// Non-positive arguments fall back to the defaults.
func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultCacheEntries
	}
	return &MemoryCache{
		entries:    make(map[string]memoryEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string) (*models.OddsSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.snapshot, true
}

func (c *MemoryCache) Set(ctx context.Context, key string, snapshot *models.OddsSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}

	c.entries[key] = memoryEntry{
		snapshot:  snapshot,
		expiresAt: now.Add(c.ttl),
		storedAt:  now,
	}
}

// evictOldestLocked removes the entry stored longest ago. Callers hold mu.
func (c *MemoryCache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time

	for key, entry := range c.entries {
		if oldestKey == "" || entry.storedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.storedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// Len reports the number of stored entries. Expired entries linger until a
// Get touches them.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
