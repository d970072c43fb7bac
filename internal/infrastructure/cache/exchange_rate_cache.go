package cache

import (
	"sync"
	"time"

	"github.com/damon-houk/currency-converter/internal/domain/entity"
)

// CacheEntry represents a cached rate snapshot with the time it was stored
type CacheEntry struct {
	Snapshot  *entity.RateSnapshot
	Timestamp time.Time
}

// RateSnapshotCache is a thread-safe in-memory cache of rate snapshots keyed
// by base currency. A zero expiration disables the cache.
type RateSnapshotCache struct {
	cache      map[string]CacheEntry
	expiration time.Duration
	now        func() time.Time
	mutex      sync.RWMutex
}

// NewRateSnapshotCache creates a cache whose entries live for expiration
func NewRateSnapshotCache(expiration time.Duration) *RateSnapshotCache {
	return &RateSnapshotCache{
		cache:      make(map[string]CacheEntry),
		expiration: expiration,
		now:        time.Now,
	}
}

// Get retrieves the snapshot for base if present and not expired
func (c *RateSnapshotCache) Get(base string) *entity.RateSnapshot {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if c.expiration <= 0 {
		return nil
	}

	entry, exists := c.cache[base]
	if !exists || c.now().Sub(entry.Timestamp) > c.expiration {
		return nil
	}

	return entry.Snapshot
}

// Put stores a snapshot under its base currency and drops expired entries.
// Nothing is stored while the cache is disabled.
func (c *RateSnapshotCache) Put(snapshot *entity.RateSnapshot) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.expiration <= 0 || snapshot == nil {
		return
	}

	c.cleanExpired()
	c.cache[snapshot.Base] = CacheEntry{
		Snapshot:  snapshot,
		Timestamp: c.now(),
	}
}

// SetExpiration sets the cache expiration duration
func (c *RateSnapshotCache) SetExpiration(duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.expiration = duration
}

// cleanExpired removes expired entries. The caller holds the write lock.
func (c *RateSnapshotCache) cleanExpired() {
	now := c.now()

	for key, entry := range c.cache {
		if now.Sub(entry.Timestamp) > c.expiration {
			delete(c.cache, key)
		}
	}
}
