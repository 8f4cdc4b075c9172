package services

import (
	"sync"
	"time"
)

// AnalysisEntry is one cached engine derivation. InvalidationKey identifies
// the catalogue snapshot the value was computed from; a reload rotates the
// key and strands every older entry.
type AnalysisEntry struct {
	Value           interface{}
	InsertedAt      time.Time
	InvalidationKey string
}

// AnalysisCache is an explicit in-memory cache for engine output, owned by
// whoever constructs it and passed in where needed. Entries expire by TTL or
// when the catalogue snapshot they were derived from is replaced.
type AnalysisCache struct {
	mu      sync.RWMutex
	entries map[string]AnalysisEntry
	ttl     time.Duration
	nowFunc func() time.Time
}

// NewAnalysisCache builds a cache with the given entry TTL.
func NewAnalysisCache(ttl time.Duration) *AnalysisCache {
	return &AnalysisCache{
		entries: make(map[string]AnalysisEntry),
		ttl:     ttl,
		nowFunc: time.Now,
	}
}

// IsStale reports whether an entry has outlived its TTL or was derived from
// a superseded catalogue snapshot.
func (c *AnalysisCache) IsStale(entry AnalysisEntry, now time.Time, currentKey string) bool {
	if entry.InvalidationKey != currentKey {
		return true
	}
	return now.Sub(entry.InsertedAt) >= c.ttl
}

// Get returns the cached value for key if it is fresh under currentKey.
func (c *AnalysisCache) Get(key, currentKey string) (interface{}, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.IsStale(entry, c.nowFunc(), currentKey) {
		c.mu.Lock()
		// Re-check under the write lock; a fresh value may have landed.
		if cur, still := c.entries[key]; still && c.IsStale(cur, c.nowFunc(), currentKey) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return entry.Value, true
}

// Put stores a value derived from the catalogue snapshot named by
// invalidationKey.
func (c *AnalysisCache) Put(key string, value interface{}, invalidationKey string) {
	c.mu.Lock()
	c.entries[key] = AnalysisEntry{
		Value:           value,
		InsertedAt:      c.nowFunc(),
		InvalidationKey: invalidationKey,
	}
	c.mu.Unlock()
}

// Len reports the number of entries currently held, stale ones included.
func (c *AnalysisCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Purge drops every entry not derived from currentKey and every expired one.
func (c *AnalysisCache) Purge(currentKey string) {
	now := c.nowFunc()
	c.mu.Lock()
	for key, entry := range c.entries {
		if c.IsStale(entry, now, currentKey) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}
