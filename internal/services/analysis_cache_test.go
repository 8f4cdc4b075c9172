package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisCacheRoundTrip(t *testing.T) {
	cache := NewAnalysisCache(10 * time.Minute)

	cache.Put("trend:games:t1:50", []int{1, 2, 3}, "snapshot-a")

	value, ok := cache.Get("trend:games:t1:50", "snapshot-a")
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3}, value)
}

func TestAnalysisCacheTTLExpiry(t *testing.T) {
	cache := NewAnalysisCache(10 * time.Minute)

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	cache.nowFunc = func() time.Time { return now }

	cache.Put("key", "value", "snap")

	// Fresh just under the TTL, stale at it.
	now = now.Add(9 * time.Minute)
	_, ok := cache.Get("key", "snap")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok = cache.Get("key", "snap")
	assert.False(t, ok)
}

func TestAnalysisCacheSnapshotInvalidation(t *testing.T) {
	cache := NewAnalysisCache(time.Hour)

	cache.Put("key", "old", "snapshot-a")

	// A catalogue reload rotates the snapshot key; old entries go stale
	// immediately regardless of TTL.
	_, ok := cache.Get("key", "snapshot-b")
	assert.False(t, ok)

	cache.Put("key", "new", "snapshot-b")
	value, ok := cache.Get("key", "snapshot-b")
	require.True(t, ok)
	assert.Equal(t, "new", value)
}

func TestAnalysisCacheIsStalePredicate(t *testing.T) {
	cache := NewAnalysisCache(5 * time.Minute)
	inserted := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	entry := AnalysisEntry{Value: 1, InsertedAt: inserted, InvalidationKey: "snap"}

	assert.False(t, cache.IsStale(entry, inserted.Add(4*time.Minute), "snap"))
	assert.True(t, cache.IsStale(entry, inserted.Add(5*time.Minute), "snap"))
	assert.True(t, cache.IsStale(entry, inserted, "other-snap"))
}

func TestAnalysisCachePurge(t *testing.T) {
	cache := NewAnalysisCache(time.Hour)

	cache.Put("a", 1, "old-snap")
	cache.Put("b", 2, "current-snap")
	require.Equal(t, 2, cache.Len())

	cache.Purge("current-snap")
	assert.Equal(t, 1, cache.Len())

	_, ok := cache.Get("b", "current-snap")
	assert.True(t, ok)
}
