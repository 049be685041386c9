// Package cache provides a small in-memory TTL store for assembled analyses
// and chart payloads. Server-side handlers share one instance, so reads and
// writes are mutex-guarded.
package cache

import (
	"sync"
	"time"

	"equity-insight/observability"
)

// Freshness windows for the two cached kinds.
const (
	DefaultAnalysisTTL = 2 * time.Hour
	DefaultChartTTL    = 5 * time.Minute
)

// AnalysisKey builds the cache key for a full analysis record.
func AnalysisKey(symbol string) string {
	return "analysis_" + symbol
}

// ChartKey builds the cache key for chart data of one symbol and range.
func ChartKey(symbol, timeRange string) string {
	return "chart_" + symbol + "_" + timeRange
}

type entry struct {
	value    any
	storedAt time.Time
	ttl      time.Duration
}

// Cache is an in-memory TTL key-value store. Readers honor each entry's
// freshness window; stale entries read as misses and are dropped lazily.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached value for key if it is still fresh.
func (c *Cache) Get(kind, key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	metrics := observability.GetMetrics()
	if !ok {
		metrics.RecordCacheMiss(kind)
		return nil, false
	}
	if c.now().Sub(e.storedAt) >= e.ttl {
		c.mu.Lock()
		// Re-check under the write lock; a fresh write may have landed.
		if cur, still := c.entries[key]; still && c.now().Sub(cur.storedAt) >= cur.ttl {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		metrics.RecordCacheMiss(kind)
		return nil, false
	}

	metrics.RecordCacheHit(kind)
	return e.value, true
}

// Set stores value under key with the given freshness window.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = entry{value: value, storedAt: c.now(), ttl: ttl}
	c.mu.Unlock()
}

// Invalidate drops one key.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len reports the number of stored entries, stale ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
