package infrastructure

import (
	"context"
	"sync"
	"time"

	"github.com/mateusmacedo/go-pathshare/internal/mapservice/domain"
)

type cacheEntry struct {
	route   []domain.MapPoint
	expires time.Time
}

// InMemoryRouteCache is a process-local RouteCache with per-entry TTL. Writes
// drop every expired entry at most once per TTL, so the map holds roughly the
// routes written during the last two TTLs.
type InMemoryRouteCache struct {
	mu        sync.RWMutex
	entries   map[string]cacheEntry
	ttl       time.Duration
	now       func() time.Time
	nextSweep time.Time
}

func NewInMemoryRouteCache(ttl time.Duration) *InMemoryRouteCache {
	return &InMemoryRouteCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *InMemoryRouteCache) Get(_ context.Context, key string) ([]domain.MapPoint, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(entry.expires) {
		c.mu.Lock()
		if current, ok := c.entries[key]; ok && current.expires.Equal(entry.expires) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return append([]domain.MapPoint(nil), entry.route...), true, nil
}

func (c *InMemoryRouteCache) Set(_ context.Context, key string, route []domain.MapPoint) error {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	if !now.Before(c.nextSweep) {
		c.sweep(now)
	}
	c.entries[key] = cacheEntry{
		route:   append([]domain.MapPoint(nil), route...),
		expires: now.Add(c.ttl),
	}
	return nil
}

// sweep must be called with mu held.
func (c *InMemoryRouteCache) sweep(now time.Time) {
	for key, entry := range c.entries {
		if !now.Before(entry.expires) {
			delete(c.entries, key)
		}
	}
	c.nextSweep = now.Add(c.ttl)
}

// Len reports the number of stored entries, expired ones included.
func (c *InMemoryRouteCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
