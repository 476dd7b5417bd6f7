// Package achievements provides catalog access helpers.
package achievements

import (
	"context"
	"sync"
	"time"

	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
)

// DefaultCacheTTL matches how rarely the catalog changes.
const DefaultCacheTTL = 30 * time.Minute

// Cache is a TTL read-through cache over an achievement catalog. It is
// an explicit, injected object owned by whoever composes the
// application, never package-level state, so independent tests and
// independent owners cannot bleed into each other.
type Cache struct {
	source domain.AchievementCatalog
	clock  domain.Clock
	ttl    time.Duration

	mu        sync.Mutex
	cached    []domain.Achievement
	fetchedAt time.Time
}

// NewCache creates a cache over source with the given TTL.
// A non-positive ttl falls back to DefaultCacheTTL.
func NewCache(source domain.AchievementCatalog, clock domain.Clock, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{source: source, clock: clock, ttl: ttl}
}

// List returns the cached catalog, refreshing it from the source when
// the TTL has lapsed. A refresh failure is returned only when there is
// no previously cached value to fall back on.
func (c *Cache) List(ctx context.Context) ([]domain.Achievement, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if c.cached != nil && !c.isExpiredLocked(now) {
		return c.cached, nil
	}

	fresh, err := c.source.List(ctx)
	if err != nil {
		if c.cached != nil {
			return c.cached, nil
		}
		return nil, err
	}

	c.cached = fresh
	c.fetchedAt = now
	return fresh, nil
}

// IsExpired reports whether the cached value is stale as of now.
// An empty cache counts as expired.
func (c *Cache) IsExpired(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cached == nil || c.isExpiredLocked(now)
}

func (c *Cache) isExpiredLocked(now time.Time) bool {
	return now.Sub(c.fetchedAt) >= c.ttl
}

// Invalidate drops the cached value; the next List refetches.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = nil
	c.fetchedAt = time.Time{}
}

// Ensure Cache implements domain.AchievementCatalog.
var _ domain.AchievementCatalog = (*Cache)(nil)
