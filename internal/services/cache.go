package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"vahanpulse/internal/dataprocessing"
	"vahanpulse/internal/infrastructure"
	"vahanpulse/pkg/contracts/domain"
)

// cacheKey identifies one memoized load result: which source table was read
// and whether the EV-only filter was applied.
type cacheKey struct {
	mode   dataprocessing.LoadMode
	evOnly bool
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%s|ev=%t", k.mode, k.evOnly)
}

type cacheEntry struct {
	dataset  *domain.Dataset
	loadedAt time.Time
}

// loadCache is the time-bounded memoization of load results. Entries expire
// after the configured TTL and are recomputed on next access; there is no
// manual invalidation. Concurrent lookups of the same key during a miss are
// collapsed with singleflight so each key is populated at most once per
// expiry window.
type loadCache struct {
	ttl     time.Duration
	metrics *infrastructure.Metrics

	mu      sync.RWMutex
	entries map[cacheKey]cacheEntry
	group   singleflight.Group

	// now is a test seam for freshness checks.
	now func() time.Time
}

func newLoadCache(ttl time.Duration, metrics *infrastructure.Metrics) *loadCache {
	return &loadCache{
		ttl:     ttl,
		metrics: metrics,
		entries: make(map[cacheKey]cacheEntry),
		now:     time.Now,
	}
}

// get returns the cached dataset for key if still fresh, otherwise invokes
// load and stores its result. Load errors are not cached.
func (c *loadCache) get(ctx context.Context, key cacheKey, load func(context.Context) (*domain.Dataset, error)) (*domain.Dataset, error) {
	if ds, ok := c.fresh(key); ok {
		if c.metrics != nil {
			c.metrics.CacheHitsTotal.Inc()
		}
		return ds, nil
	}

	if c.metrics != nil {
		c.metrics.CacheMissesTotal.Inc()
	}

	result, err, _ := c.group.Do(key.String(), func() (interface{}, error) {
		// Another caller may have populated the entry while we waited.
		if ds, ok := c.fresh(key); ok {
			return ds, nil
		}

		ds, err := load(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = cacheEntry{dataset: ds, loadedAt: c.now()}
		c.mu.Unlock()
		return ds, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.Dataset), nil
}

func (c *loadCache) fresh(key cacheKey) (*domain.Dataset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || c.now().Sub(entry.loadedAt) >= c.ttl {
		return nil, false
	}
	return entry.dataset, true
}
