package marketdata

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aristath/chartwatch/internal/domain"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL and DefaultMaxEntries match the bounds spec §4.1 and §5 call
// out as the reference values for the fetch cache.
const (
	DefaultTTL         = 300 * time.Second
	DefaultMaxEntries  = 100
)

type cacheEntry struct {
	key       string
	series    domain.BarSeries
	expiresAt time.Time
}

// CachedProvider wraps a Provider with a bounded, TTL-expiring LRU cache
// keyed on (symbol, period), collapsing concurrent fetches for the same
// key into one upstream call via singleflight (spec §4.1, §5's "Shared
// resources" note). Grounded on the teacher's internal/work.Cache
// TTL-bearing key/value store, adapted from a sql-backed store to an
// in-process one since the fetch cache is explicitly process-scoped, not
// durable.
type CachedProvider struct {
	upstream Provider
	ttl      time.Duration
	maxSize  int

	mu      sync.Mutex
	entries map[string]*list.Element // key -> element of order, value *cacheEntry
	order   *list.List                // front = most recently used

	flight singleflight.Group
}

// NewCachedProvider wraps upstream with an LRU+TTL cache of the given
// bounds. ttl <= 0 or maxSize <= 0 fall back to the spec defaults.
func NewCachedProvider(upstream Provider, ttl time.Duration, maxSize int) *CachedProvider {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxEntries
	}
	return &CachedProvider{
		upstream: upstream,
		ttl:      ttl,
		maxSize:  maxSize,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

func cacheKey(symbol string, period domain.Period) string {
	return fmt.Sprintf("%s|%s", symbol, period)
}

// FetchBars implements Provider, serving from cache when a live entry
// exists and collapsing concurrent misses for the same key into a single
// upstream fetch.
func (c *CachedProvider) FetchBars(ctx context.Context, symbol string, period domain.Period) (domain.BarSeries, error) {
	key := cacheKey(symbol, period)

	if series, ok := c.get(key); ok {
		return series, nil
	}

	result, err, _ := c.flight.Do(key, func() (any, error) {
		// Re-check: another goroutine may have populated the cache while
		// we waited to enter the singleflight group.
		if series, ok := c.get(key); ok {
			return series, nil
		}
		series, err := c.upstream.FetchBars(ctx, symbol, period)
		if err != nil {
			return domain.BarSeries{}, err
		}
		c.put(key, series)
		return series, nil
	})
	if err != nil {
		return domain.BarSeries{}, err
	}
	return result.(domain.BarSeries), nil
}

func (c *CachedProvider) get(key string) (domain.BarSeries, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return domain.BarSeries{}, false
	}
	entry := el.Value.(*cacheEntry)
	if time.Now().After(entry.expiresAt) {
		c.order.Remove(el)
		delete(c.entries, key)
		return domain.BarSeries{}, false
	}
	c.order.MoveToFront(el)
	return entry.series, true
}

func (c *CachedProvider) put(key string, series domain.BarSeries) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).series = series
		el.Value.(*cacheEntry).expiresAt = time.Now().Add(c.ttl)
		c.order.MoveToFront(el)
		return
	}

	el := c.order.PushFront(&cacheEntry{key: key, series: series, expiresAt: time.Now().Add(c.ttl)})
	c.entries[key] = el

	for c.order.Len() > c.maxSize {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

// Invalidate drops the cached entry for (symbol, period), if any.
func (c *CachedProvider) Invalidate(symbol string, period domain.Period) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(symbol, period)
	if el, ok := c.entries[key]; ok {
		c.order.Remove(el)
		delete(c.entries, key)
	}
}
