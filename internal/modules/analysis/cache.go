package analysis

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/profile"
	"github.com/vmihailenco/msgpack/v5"
)

// CacheTTL and CacheMaxEntries match the reference bounds spec §3.6 gives
// for the analysis cache: a short TTL, a small bounded LRU.
const (
	CacheTTL        = 5 * time.Minute
	CacheMaxEntries = 100
)

// Fingerprint produces a stable hash of a sorted override map (spec
// §3.6's cache-key fingerprint), so two requests with the same overrides
// presented in a different key order still collide onto the same cache
// entry. Encoding via msgpack (rather than, say, fmt.Sprintf over the
// sorted pairs) keeps the encoding unambiguous across value types
// (float64 vs string overrides) without hand-rolled escaping.
func Fingerprint(raw map[string]any) (string, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ordered := make([]struct {
		Key   string
		Value any
	}, len(keys))
	for i, k := range keys {
		ordered[i].Key = k
		ordered[i].Value = raw[k]
	}

	encoded, err := msgpack.Marshal(ordered)
	if err != nil {
		return "", fmt.Errorf("analysis: fingerprinting overrides: %w", err)
	}
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:]), nil
}

// CacheKey identifies one cached analysis (spec §3.6: symbol, period,
// profile name, override fingerprint).
type CacheKey struct {
	Symbol              string
	Period              domain.Period
	ProfileName         profile.Name
	OverrideFingerprint string
}

func (k CacheKey) String() string {
	return fmt.Sprintf("%s|%s|%s|%s", k.Symbol, k.Period, k.ProfileName, k.OverrideFingerprint)
}

type cacheEntry struct {
	key       string
	snapshot  Snapshot
	expiresAt time.Time
}

// Cache is a bounded, TTL-expiring LRU over computed Snapshots, keyed on
// CacheKey. Grounded on marketdata.CachedProvider's container/list LRU,
// the same pattern applied to a different value type; the analysis cache
// has no single-flight collapsing because Analyzer.AnalyzeSecurity is
// cheap to call concurrently for different keys and a cache stampede on
// one hot key is not the bottleneck the fetch cache exists to solve.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List
	ttl     time.Duration
	maxSize int
}

// NewCache builds a Cache with the given bounds; ttl <= 0 or maxSize <= 0
// fall back to the spec defaults.
func NewCache(ttl time.Duration, maxSize int) *Cache {
	if ttl <= 0 {
		ttl = CacheTTL
	}
	if maxSize <= 0 {
		maxSize = CacheMaxEntries
	}
	return &Cache{
		ttl: ttl, maxSize: maxSize,
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Get returns the cached snapshot for key, if present and unexpired.
func (c *Cache) Get(key CacheKey) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key.String()
	el, ok := c.entries[k]
	if !ok {
		return Snapshot{}, false
	}
	entry := el.Value.(*cacheEntry)
	if time.Now().After(entry.expiresAt) {
		c.order.Remove(el)
		delete(c.entries, k)
		return Snapshot{}, false
	}
	c.order.MoveToFront(el)
	return entry.snapshot, true
}

// Put stores snapshot under key, evicting the least-recently-used entry if
// the cache is at capacity.
func (c *Cache) Put(key CacheKey, snapshot Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key.String()
	if el, ok := c.entries[k]; ok {
		el.Value.(*cacheEntry).snapshot = snapshot
		el.Value.(*cacheEntry).expiresAt = time.Now().Add(c.ttl)
		c.order.MoveToFront(el)
		return
	}

	el := c.order.PushFront(&cacheEntry{key: k, snapshot: snapshot, expiresAt: time.Now().Add(c.ttl)})
	c.entries[k] = el

	for c.order.Len() > c.maxSize {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}
