package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryCache is the bounded, time-limited local tier.
//
// Entries expire TTL after they were written; reads do not extend them.
// When the cache holds more than MaxEntries, the least recently used entry is
// evicted. Expired entries read as absent and are reclaimed by a background
// sweep, which counts them as evictions. Overwrites are not evictions.
type MemoryCache struct {
	lru        *expirable.LRU[string, Entry]
	maxEntries int
	ttl        time.Duration

	evictions atomic.Int64
}

// NewMemoryCache creates a local tier sized and timed by policy.
func NewMemoryCache(policy Policy) *MemoryCache {
	policy = policy.withDefaults()
	c := &MemoryCache{
		maxEntries: policy.MaxEntries,
		ttl:        policy.TTL,
	}
	// Runs under the LRU lock; must not call back into the cache.
	onEvict := func(string, Entry) {
		c.evictions.Add(1)
	}
	c.lru = expirable.NewLRU[string, Entry](policy.MaxEntries, onEvict, policy.TTL)
	return c
}

// Get returns the live entry for key. Returns (Entry{}, false) on miss or expiry.
func (c *MemoryCache) Get(_ context.Context, key string) (Entry, bool) {
	return c.lru.Get(key)
}

// Set stores entry under key with a fresh TTL, evicting the least recently
// used entry if the cache grows past its bound.
func (c *MemoryCache) Set(_ context.Context, key string, entry Entry) {
	c.lru.Add(key, entry)
}

// Len returns the number of entries currently held. It is an upper bound on
// live entries: expired entries count until the sweep reclaims them.
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}

// Evictions returns how many entries were removed by capacity pressure or
// expiry since the cache was created.
func (c *MemoryCache) Evictions() int64 {
	return c.evictions.Load()
}

// MaxEntries returns the configured bound.
func (c *MemoryCache) MaxEntries() int {
	return c.maxEntries
}

// TTL returns the configured expire-after-write duration.
func (c *MemoryCache) TTL() time.Duration {
	return c.ttl
}
