package bubble

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is used when a Cache does not specify a size.
const DefaultCacheSize = 500

// Cache memoizes bubble layouts for one family of cells.
//
// Entries are keyed by the hash of their Context. A stored model is only
// served when its Context equals the requested one, so hash collisions cause
// a recomputation rather than a wrong layout.
//
// Cache is meant to be used from the goroutine that lays out the UI. The
// zero value is ready to use once Measurer is set.
type Cache struct {
	// Size bounds the number of models held. Least recently used models are
	// evicted first. Defaults to DefaultCacheSize.
	Size int
	// Measurer measures text for the text bubble kinds.
	Measurer Measurer
	// Hash keys the entries. Defaults to Context.Hash. Replacing it is only
	// useful to exercise collisions.
	Hash func(Context) uint64
	// Stats counts lookups.
	Stats CacheStats

	entries *lru.Cache[uint64, *Model]
}

// CacheStats counts cache lookups.
type CacheStats struct {
	Hits   int
	Misses int
	// Collisions counts lookups that found a model stored for a different
	// context under the same hash.
	Collisions int
}

// NewCache allocates a cache of the given size.
func NewCache(size int, m Measurer) *Cache {
	return &Cache{Size: size, Measurer: m}
}

func (c *Cache) initialize() {
	if c.Size <= 0 {
		c.Size = DefaultCacheSize
	}
	if c.Hash == nil {
		c.Hash = Context.Hash
	}
	// Only errors for non-positive sizes, which are ruled out above.
	c.entries, _ = lru.New[uint64, *Model](c.Size)
}

// Get returns the model for ctx, calculating and storing it on a miss.
// The returned model must not be modified.
func (c *Cache) Get(ctx Context) *Model {
	if c.entries == nil {
		c.initialize()
	}
	key := c.Hash(ctx)
	if model, ok := c.entries.Get(key); ok {
		if model.Context == ctx {
			c.Stats.Hits++
			return model
		}
		c.Stats.Collisions++
	}
	c.Stats.Misses++
	model := Calculate(ctx, c.Measurer)
	c.entries.Add(key, &model)
	return &model
}

// Len returns the number of cached models.
func (c *Cache) Len() int {
	if c.entries == nil {
		return 0
	}
	return c.entries.Len()
}

// Purge drops every cached model, for instance under memory pressure.
func (c *Cache) Purge() {
	if c.entries != nil {
		c.entries.Purge()
	}
}
