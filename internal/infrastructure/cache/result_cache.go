package cache

import (
	"fmt"
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/domain/entity"
	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/domain/repository"
)

// DefaultCapacity is the number of results kept when no capacity is configured
const DefaultCapacity = 128

// ResultCache is an in-process LRU cache of classification results keyed by
// the exact input text. A single mutex guards the LRU list and all counters.
type ResultCache struct {
	mu        sync.Mutex
	lru       *simplelru.LRU[string, entity.SentimentResult]
	capacity  int
	hits      uint64
	misses    uint64
	evictions uint64
}

var _ repository.ResultCache = (*ResultCache)(nil)

// NewResultCache creates a new result cache holding at most capacity entries
func NewResultCache(capacity int) (*ResultCache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("cache capacity must be positive, got %d", capacity)
	}

	c := &ResultCache{capacity: capacity}

	// The callback runs inside Add, which is always called with c.mu held.
	lru, err := simplelru.NewLRU[string, entity.SentimentResult](capacity, func(string, entity.SentimentResult) {
		c.evictions++
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU: %w", err)
	}
	c.lru = lru

	return c, nil
}

// Get returns a copy of the cached result for text and marks it as recently used
func (c *ResultCache) Get(text string) (entity.SentimentResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result, ok := c.lru.Get(text)
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	return result.Clone(), true
}

// Add stores a copy of result under text
func (c *ResultCache) Add(text string, result entity.SentimentResult) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lru.Add(text, result.Clone())
}

// Len returns the number of cached entries
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lru.Len()
}

// Purge drops every entry. Counters are kept; purged entries are not evictions.
func (c *ResultCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	evictions := c.evictions
	c.lru.Purge()
	c.evictions = evictions
}

// Stats returns a snapshot of the cache counters
func (c *ResultCache) Stats() entity.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return entity.CacheStats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Size:      c.lru.Len(),
		Capacity:  c.capacity,
	}
}
