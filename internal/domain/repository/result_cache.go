package repository

import (
	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/domain/entity"
)

// ResultCache defines the interface for the bounded classification result cache.
// Keys are the exact input text; implementations must be safe for concurrent use.
type ResultCache interface {
	// Get returns the stored result and whether the lookup was a hit
	Get(text string) (entity.SentimentResult, bool)

	// Add stores a result, evicting the least recently used entry when full.
	// It reports whether an eviction happened.
	Add(text string, result entity.SentimentResult) bool

	// Len returns the number of cached entries
	Len() int

	// Purge removes every entry
	Purge()

	// Stats returns a snapshot of the cache counters
	Stats() entity.CacheStats
}
