package usecase

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/domain/entity"
	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/domain/repository"
	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/domain/service"
)

// MemoizedClassifier serves classifications from a bounded cache and falls back
// to the upstream classifier on a miss. Failed lookups are never cached.
type MemoizedClassifier struct {
	upstream service.Classifier
	cache    repository.ResultCache

	// group is nil unless concurrent misses for the same text are coalesced
	group *singleflight.Group
}

// MemoizeOption configures a MemoizedClassifier
type MemoizeOption func(*MemoizedClassifier)

// WithCoalescing makes concurrent misses for identical text share one upstream call
func WithCoalescing() MemoizeOption {
	return func(m *MemoizedClassifier) {
		m.group = &singleflight.Group{}
	}
}

// NewMemoizedClassifier creates a new memoized classifier
func NewMemoizedClassifier(upstream service.Classifier, cache repository.ResultCache, opts ...MemoizeOption) *MemoizedClassifier {
	m := &MemoizedClassifier{
		upstream: upstream,
		cache:    cache,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ClassifyCached returns the labels for text and whether they came from the cache
func (m *MemoizedClassifier) ClassifyCached(ctx context.Context, text string) (entity.SentimentResult, bool, error) {
	if result, ok := m.cache.Get(text); ok {
		return result, true, nil
	}

	if m.group == nil {
		result, err := m.fetch(ctx, text)
		if err != nil {
			return nil, false, err
		}
		return result, false, nil
	}

	// The shared call outlives any single caller; each caller still stops
	// waiting when its own context is done.
	shared := context.WithoutCancel(ctx)
	ch := m.group.DoChan(text, func() (interface{}, error) {
		return m.fetch(shared, text)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.(entity.SentimentResult).Clone(), false, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, false, fmt.Errorf("%w: %w", service.ErrUpstreamTimeout, ctx.Err())
		}
		return nil, false, ctx.Err()
	}
}

// Purge drops every cached result
func (m *MemoizedClassifier) Purge() {
	m.cache.Purge()
}

// Stats returns a snapshot of the cache counters
func (m *MemoizedClassifier) Stats() entity.CacheStats {
	return m.cache.Stats()
}

func (m *MemoizedClassifier) fetch(ctx context.Context, text string) (entity.SentimentResult, error) {
	result, err := m.upstream.Classify(ctx, text)
	if err != nil {
		return nil, err
	}
	m.cache.Add(text, result)
	return result, nil
}
