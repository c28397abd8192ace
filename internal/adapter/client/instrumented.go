package client

import (
	"context"
	"time"

	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/domain/entity"
	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/domain/service"
	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/infrastructure/metrics"
)

// InstrumentedClassifier records latency and outcome of every upstream call
type InstrumentedClassifier struct {
	next    service.Classifier
	metrics *metrics.UpstreamMetrics
}

var _ service.Classifier = (*InstrumentedClassifier)(nil)

// NewInstrumentedClassifier creates a new instrumented classifier
func NewInstrumentedClassifier(next service.Classifier, m *metrics.UpstreamMetrics) *InstrumentedClassifier {
	return &InstrumentedClassifier{next: next, metrics: m}
}

// Classify delegates to the wrapped classifier and records the call
func (c *InstrumentedClassifier) Classify(ctx context.Context, text string) (entity.SentimentResult, error) {
	start := time.Now()
	result, err := c.next.Classify(ctx, text)
	c.metrics.Observe(service.ErrorKind(err), time.Since(start).Seconds())
	return result, err
}
