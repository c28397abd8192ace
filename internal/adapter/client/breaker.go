package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/domain/entity"
	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/domain/service"
)

// BreakerConfig configures the upstream circuit breaker
type BreakerConfig struct {
	Name             string
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// BreakerClassifier guards a Classifier with a circuit breaker. Only failures
// that indicate the upstream itself is unhealthy trip the breaker.
type BreakerClassifier struct {
	next    service.Classifier
	breaker *gobreaker.CircuitBreaker
}

var _ service.Classifier = (*BreakerClassifier)(nil)

// NewBreakerClassifier creates a new circuit-breaking classifier
func NewBreakerClassifier(next service.Classifier, cfg BreakerConfig, logger *zap.Logger) *BreakerClassifier {
	if cfg.Name == "" {
		cfg.Name = "upstream"
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: isBreakerSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger != nil {
				logger.Warn("Circuit breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			}
		},
	}

	return &BreakerClassifier{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// Classify classifies text unless the breaker is open
func (b *BreakerClassifier) Classify(ctx context.Context, text string) (entity.SentimentResult, error) {
	v, err := b.breaker.Execute(func() (interface{}, error) {
		return b.next.Classify(ctx, text)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", service.ErrUpstreamUnreachable, err)
		}
		return nil, err
	}
	return v.(entity.SentimentResult), nil
}

// State returns the breaker state: "closed", "half-open" or "open"
func (b *BreakerClassifier) State() string {
	return b.breaker.State().String()
}

// isBreakerSuccess treats client-side and model-level failures as healthy
// responses from a reachable upstream.
func isBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, service.ErrUpstreamTimeout) || errors.Is(err, service.ErrUpstreamUnreachable) {
		return false
	}
	var httpErr *service.UpstreamHTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode < 500 && httpErr.StatusCode != 429
	}
	return true
}
