package service

import (
	"context"

	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/domain/entity"
)

// Classifier defines the interface for sentiment classification
type Classifier interface {
	// Classify returns the labels for text ordered by descending score.
	// Failures are reported with the upstream error taxonomy in errors.go.
	Classify(ctx context.Context, text string) (entity.SentimentResult, error)
}
