package usecase

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/domain/entity"
	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/domain/service"
)

// Error definitions for sentiment usecase
var (
	ErrInvalidRequest = errors.New("invalid request")
)

const logExcerptLen = 50

// AnalyzeInput represents the input for a sentiment analysis
type AnalyzeInput struct {
	Text string `json:"text" binding:"required"`
}

// LabelOutput represents one label of an analysis
type LabelOutput struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// AnalyzeOutput represents the output of a sentiment analysis
type AnalyzeOutput struct {
	Text      string        `json:"text"`
	Labels    []LabelOutput `json:"labels"`
	FromCache bool          `json:"from_cache"`
	TopLabel  string        `json:"top_label"`
	TopScore  float64       `json:"top_score"`
}

// CacheStatsOutput represents the result cache counters
type CacheStatsOutput struct {
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	Evictions uint64  `json:"evictions"`
	Size      int     `json:"size"`
	Capacity  int     `json:"capacity"`
	HitRate   float64 `json:"hit_rate"`
}

// SentimentUsecase defines the interface for sentiment business logic
type SentimentUsecase interface {
	Analyze(ctx context.Context, input *AnalyzeInput) (*AnalyzeOutput, error)
	CacheStats(ctx context.Context) *CacheStatsOutput
	PurgeCache(ctx context.Context) *CacheStatsOutput
}

// CachedClassifier is a classifier that reports cache provenance
type CachedClassifier interface {
	ClassifyCached(ctx context.Context, text string) (entity.SentimentResult, bool, error)
	Stats() entity.CacheStats
	Purge()
}

type sentimentUsecase struct {
	classifier CachedClassifier
	logger     *zap.Logger
}

// NewSentimentUsecase creates a new sentiment usecase
func NewSentimentUsecase(classifier CachedClassifier, logger *zap.Logger) SentimentUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &sentimentUsecase{
		classifier: classifier,
		logger:     logger,
	}
}

func (u *sentimentUsecase) Analyze(ctx context.Context, input *AnalyzeInput) (*AnalyzeOutput, error) {
	if input == nil || input.Text == "" {
		return nil, ErrInvalidRequest
	}

	textField := zap.String("text", logExcerpt(input.Text))
	u.logger.Info("Analyzing sentiment", textField)

	labels, fromCache, err := u.classifier.ClassifyCached(ctx, input.Text)
	if err != nil {
		u.logger.Error("Sentiment analysis failed",
			textField,
			zap.String("kind", service.ErrorKind(err)),
			zap.Error(err),
		)
		return nil, err
	}

	top, ok := labels.Top()
	if !ok {
		return nil, service.ErrUpstreamEmptyResult
	}

	u.logger.Info("Sentiment analysis completed",
		textField,
		zap.Bool("from_cache", fromCache),
		zap.String("top_label", top.Label),
		zap.Float64("top_score", top.Score),
	)

	return toAnalyzeOutput(input.Text, labels, fromCache), nil
}

func (u *sentimentUsecase) CacheStats(_ context.Context) *CacheStatsOutput {
	stats := u.classifier.Stats()
	return &CacheStatsOutput{
		Hits:      stats.Hits,
		Misses:    stats.Misses,
		Evictions: stats.Evictions,
		Size:      stats.Size,
		Capacity:  stats.Capacity,
		HitRate:   stats.HitRate(),
	}
}

func (u *sentimentUsecase) PurgeCache(ctx context.Context) *CacheStatsOutput {
	before := u.classifier.Stats().Size
	u.classifier.Purge()
	u.logger.Info("Result cache purged", zap.Int("entries", before))
	return u.CacheStats(ctx)
}

func toAnalyzeOutput(text string, labels entity.SentimentResult, fromCache bool) *AnalyzeOutput {
	outputs := make([]LabelOutput, len(labels))
	for i, l := range labels {
		outputs[i] = LabelOutput{Label: l.Label, Score: l.Score}
	}

	top, _ := labels.Top()
	return &AnalyzeOutput{
		Text:      text,
		Labels:    outputs,
		FromCache: fromCache,
		TopLabel:  top.Label,
		TopScore:  top.Score,
	}
}

func logExcerpt(text string) string {
	if utf8.RuneCountInString(text) <= logExcerptLen {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:logExcerptLen])) + "..."
}
