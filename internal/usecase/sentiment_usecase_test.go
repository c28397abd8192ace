package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/domain/entity"
	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/domain/service"
)

// MockCachedClassifier is a mock implementation of CachedClassifier
type MockCachedClassifier struct {
	mock.Mock
}

func (m *MockCachedClassifier) ClassifyCached(ctx context.Context, text string) (entity.SentimentResult, bool, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(entity.SentimentResult), args.Bool(1), args.Error(2)
}

func (m *MockCachedClassifier) Stats() entity.CacheStats {
	args := m.Called()
	return args.Get(0).(entity.CacheStats)
}

func (m *MockCachedClassifier) Purge() {
	m.Called()
}

func TestSentimentUsecase_Analyze(t *testing.T) {
	t.Run("first call is fresh, repeat is served from cache", func(t *testing.T) {
		upstream := new(MockClassifier)
		upstream.On("Classify", mock.Anything, "I love this!").Return(lovelyResult, nil).Once()

		uc := NewSentimentUsecase(NewMemoizedClassifier(upstream, newResultCache(t, 128)), zap.NewNop())

		first, err := uc.Analyze(context.Background(), &AnalyzeInput{Text: "I love this!"})
		require.NoError(t, err)
		assert.Equal(t, "I love this!", first.Text)
		assert.Equal(t, "positive", first.TopLabel)
		assert.Equal(t, 0.95, first.TopScore)
		assert.False(t, first.FromCache)
		require.Len(t, first.Labels, 3)
		assert.Equal(t, LabelOutput{Label: "negative", Score: 0.02}, first.Labels[2])

		second, err := uc.Analyze(context.Background(), &AnalyzeInput{Text: "I love this!"})
		require.NoError(t, err)
		assert.True(t, second.FromCache)
		assert.Equal(t, first.Labels, second.Labels)
		assert.Equal(t, first.TopLabel, second.TopLabel)
	})

	t.Run("empty text is rejected", func(t *testing.T) {
		mockClassifier := new(MockCachedClassifier)
		uc := NewSentimentUsecase(mockClassifier, nil)

		_, err := uc.Analyze(context.Background(), &AnalyzeInput{Text: ""})
		assert.ErrorIs(t, err, ErrInvalidRequest)

		_, err = uc.Analyze(context.Background(), nil)
		assert.ErrorIs(t, err, ErrInvalidRequest)

		mockClassifier.AssertNotCalled(t, "ClassifyCached", mock.Anything, mock.Anything)
	})

	t.Run("upstream error is returned as is", func(t *testing.T) {
		mockClassifier := new(MockCachedClassifier)
		mockClassifier.On("ClassifyCached", mock.Anything, "text").Return(nil, false, service.ErrUpstreamUnreachable)

		uc := NewSentimentUsecase(mockClassifier, zap.NewNop())
		output, err := uc.Analyze(context.Background(), &AnalyzeInput{Text: "text"})

		assert.Nil(t, output)
		assert.ErrorIs(t, err, service.ErrUpstreamUnreachable)
	})

	t.Run("empty labels are an upstream error", func(t *testing.T) {
		mockClassifier := new(MockCachedClassifier)
		mockClassifier.On("ClassifyCached", mock.Anything, "text").Return(entity.SentimentResult{}, false, nil)

		uc := NewSentimentUsecase(mockClassifier, zap.NewNop())
		_, err := uc.Analyze(context.Background(), &AnalyzeInput{Text: "text"})

		assert.ErrorIs(t, err, service.ErrUpstreamEmptyResult)
	})
}

func TestSentimentUsecase_CacheStats(t *testing.T) {
	mockClassifier := new(MockCachedClassifier)
	mockClassifier.On("Stats").Return(entity.CacheStats{Hits: 3, Misses: 1, Size: 1, Capacity: 128})

	uc := NewSentimentUsecase(mockClassifier, zap.NewNop())
	stats := uc.CacheStats(context.Background())

	assert.Equal(t, uint64(3), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 128, stats.Capacity)
	assert.Equal(t, 0.75, stats.HitRate)
}

func TestLogExcerpt(t *testing.T) {
	assert.Equal(t, "short", logExcerpt("short"))

	long := strings.Repeat("я", 80)
	got := logExcerpt(long)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, strings.Repeat("я", 50)+"...", got)
}

func TestSentimentUsecase_PurgeCache(t *testing.T) {
	upstream := new(MockClassifier)
	upstream.On("Classify", mock.Anything, "I love this!").Return(lovelyResult, nil)

	uc := NewSentimentUsecase(NewMemoizedClassifier(upstream, newResultCache(t, 128)), zap.NewNop())

	_, err := uc.Analyze(context.Background(), &AnalyzeInput{Text: "I love this!"})
	require.NoError(t, err)
	require.Equal(t, 1, uc.CacheStats(context.Background()).Size)

	stats := uc.PurgeCache(context.Background())
	assert.Equal(t, 0, stats.Size)
	assert.Equal(t, 128, stats.Capacity)
	assert.Equal(t, uint64(1), stats.Misses)

	output, err := uc.Analyze(context.Background(), &AnalyzeInput{Text: "I love this!"})
	require.NoError(t, err)
	assert.False(t, output.FromCache)
	upstream.AssertNumberOfCalls(t, "Classify", 2)
}
