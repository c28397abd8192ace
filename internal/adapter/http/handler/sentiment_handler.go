package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/usecase"
)

// ServiceName and ServiceVersion are reported by the root endpoint
const (
	ServiceName    = "sentiment-service"
	ServiceVersion = "1.0.0"
)

// SentimentHandler handles sentiment analysis HTTP requests
type SentimentHandler struct {
	sentimentUC usecase.SentimentUsecase
}

// NewSentimentHandler creates a new sentiment handler
func NewSentimentHandler(sentimentUC usecase.SentimentUsecase) *SentimentHandler {
	return &SentimentHandler{sentimentUC: sentimentUC}
}

// Analyze handles POST /api/v1/analyze
func (h *SentimentHandler) Analyze(c *gin.Context) {
	var input usecase.AnalyzeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}

	output, err := h.sentimentUC.Analyze(c.Request.Context(), &input)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// CacheStats handles GET /api/v1/cache/stats
func (h *SentimentHandler) CacheStats(c *gin.Context) {
	respondSuccess(c, http.StatusOK, h.sentimentUC.CacheStats(c.Request.Context()))
}

// PurgeCache handles DELETE /api/v1/cache
func (h *SentimentHandler) PurgeCache(c *gin.Context) {
	respondSuccess(c, http.StatusOK, h.sentimentUC.PurgeCache(c.Request.Context()))
}

// Root handles GET /
func (h *SentimentHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Sentiment Analysis API",
		"service": ServiceName,
		"version": ServiceVersion,
	})
}
