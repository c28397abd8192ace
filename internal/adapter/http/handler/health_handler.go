package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/usecase"
)

// BreakerState reports the state of the upstream circuit breaker
type BreakerState interface {
	State() string
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	sentimentUC usecase.SentimentUsecase
	breaker     BreakerState
}

// NewHealthHandler creates a new health handler.
// breaker may be nil when the upstream circuit breaker is disabled.
func NewHealthHandler(sentimentUC usecase.SentimentUsecase, breaker BreakerState) *HealthHandler {
	return &HealthHandler{
		sentimentUC: sentimentUC,
		breaker:     breaker,
	}
}

// HealthStatus represents the health check response
type HealthStatus struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

func (h *HealthHandler) upstreamState() string {
	if h.breaker == nil {
		return "not configured"
	}
	return h.breaker.State()
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	components := make(map[string]string)

	if h.sentimentUC != nil {
		stats := h.sentimentUC.CacheStats(c.Request.Context())
		components["cache"] = fmt.Sprintf("ok (%d/%d)", stats.Size, stats.Capacity)
	} else {
		components["cache"] = "not configured"
	}

	// An open breaker means the model is failing, the service itself is still alive
	components["upstream"] = h.upstreamState()

	c.JSON(http.StatusOK, HealthStatus{
		Status:     "healthy",
		Components: components,
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.upstreamState() == "open" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": "upstream circuit open"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
