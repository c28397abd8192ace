package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/adapter/http/handler"
	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/adapter/http/middleware"
	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/infrastructure/metrics"
	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/usecase"
)

// Setup creates and configures the Gin router.
// breaker may be nil when the upstream circuit breaker is disabled.
func Setup(sentimentUC usecase.SentimentUsecase, breaker handler.BreakerState, reg *prometheus.Registry, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())
	router.Use(middleware.Metrics(metrics.NewHTTPMetrics(reg)))

	// Health endpoints
	healthHandler := handler.NewHealthHandler(sentimentUC, breaker)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(metrics.Handler(reg)))

	sentimentHandler := handler.NewSentimentHandler(sentimentUC)
	router.GET("/", sentimentHandler.Root)
	router.POST("/analyze", sentimentHandler.Analyze)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/analyze", sentimentHandler.Analyze)
		v1.GET("/cache/stats", sentimentHandler.CacheStats)
		v1.DELETE("/cache", sentimentHandler.PurgeCache)
	}

	return router
}
