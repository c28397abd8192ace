package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/adapter/client"
	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/adapter/http/handler"
	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/adapter/http/router"
	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/domain/service"
	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/infrastructure/cache"
	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/infrastructure/config"
	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/infrastructure/logger"
	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/infrastructure/metrics"
	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	reg := metrics.NewRegistry()

	// Upstream classifier: client -> metrics -> optional circuit breaker
	var classifier service.Classifier = client.NewInstrumentedClassifier(
		client.NewInferenceClient(cfg.Upstream.URL, cfg.Upstream.Token, cfg.Upstream.Timeout()),
		metrics.NewUpstreamMetrics(reg),
	)

	var breaker handler.BreakerState
	if cfg.Upstream.Breaker.Enabled {
		b := client.NewBreakerClassifier(classifier, client.BreakerConfig{
			FailureThreshold: cfg.Upstream.Breaker.FailureThreshold,
			OpenTimeout:      cfg.Upstream.Breaker.OpenTimeout,
		}, log)
		classifier = b
		breaker = b
		log.Info("Upstream circuit breaker enabled",
			zap.Uint32("failure_threshold", cfg.Upstream.Breaker.FailureThreshold),
			zap.Duration("open_timeout", cfg.Upstream.Breaker.OpenTimeout),
		)
	}

	// Result cache
	resultCache, err := cache.NewResultCache(cfg.Cache.Capacity)
	if err != nil {
		return fmt.Errorf("failed to create result cache: %w", err)
	}

	var opts []usecase.MemoizeOption
	if cfg.Cache.Coalesce {
		opts = append(opts, usecase.WithCoalescing())
	}
	memoized := usecase.NewMemoizedClassifier(classifier, resultCache, opts...)
	metrics.RegisterCacheMetrics(reg, memoized.Stats)

	log.Info("Sentiment classifier ready",
		zap.String("upstream_url", cfg.Upstream.URL),
		zap.Bool("token_configured", cfg.Upstream.Token != ""),
		zap.Duration("timeout", cfg.Upstream.Timeout()),
		zap.Int("cache_capacity", cfg.Cache.Capacity),
		zap.Bool("coalesce", cfg.Cache.Coalesce),
	)

	sentimentUC := usecase.NewSentimentUsecase(memoized, log)

	// Setup router
	r := router.Setup(sentimentUC, breaker, reg, log)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Upstream.Timeout() + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("Starting server", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	stats := memoized.Stats()
	log.Info("Server exited",
		zap.Uint64("cache_hits", stats.Hits),
		zap.Uint64("cache_misses", stats.Misses),
	)
	return nil
}
