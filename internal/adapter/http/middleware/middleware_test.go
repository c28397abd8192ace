package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/adapter/http/handler"
	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/infrastructure/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(router *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, http.NoBody)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	t.Run("generates new request ID when not provided", func(t *testing.T) {
		w := serve(router, "GET", "/test", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Body.String())
		assert.Equal(t, w.Body.String(), w.Header().Get("X-Request-ID"))
	})

	t.Run("uses provided request ID", func(t *testing.T) {
		w := serve(router, "GET", "/test", http.Header{"X-Request-Id": {"analyze-req-42"}})

		assert.Equal(t, "analyze-req-42", w.Body.String())
		assert.Equal(t, "analyze-req-42", w.Header().Get("X-Request-ID"))
	})
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		expectedLevel zapcore.Level
	}{
		{name: "success logged as info", status: http.StatusOK, expectedLevel: zapcore.InfoLevel},
		{name: "4xx logged as warning", status: http.StatusBadRequest, expectedLevel: zapcore.WarnLevel},
		{name: "5xx logged as error", status: http.StatusGatewayTimeout, expectedLevel: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)

			router := gin.New()
			router.Use(RequestID())
			router.Use(Logger(zap.New(core)))
			router.POST("/api/v1/analyze", func(c *gin.Context) {
				c.Status(tt.status)
			})

			w := serve(router, "POST", "/api/v1/analyze", nil)
			assert.Equal(t, tt.status, w.Code)

			entries := logs.AllUntimed()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.expectedLevel, entries[0].Level)

			fields := entries[0].ContextMap()
			assert.Equal(t, "/api/v1/analyze", fields["path"])
			assert.Equal(t, int64(tt.status), fields["status"])
			assert.NotEmpty(t, fields["request_id"])
		})
	}
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	logger := zap.New(core)

	t.Run("recovers from panic", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID())
		router.Use(Recovery(logger))
		router.GET("/test", func(c *gin.Context) {
			panic("test panic")
		})

		w := serve(router, "GET", "/test", http.Header{"X-Request-Id": {"panic-request"}})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, 1, logs.FilterMessage("Panic recovered").Len())

		var response handler.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.False(t, response.Success)
		require.NotNil(t, response.Error)
		assert.Equal(t, "INTERNAL_ERROR", response.Error.Code)
		require.NotNil(t, response.Meta)
		assert.Equal(t, "panic-request", response.Meta.RequestID)
		assert.NotEmpty(t, response.Meta.Timestamp)
	})

	t.Run("passes through when no panic", func(t *testing.T) {
		router := gin.New()
		router.Use(Recovery(logger))
		router.GET("/test", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		w := serve(router, "GET", "/test", nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(CORS())
	router.POST("/api/v1/analyze", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	t.Run("sets CORS headers", func(t *testing.T) {
		w := serve(router, "POST", "/api/v1/analyze", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
	})

	t.Run("handles OPTIONS preflight", func(t *testing.T) {
		w := serve(router, "OPTIONS", "/api/v1/analyze", nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewHTTPMetrics(reg)

	router := gin.New()
	router.Use(Metrics(m))
	router.POST("/api/v1/analyze", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/metrics", func(c *gin.Context) {
		c.String(http.StatusOK, "metrics")
	})

	serve(router, "POST", "/api/v1/analyze", nil)
	serve(router, "POST", "/api/v1/analyze", nil)
	serve(router, "GET", "/metrics", nil)
	serve(router, "GET", "/missing", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("POST", "/api/v1/analyze", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlightGauge))
}

func TestMetrics_CountsPanickedRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewHTTPMetrics(reg)

	router := gin.New()
	router.Use(Recovery(zap.NewNop()))
	router.Use(Metrics(m))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := serve(router, "GET", "/panic", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/panic", "500")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlightGauge))
}
