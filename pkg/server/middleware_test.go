package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware(t *testing.T) {
	_, handler := testServer(t, nil)

	t.Run("generates when absent", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		id := rec.Header().Get("X-Request-Id")
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	})

	t.Run("echoes valid ids", func(t *testing.T) {
		supplied := uuid.New().String()
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		req.Header.Set("X-Request-Id", supplied)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, supplied, rec.Header().Get("X-Request-Id"))
	})

	t.Run("replaces malformed ids", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		req.Header.Set("X-Request-Id", "not-a-uuid")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		id := rec.Header().Get("X-Request-Id")
		assert.NotEqual(t, "not-a-uuid", id)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	cfg := NewConfig()
	cfg.RateLimit = 1
	cfg.RateLimitBurst = 1
	s := NewServer(cfg, prometheus.NewRegistry(), nil)
	handler := s.setupRoutes()

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.Equal(t, ErrCodeRateLimitExceeded, resp.Code)
	assert.True(t, resp.Retryable)
	assert.NotEmpty(t, resp.RequestID)
}

func TestRateLimitSkipsSystemEndpoints(t *testing.T) {
	cfg := NewConfig()
	cfg.RateLimit = 1
	cfg.RateLimitBurst = 1
	s := NewServer(cfg, prometheus.NewRegistry(), nil)
	handler := s.setupRoutes()

	// Probes are never rate limited.
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestPanicRecoveryMiddleware(t *testing.T) {
	s := NewServer(NewConfig(), prometheus.NewRegistry(), nil)

	wrapped := s.withMiddleware(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	wrapped(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ErrCodeInternalError, resp.Code)
}
