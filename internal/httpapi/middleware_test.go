package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jalapeno/internal/config"
	"jalapeno/internal/ratelimit"
)

func TestRequestID_GeneratesWhenAbsentAndPropagatesWhenPresent(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r)
	})
	handler := RequestID(next)

	r := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-Id"))

	r2 := httptest.NewRequest("GET", "/health", nil)
	r2.Header.Set("X-Request-Id", "client-supplied-id")
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, r2)
	assert.Equal(t, "client-supplied-id", rec2.Header().Get("X-Request-Id"))
}

func TestRecovery_TurnsPanicInto500(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	handler := Recovery(panicking)

	r := httptest.NewRequest("GET", "/whatever", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCORS_ReflectsAllowedOriginAndShortCircuitsPreflight(t *testing.T) {
	cfg := config.CORSConfig{
		Enabled:        true,
		AllowedOrigins: []string{"https://example.com"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"*"},
		MaxAge:         600,
	}
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	handler := CORS(cfg)(next)

	r := httptest.NewRequest("OPTIONS", "/graphs", nil)
	r.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, called, "preflight must not reach the wrapped handler")
}

func TestCORS_PassesThroughNonPreflightRequests(t *testing.T) {
	cfg := config.CORSConfig{Enabled: true, AllowedOrigins: []string{"*"}, AllowedMethods: []string{"GET"}, AllowedHeaders: []string{"*"}}
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true; w.WriteHeader(http.StatusOK) })
	handler := CORS(cfg)(next)

	r := httptest.NewRequest("GET", "/graphs", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.True(t, called)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit_AllowsUnderLimitAndSetsHeader(t *testing.T) {
	limiter, err := ratelimit.New(&ratelimit.Config{Requests: 10, Backend: "memory"})
	require.NoError(t, err)
	defer limiter.Close()
	limits := ratelimit.NewRouteLimits(&ratelimit.Config{Requests: 10})

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	handler := RateLimit(limiter, limits, "GET /health")(next)

	r := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.True(t, called)
	assert.Equal(t, "10", rec.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimit_RejectsOverLimitWith429(t *testing.T) {
	limiter, err := ratelimit.New(&ratelimit.Config{Requests: 1, Backend: "memory"})
	require.NoError(t, err)
	defer limiter.Close()
	limits := ratelimit.NewRouteLimits(&ratelimit.Config{Requests: 1})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	handler := RateLimit(limiter, limits, "GET /health")(next)

	r := httptest.NewRequest("GET", "/health", nil)

	rec1 := httptest.NewRecorder()
	handler.ServeHTTP(rec1, r)
	assert.Equal(t, http.StatusOK, rec1.Code)

	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, r)
	assert.Equal(t, http.StatusTooManyRequests, rec2.Code)
	assert.NotEmpty(t, rec2.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimit_NilLimiterAlwaysAllows(t *testing.T) {
	limits := ratelimit.NewRouteLimits(nil)
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	handler := RateLimit(nil, limits, "GET /health")(next)

	r := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}
