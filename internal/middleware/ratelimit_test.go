// AngelaMos | 2026
// ratelimit_test.go

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librisys/backend/internal/core"
)

func TestRateLimiterWithoutRedis(t *testing.T) {
	rl := NewRateLimiter(nil, RateLimitConfig{
		Limit: PerWindow(1, 1, time.Minute),
	})
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(ip string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/api/books", nil)
		r.RemoteAddr = ip + ":4000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec
	}

	first := send("10.0.0.1")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := send("10.0.0.1")
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Equal(t, core.KindRateLimited, decodeError(t, second).Kind)

	other := send("10.0.0.2")
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestRateLimiterBypass(t *testing.T) {
	rl := NewRateLimiter(nil, RateLimitConfig{
		Limit:      PerWindow(1, 1, time.Minute),
		BypassFunc: func(r *http.Request) bool { return r.URL.Path == "/healthz" },
	})
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for range 3 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestKeyByIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "ratelimit:ip:192.0.2.1", KeyByIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 198.51.100.7")
	assert.Equal(t, "ratelimit:ip:198.51.100.7", KeyByIP(r))
}

func TestPerWindowDefaultsToMinute(t *testing.T) {
	limit := PerWindow(10, 2, 0)
	assert.Equal(t, 10, limit.Rate)
	assert.Equal(t, 2, limit.Burst)
	assert.Equal(t, "1m0s", limit.Period.String())
}
