package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func hit(h http.Handler, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_AllowsBurstThenRefills(t *testing.T) {
	rl := NewRateLimiter(3, 300*time.Millisecond)
	defer rl.Stop()

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))

	assert.True(t, rl.Allow("10.0.0.2"), "keys are independent")

	time.Sleep(150 * time.Millisecond)
	assert.True(t, rl.Allow("10.0.0.1"), "one token refills every window/limit")
}

func TestRateLimitMiddleware_Rejects(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	defer limiter.Stop()
	handler := RateLimitMiddleware(limiter)(okHandler())

	for i := 0; i < 2; i++ {
		rec := hit(handler, "127.0.0.1:1234")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := hit(handler, "127.0.0.1:5678")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "ports of one host share a bucket")
	assert.Contains(t, rec.Body.String(), "Rate limit exceeded")
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, hit(handler, "192.168.1.1:1234").Code)
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)
	rl.Stop()
	rl.Stop()
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		name       string
		setupReq   func(*http.Request)
		expectedIP string
	}{
		{
			name: "first X-Forwarded-For hop is the client",
			setupReq: func(r *http.Request) {
				r.Header.Set("X-Forwarded-For", "203.0.113.1, 198.51.100.2")
			},
			expectedIP: "203.0.113.1",
		},
		{
			name: "X-Real-IP header",
			setupReq: func(r *http.Request) {
				r.Header.Set("X-Real-IP", "203.0.113.9")
			},
			expectedIP: "203.0.113.9",
		},
		{
			name:       "RemoteAddr without port",
			setupReq:   func(r *http.Request) { r.RemoteAddr = "192.168.1.1:1234" },
			expectedIP: "192.168.1.1",
		},
		{
			name:       "RemoteAddr that has no port",
			setupReq:   func(r *http.Request) { r.RemoteAddr = "unix-socket" },
			expectedIP: "unix-socket",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			tt.setupReq(req)

			assert.Equal(t, tt.expectedIP, extractIP(req))
		})
	}
}
