package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(limit int) (*Limiter, *time.Time) {
	rl := NewLimiter(Config{RequestsPerMinute: limit, CleanupInterval: time.Hour})
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestLimiter_Allow(t *testing.T) {
	rl, now := newTestLimiter(3)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		require.True(t, rl.Allow("1.2.3.4"), "request %d should be allowed", i+1)
	}
	require.False(t, rl.Allow("1.2.3.4"), "4th request should be limited")
	require.True(t, rl.Allow("5.6.7.8"), "other client should be unaffected")

	*now = now.Add(30 * time.Second)
	assert.Equal(t, 30*time.Second, rl.RetryAfter("1.2.3.4"))

	*now = now.Add(31 * time.Second)
	assert.True(t, rl.Allow("1.2.3.4"), "window should have reset")
}

func TestLimiter_Cleanup(t *testing.T) {
	rl, now := newTestLimiter(3)
	defer rl.Stop()

	rl.Allow("a")
	rl.Allow("b")
	*now = now.Add(2 * time.Minute)
	rl.Allow("c")

	rl.cleanup()
	assert.Equal(t, 1, rl.ActiveClients())
}

func TestLimiter_Middleware(t *testing.T) {
	rl, _ := newTestLimiter(1)
	defer rl.Stop()

	key := func(r *http.Request) string { return r.RemoteAddr }
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	tests := []struct {
		name    string
		onLimit func(http.ResponseWriter, *http.Request)
		want    int
	}{
		{"default rejection", nil, http.StatusTooManyRequests},
		{"custom rejection", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) }, http.StatusTeapot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := rl.Middleware(key, tt.onLimit)(ok)
			req := httptest.NewRequest(http.MethodPost, "/login", nil)
			req.RemoteAddr = tt.name

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, http.StatusNoContent, rec.Code, "first request")

			rec = httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, tt.want, rec.Code, "second request")
			assert.Equal(t, "61", rec.Header().Get("Retry-After"))
		})
	}
}
