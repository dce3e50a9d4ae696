package trace

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xpdash/internal/log"
)

func TestMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Component: log.ComponentHTTP, Output: &buf})
	m := NewMiddleware(logger, func(*http.Request) string { return "203.0.113.1" })

	var seenID string
	var seenLogger *log.Logger
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = GetRequestID(r.Context())
		seenLogger = log.FromContext(r.Context())
		http.Error(w, "nope", http.StatusBadGateway)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ui/charts/projects?w=10", nil))

	assert.Regexp(t, `^req_.{16}$`, seenID)
	assert.Equal(t, seenID, rec.Header().Get(RequestIDHeader))
	require.NotNil(t, seenLogger, "request logger not in context")
	assert.Equal(t, log.ComponentTrace, seenLogger.Component())

	out := buf.String()
	for _, want := range []string{"level=ERROR", "status_code=502", "client_ip=203.0.113.1", "request_id=" + seenID, `query="w=10"`, "component=trace"} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, int64(1), m.Total())
}

func TestGetRequestID_Missing(t *testing.T) {
	assert.Empty(t, GetRequestID(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}
