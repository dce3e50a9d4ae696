package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeadersMiddleware(t *testing.T) {
	h := NewHeadersMiddleware(DefaultHeadersConfig()).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	csp := rec.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "script-src 'self'")
	assert.NotContains(t, csp, "unsafe-inline")
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"), "HSTS must not be sent over plain HTTP")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.TLS = &tls.ConnectionState{}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "max-age=31536000; includeSubDomains", rec.Header().Get("Strict-Transport-Security"))
}

func TestNoStore(t *testing.T) {
	rec := httptest.NewRecorder()
	NoStore(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "no-store, private", rec.Header().Get("Cache-Control"))
}

func TestExtractClientIP(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{"direct public", "203.0.113.5:1234", "", "", "203.0.113.5"},
		{"spoofed header from public", "203.0.113.5:1234", "1.2.3.4", "", "203.0.113.5"},
		{"proxy with xff", "10.0.0.2:80", "198.51.100.7, 10.0.0.2", "", "198.51.100.7"},
		{"proxy with real ip", "127.0.0.1:80", "", "198.51.100.8", "198.51.100.8"},
		{"proxy with garbage", "127.0.0.1:80", "nope", "", "127.0.0.1"},
		{"no port", "203.0.113.9", "", "", "203.0.113.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			assert.Equal(t, tt.want, d.ExtractClientIP(r))
		})
	}
}

func TestDetectSuspiciousRequest(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		method, target string
		want           bool
	}{
		{http.MethodGet, "/", false},
		{http.MethodGet, "/ui/charts/projects?w=800&h=400", false},
		{http.MethodGet, "/.env", true},
		{http.MethodGet, "/static/../../etc/passwd", true},
		{http.MethodGet, "/?q=%3Cscript%3E", false},
		{"TRACE", "/", true},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(tt.method, tt.target, nil)
		assert.Equal(t, tt.want, d.DetectSuspiciousRequest(r), "%s %s", tt.method, tt.target)
	}
	assert.Equal(t, int64(3), d.SuspiciousCount())
}

func TestAddTrustedProxy_Invalid(t *testing.T) {
	assert.Error(t, NewDetector().AddTrustedProxy("not-a-cidr"))
}
