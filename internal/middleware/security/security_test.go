package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadersMiddleware(t *testing.T) {
	h := NewHeadersMiddleware(DefaultHeadersConfig()).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "https://unpkg.com")
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.TLS = &tls.ConnectionState{}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "max-age=31536000; includeSubDomains", rec.Header().Get("Strict-Transport-Security"))
}

func TestExtractClientIP(t *testing.T) {
	d := NewDetector()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:5555"
	req.Header.Set("X-Forwarded-For", "198.51.100.1")
	assert.Equal(t, "203.0.113.9", d.ExtractClientIP(req), "untrusted peer cannot spoof")

	req.RemoteAddr = "10.1.2.3:5555"
	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.1.2.3")
	assert.Equal(t, "198.51.100.1", d.ExtractClientIP(req))

	req.Header.Del("X-Forwarded-For")
	req.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", d.ExtractClientIP(req))
}

func TestAddTrustedProxy(t *testing.T) {
	d := NewDetector()
	require.Error(t, d.AddTrustedProxy("nope"))
	require.NoError(t, d.AddTrustedProxy("203.0.113.0/24"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:5555"
	req.Header.Set("X-Forwarded-For", "198.51.100.1")
	assert.Equal(t, "198.51.100.1", d.ExtractClientIP(req))
}

func TestDetectSuspiciousRequest(t *testing.T) {
	d := NewDetector()
	assert.False(t, d.DetectSuspiciousRequest(httptest.NewRequest(http.MethodGet, "/api/accounts/", nil)))
	assert.True(t, d.DetectSuspiciousRequest(httptest.NewRequest(http.MethodGet, "/api/.env", nil)))

	req := httptest.NewRequest(http.MethodGet, "/api/accounts/", nil)
	req.Header.Set("User-Agent", "sqlmap/1.7")
	assert.True(t, d.DetectSuspiciousRequest(req))
	assert.Equal(t, int64(2), d.GetMetrics().SuspiciousRequests)
}
