package middle

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true}`))
	})
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		expected   string
	}{
		{
			name:       "remote addr with port",
			remoteAddr: "203.0.113.10:54321",
			expected:   "203.0.113.10",
		},
		{
			name:       "x-forwarded-for single",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.7"},
			expected:   "198.51.100.7",
		},
		{
			name:       "x-forwarded-for chain takes first",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.7, 10.0.0.1"},
			expected:   "198.51.100.7",
		},
		{
			name:       "x-real-ip",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Real-IP": "192.0.2.44"},
			expected:   "192.0.2.44",
		},
		{
			name:       "ipv6 loopback normalized",
			remoteAddr: "[::1]:8080",
			expected:   "127.0.0.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/payments/stripe", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, GetClientIP(req))
		})
	}
}

func TestRateLimiterAllow(t *testing.T) {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     3,
		window:   time.Minute,
	}

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("192.0.2.1"), "request %d should pass", i+1)
	}
	assert.False(t, rl.Allow("192.0.2.1"), "fourth request should be limited")

	// Other IPs are tracked separately
	assert.True(t, rl.Allow("192.0.2.2"))
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     1,
		window:   time.Minute,
	}

	handler := RateLimitMiddleware(rl)(okHandler())

	req := httptest.NewRequest("GET", "/v1/payments/stripe", nil)
	req.RemoteAddr = "192.0.2.9:1000"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	handler := SecurityHeadersMiddleware()(okHandler())

	req := httptest.NewRequest("GET", "/v1/payments/stripe", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Header().Get("Strict-Transport-Security"), "max-age=")
	assert.Equal(t, "default-src 'self'", rec.Header().Get("Content-Security-Policy"))
}

func TestIPWhitelistMiddleware(t *testing.T) {
	handler := IPWhitelistMiddleware()(okHandler())

	t.Run("no whitelist allows all", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/payments/stripe", nil)
		req.RemoteAddr = "203.0.113.10:1000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("whitelisted ip passes", func(t *testing.T) {
		t.Setenv("IP_WHITELIST", "203.0.113.10, 198.51.100.1")
		req := httptest.NewRequest("GET", "/v1/payments/stripe", nil)
		req.RemoteAddr = "203.0.113.10:1000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unlisted ip rejected", func(t *testing.T) {
		t.Setenv("IP_WHITELIST", "198.51.100.1")
		req := httptest.NewRequest("GET", "/v1/payments/stripe", nil)
		req.RemoteAddr = "203.0.113.10:1000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRequestValidationMiddleware(t *testing.T) {
	handler := RequestValidationMiddleware()(okHandler())

	t.Run("json post accepted", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/v1/payments/stripe", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("post without content type rejected", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/v1/payments/stripe", strings.NewReader("{}"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("xml post rejected", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/v1/payments/stripe", strings.NewReader("<a/>"))
		req.Header.Set("Content-Type", "application/xml")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("callback accepts form data", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/v1/callback/stripe", strings.NewReader("a=1"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("get passes without content type", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/payments/stripe", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("oversized body rejected", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/v1/payments/stripe", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		req.ContentLength = 11 * 1024 * 1024
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

func TestRequestLoggingMiddleware(t *testing.T) {
	handler := RequestLoggingMiddleware()(okHandler())

	t.Run("assigns request id on payment endpoints", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/payments/stripe", nil)
		req.RemoteAddr = "203.0.113.10:1000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, req.Header.Get("X-Request-ID"))
	})

	t.Run("keeps caller request id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/payments/stripe", nil)
		req.Header.Set("X-Request-ID", "caller-id")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, "caller-id", req.Header.Get("X-Request-ID"))
	})

	t.Run("skips non payment endpoints", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/health", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, req.Header.Get("X-Request-ID"))
	})
}

func TestExtractConnectorFromURL(t *testing.T) {
	tests := map[string]string{
		"/v1/payments/stripe":        "stripe",
		"/v1/payments/stripe/refund": "stripe",
		"/v1/callback/dummy":         "dummy",
		"/v1/webhooks/stripe":        "stripe",
		"/v1/payments":               "",
		"/health":                    "",
	}

	for path, expected := range tests {
		assert.Equal(t, expected, extractConnectorFromURL(path), "path %s", path)
	}
}

func TestIsPaymentEndpoint(t *testing.T) {
	assert.True(t, isPaymentEndpoint("/v1/payments/stripe"))
	assert.True(t, isPaymentEndpoint("/v1/callback/dummy"))
	assert.True(t, isPaymentEndpoint("/v1/webhooks/stripe"))
	assert.False(t, isPaymentEndpoint("/health"))
	assert.False(t, isPaymentEndpoint("/v1/config"))
}
