package middle

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/VietOpenCPS/payment/infra/logger"
)

// responseWriter wraps http.ResponseWriter to capture response data
type responseWriter struct {
	http.ResponseWriter
	body       *bytes.Buffer
	statusCode int
	startTime  time.Time
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		body:           &bytes.Buffer{},
		statusCode:     http.StatusOK,
		startTime:      time.Now(),
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

// RequestLoggingMiddleware logs every payment API request with its
// connector, status and latency. Bodies are never logged; they may carry
// card data.
func RequestLoggingMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isPaymentEndpoint(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.New().String()
				r.Header.Set("X-Request-ID", requestID)
			}

			connectorName := extractConnectorFromURL(r.URL.Path)

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			entry := logger.WithContext(logger.LogContext{
				Connector: connectorName,
				RequestID: requestID,
				Fields: map[string]any{
					"method":        r.Method,
					"path":          r.URL.Path,
					"status":        rw.statusCode,
					"client_ip":     GetClientIP(r),
					"processing_ms": time.Since(rw.startTime).Milliseconds(),
				},
			})

			if rw.statusCode >= 500 {
				entry.Error("payment request failed", nil)
			} else {
				entry.Info("payment request")
			}
		})
	}
}

// isPaymentEndpoint checks if the URL path is a payment-related endpoint
func isPaymentEndpoint(path string) bool {
	paymentPaths := []string{
		"/v1/payments",
		"/v1/callback",
		"/v1/webhooks",
	}

	for _, paymentPath := range paymentPaths {
		if strings.HasPrefix(path, paymentPath) {
			return true
		}
	}

	return false
}

// extractConnectorFromURL extracts the connector name from the URL path.
// URL patterns: /v1/payments/{connector}, /v1/callback/{connector},
// /v1/webhooks/{connector}.
func extractConnectorFromURL(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")

	if len(segments) >= 3 {
		switch segments[1] {
		case "payments", "callback", "webhooks":
			return segments[2]
		}
	}

	return ""
}
