package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/activscan/pkg/metrics"
)

// MetricsMiddleware wraps HTTP handlers to record Prometheus metrics.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		durationMs := float64(time.Since(start).Milliseconds())
		statusCodeStr := strconv.Itoa(wrapped.statusCode)

		metrics.RecordHTTPRequest(endpoint, r.Method, statusCodeStr)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, statusCodeStr, durationMs)
	}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("failed to write response: %w", err)
	}
	return n, nil
}
