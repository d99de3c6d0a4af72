package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/irieemon/design-matrix-app-sub016/internal/metrics"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Metrics returns a middleware that records Prometheus metrics.
func Metrics() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			metrics.ActiveConnections.Inc()
			defer metrics.ActiveConnections.Dec()

			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			path := normalizePath(r.URL.Path)
			metrics.RecordRequest(r.Method, path, rw.statusCode, duration)
		})
	}
}

// normalizePath normalizes the URL path for metrics labels.
// This prevents high cardinality from dynamic path segments.
func normalizePath(path string) string {
	switch {
	case path == "/health" || path == "/ready" || path == "/metrics":
		return path
	case path == "/api/v1/ideas":
		return path
	case strings.HasPrefix(path, "/api/v1/sessions/"):
		rest := strings.TrimPrefix(path, "/api/v1/sessions/")
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			return "/api/v1/sessions/{id}" + rest[i:]
		}
		return "/api/v1/sessions/{id}"
	case strings.HasPrefix(path, "/api/v1/limits/"):
		return "/api/v1/limits/{participant}"
	case strings.HasPrefix(path, "/api/v1/admin/limits/"):
		return "/api/v1/admin/limits/{participant}/reset"
	case strings.HasPrefix(path, "/api/v1/admin/sessions/"):
		return "/api/v1/admin/sessions/{id}"
	default:
		return "/other"
	}
}
