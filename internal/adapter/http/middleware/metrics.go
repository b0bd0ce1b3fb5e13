package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/finbooks/erpledger/internal/infrastructure/metrics"
)

// MetricsMiddleware records request counts and latencies.
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

// NewMetricsMiddleware creates a new MetricsMiddleware.
func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Wrap wraps an http.Handler with metrics collection.
func (m *MetricsMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		m.metrics.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		m.metrics.HTTPDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// paramSegments maps collection segments to the placeholder that stands
// in for the identifier following them.
var paramSegments = map[string]string{
	"accounts":     ":code",
	"transactions": ":id",
	"periods":      ":code",
	"sequences":    ":code",
	"number":       ":number",
	"audit":        ":number",
}

// normalizePath replaces identifiers in URL paths with placeholders to
// keep label cardinality bounded.
func normalizePath(path string) string {
	segments := strings.Split(path, "/")
	for i := 0; i < len(segments)-1; i++ {
		placeholder, ok := paramSegments[segments[i]]
		if !ok || segments[i+1] == "" {
			continue
		}

		// A nested collection segment is part of the route, not an
		// identifier ("/transactions/number/TX-1001").
		if _, nested := paramSegments[segments[i+1]]; nested {
			continue
		}

		segments[i+1] = placeholder
		i++
	}

	return strings.Join(segments, "/")
}
