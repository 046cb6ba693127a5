package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsMiddleware records request counts and latency.
type MetricsMiddleware struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetricsMiddleware creates a MetricsMiddleware. requests is labeled by
// method, path and status; duration by method and path.
func NewMetricsMiddleware(requests *prometheus.CounterVec, duration *prometheus.HistogramVec) *MetricsMiddleware {
	return &MetricsMiddleware{requests: requests, duration: duration}
}

// Wrap wraps an http.Handler with metrics collection.
func (m *MetricsMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		path := normalizePath(r.URL.Path)
		m.requests.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		m.duration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// idSegments maps a collection prefix to the label used for the ID segment
// that follows it.
var idSegments = []struct {
	prefix string
	label  string
}{
	{"/api/v1/features/", ":loanID"},
	{"/api/v1/users/", ":userID"},
	{"/api/v1/runs/", ":id"},
}

// normalizePath replaces IDs in URL paths to keep label cardinality bounded.
// /api/v1/users/42/features -> /api/v1/users/:userID/features
func normalizePath(path string) string {
	for _, seg := range idSegments {
		rest, ok := strings.CutPrefix(path, seg.prefix)
		if !ok || rest == "" {
			continue
		}

		id, suffix, found := strings.Cut(rest, "/")
		if seg.label == ":id" && id == "latest" {
			return path
		}
		if found {
			suffix = "/" + suffix
		}
		return seg.prefix + seg.label + suffix
	}

	return path
}
