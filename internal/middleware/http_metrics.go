package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// staticRoutes are the API's fixed paths; anything else collapses to a
// single bucket so unknown paths cannot explode metric cardinality.
var staticRoutes = map[string]bool{
	"/":             true,
	"/feed":         true,
	"/badges":       true,
	"/search":       true,
	"/search/posts": true,
	"/categories":   true,
	"/health":       true,
	"/metrics":      true,
}

// normalizePath maps a request path to a bounded label value.
func normalizePath(path string) string {
	if staticRoutes[path] {
		return path
	}
	// Post detail paths carry an ID segment
	if strings.HasPrefix(path, "/posts/") {
		return "/posts/{id}"
	}
	return "/other"
}

// metricsExcludedPaths are high-frequency infrastructure endpoints that
// would drown out the signal.
var metricsExcludedPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// HTTPMetrics is a middleware that records request count, duration, and
// response size with method/path/status labels. Paths are normalized before
// labeling; health and metrics endpoints are excluded.
func HTTPMetrics(m *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m == nil || metricsExcludedPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			path := normalizePath(r.URL.Path)
			status := strconv.Itoa(rw.statusCode)
			elapsed := time.Since(start).Seconds()

			m.httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			m.httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(elapsed)
			m.httpResponseSize.WithLabelValues(r.Method, path, status).Observe(float64(rw.size))
		})
	}
}
