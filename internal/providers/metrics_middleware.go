package providers

import (
	"net/http"
	"time"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Label values must stay bounded; unmatched paths all land in one bucket.
var knownEndpoints = map[string]struct{}{
	"/profile":           {},
	"/performance":       {},
	"/dashboard":         {},
	"/dashboard/refresh": {},
	"/handles":           {},
}

func endpointLabel(path string) string {
	if _, ok := knownEndpoints[path]; ok {
		return path
	}
	return "other"
}

func MetricsMiddleware(metrics MetricsProviderInterface, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		endpoint := endpointLabel(r.URL.Path)
		metrics.IncRequestsTotal(endpoint, sw.status)
		metrics.ObserveRequestDuration(endpoint, time.Since(start))
	})
}
