// Package metrics provides Prometheus metrics for the fpick web host.
package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fpick_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// Session metrics
	sessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fpick_sessions_active",
			Help: "Number of connected picker sessions",
		},
	)

	picksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fpick_picks_total",
			Help: "Total finished picker sessions by outcome",
		},
		[]string{"outcome"},
	)

	permissionDeniedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fpick_permission_denied_total",
			Help: "Total navigation attempts outside the picker root",
		},
	)

	listingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fpick_listing_duration_seconds",
			Help:    "Directory listing duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	// Auth metrics
	authAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fpick_auth_attempts_total",
			Help: "Total login attempts",
		},
		[]string{"result"},
	)

	thumbnailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fpick_thumbnails_total",
			Help: "Total thumbnail requests",
		},
		[]string{"status"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(method, path string, status int) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

// SessionStarted increments the active session gauge.
func SessionStarted() {
	sessionsActive.Inc()
}

// SessionEnded decrements the active session gauge.
func SessionEnded() {
	sessionsActive.Dec()
}

// RecordPick records how a picker session ended: "picked", "empty",
// "cancelled" or "aborted".
func RecordPick(outcome string) {
	picksTotal.WithLabelValues(outcome).Inc()
}

// RecordPermissionDenied records a rejected navigation.
func RecordPermissionDenied() {
	permissionDeniedTotal.Inc()
}

// RecordListing records a directory listing duration.
func RecordListing(source string, duration time.Duration) {
	listingDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordAuthAttempt records a login attempt.
func RecordAuthAttempt(success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	authAttemptsTotal.WithLabelValues(result).Inc()
}

// RecordThumbnail records a thumbnail request.
func RecordThumbnail(success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	thumbnailsTotal.WithLabelValues(status).Inc()
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades pass through the middleware.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	rw.statusCode = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Middleware returns HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		RecordHTTPRequest(r.Method, r.URL.Path, rw.statusCode)
	})
}
