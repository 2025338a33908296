// Package metrics provides Prometheus instrumentation for the holdings service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ReplayDuration tracks how long a full holdings computation takes.
	ReplayDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "holdings_replay_duration_seconds",
		Help:    "Holdings replay and valuation duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
	})

	// ReplayedTransactions counts transactions fed through the replayer.
	ReplayedTransactions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "holdings_replayed_transactions_total",
		Help: "Total number of transactions replayed",
	})

	// TransferGroups counts resolved transfer groups by outcome.
	TransferGroups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "holdings_transfer_groups_total",
		Help: "Transfer groups resolved, partitioned by outcome",
	}, []string{"outcome"})

	// PositionsByStatus is the number of reported positions per cost basis
	// status in the most recent computation.
	PositionsByStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "holdings_positions_by_status",
		Help: "Positions per cost basis status in the last computation",
	}, []string{"status"})

	// CacheRequests counts holdings cache lookups by result.
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "holdings_cache_requests_total",
		Help: "Holdings cache lookups, partitioned by hit or miss",
	}, []string{"result"})

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "holdings_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "holdings_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		path := routePattern(r)
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern labels requests by chi route pattern so IDs in the path do not
// blow up label cardinality.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
