package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric names.
const (
	MetricSolvesTotal         = "footrule_solves_total"
	MetricSolveDuration       = "footrule_solve_duration_seconds"
	MetricSolveItems          = "footrule_solve_items"
	MetricSolveRounds         = "footrule_solve_rounds"
	MetricCacheRequestsTotal  = "footrule_cache_requests_total"
	MetricCacheWriteBytes     = "footrule_cache_write_bytes"
	MetricHTTPRequestsTotal   = "footrule_http_requests_total"
	MetricHTTPRequestDuration = "footrule_http_request_duration_seconds"
)

// PrometheusHooks records solver, cache and HTTP events as Prometheus
// metrics. It implements SolverHooks, CacheHooks and HTTPHooks and is safe
// for concurrent use.
type PrometheusHooks struct {
	solves       *prometheus.CounterVec
	solveTime    *prometheus.HistogramVec
	solveItems   prometheus.Histogram
	solveRounds  prometheus.Histogram
	cacheLookups *prometheus.CounterVec
	cacheWrites  *prometheus.HistogramVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewPrometheusHooks creates the collectors. They are not registered; call
// Register to expose them.
func NewPrometheusHooks() *PrometheusHooks {
	return &PrometheusHooks{
		solves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricSolvesTotal,
				Help: "Total number of aggregation solves by method and outcome",
			},
			[]string{"method", "status"},
		),
		solveTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricSolveDuration,
				Help:    "Aggregation solve duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 100µs to ~26s
			},
			[]string{"method"},
		),
		solveItems: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricSolveItems,
				Help:    "Number of distinct items per solve",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		solveRounds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricSolveRounds,
				Help:    "Hungarian adjustment rounds per solve",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricCacheRequestsTotal,
				Help: "Total number of cache lookups by key type and result",
			},
			[]string{"key_type", "result"},
		),
		cacheWrites: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricCacheWriteBytes,
				Help:    "Size of cache writes in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 6),
			},
			[]string{"key_type"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricHTTPRequestsTotal,
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricHTTPRequestDuration,
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.01, 0.1, 0.5, 1.0, 2.0, 10.0},
			},
			[]string{"method", "route"},
		),
	}
}

// Collectors returns all collectors.
func (h *PrometheusHooks) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		h.solves,
		h.solveTime,
		h.solveItems,
		h.solveRounds,
		h.cacheLookups,
		h.cacheWrites,
		h.httpRequests,
		h.httpDuration,
	}
}

// Register registers all collectors with reg.
func (h *PrometheusHooks) Register(reg prometheus.Registerer) error {
	for _, c := range h.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (h *PrometheusHooks) OnSolveStart(_ context.Context, _ string, items, _ int) {
	h.solveItems.Observe(float64(items))
}

func (h *PrometheusHooks) OnSolveComplete(_ context.Context, method string, _, rounds int, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	h.solves.WithLabelValues(method, status).Inc()
	h.solveTime.WithLabelValues(method).Observe(d.Seconds())
	if err == nil {
		h.solveRounds.Observe(float64(rounds))
	}
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheLookups.WithLabelValues(keyType, "hit").Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheLookups.WithLabelValues(keyType, "miss").Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheWrites.WithLabelValues(keyType).Observe(float64(size))
}

// OnRequest is a no-op; requests are counted when they complete.
func (h *PrometheusHooks) OnRequest(context.Context, string, string) {}

func (h *PrometheusHooks) OnResponse(_ context.Context, method, route string, statusCode int, d time.Duration) {
	h.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	h.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ SolverHooks = (*PrometheusHooks)(nil)
	_ CacheHooks  = (*PrometheusHooks)(nil)
	_ HTTPHooks   = (*PrometheusHooks)(nil)
)
