package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusHooks implements LayoutHooks, CacheHooks and HTTPHooks by
// recording Prometheus metrics in its own registry.
type PrometheusHooks struct {
	registry *prometheus.Registry

	LayoutsTotal    *prometheus.CounterVec
	LayoutDuration  *prometheus.HistogramVec
	LayoutNodes     *prometheus.HistogramVec
	LevelsTotal     *prometheus.CounterVec
	ViolationsTotal *prometheus.CounterVec

	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
	CacheWriteBytes  *prometheus.HistogramVec

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
}

// NewPrometheusHooks creates hooks with all metrics registered in a fresh
// registry.
func NewPrometheusHooks() *PrometheusHooks {
	h := &PrometheusHooks{registry: prometheus.NewRegistry()}
	h.initLayoutMetrics()
	h.initCacheMetrics()
	h.initHTTPMetrics()
	return h
}

// Registry returns the underlying Prometheus registry, for serving.
func (h *PrometheusHooks) Registry() *prometheus.Registry { return h.registry }

func (h *PrometheusHooks) initLayoutMetrics() {
	h.LayoutsTotal = promauto.With(h.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "strata_layouts_total",
			Help: "Total number of layout runs",
		},
		[]string{"algorithm", "status"},
	)

	h.LayoutDuration = promauto.With(h.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "strata_layout_duration_seconds",
			Help:    "Layout run latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"algorithm"},
	)

	h.LayoutNodes = promauto.With(h.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "strata_layout_nodes",
			Help:    "Number of nodes per layout run",
			Buckets: []float64{10, 100, 1000, 10000, 100000},
		},
		[]string{"algorithm"},
	)

	h.LevelsTotal = promauto.With(h.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "strata_layout_levels_total",
			Help: "Total number of nesting levels laid out",
		},
		[]string{"algorithm"},
	)

	h.ViolationsTotal = promauto.With(h.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "strata_constraint_violations_total",
			Help: "Total number of constraint violations found after layout",
		},
		[]string{"kind"},
	)
}

func (h *PrometheusHooks) initCacheMetrics() {
	h.CacheHitsTotal = promauto.With(h.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "strata_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"key_type"},
	)

	h.CacheMissesTotal = promauto.With(h.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "strata_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"key_type"},
	)

	h.CacheWriteBytes = promauto.With(h.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "strata_cache_write_bytes",
			Help:    "Size of cache writes in bytes",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		},
		[]string{"key_type"},
	)
}

func (h *PrometheusHooks) initHTTPMetrics() {
	h.HTTPRequestsTotal = promauto.With(h.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "strata_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	h.HTTPRequestDuration = promauto.With(h.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "strata_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	h.HTTPRequestsInFlight = promauto.With(h.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "strata_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)
}

func (h *PrometheusHooks) OnLayoutStart(_ context.Context, algorithm string, nodeCount int) {
	h.LayoutNodes.WithLabelValues(algorithm).Observe(float64(nodeCount))
}

func (h *PrometheusHooks) OnLayoutComplete(_ context.Context, algorithm string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	h.LayoutsTotal.WithLabelValues(algorithm, status).Inc()
	h.LayoutDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
}

func (h *PrometheusHooks) OnLevel(_ context.Context, algorithm string, _, _ int) {
	h.LevelsTotal.WithLabelValues(algorithm).Inc()
}

func (h *PrometheusHooks) OnViolation(_ context.Context, kind string) {
	h.ViolationsTotal.WithLabelValues(kind).Inc()
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.CacheHitsTotal.WithLabelValues(keyType).Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.CacheMissesTotal.WithLabelValues(keyType).Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.CacheWriteBytes.WithLabelValues(keyType).Observe(float64(size))
}

func (h *PrometheusHooks) OnRequest(context.Context, string, string) {
	h.HTTPRequestsInFlight.Inc()
}

func (h *PrometheusHooks) OnResponse(_ context.Context, method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	h.HTTPRequestsInFlight.Dec()
	h.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	h.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
