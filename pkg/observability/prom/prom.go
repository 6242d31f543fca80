// Package prom implements the observability hooks with prometheus metrics.
//
//	m := prom.New(prometheus.DefaultRegisterer)
//	m.Install()
//	http.Handle("/metrics", promhttp.Handler())
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/orbitdash/pkg/observability"
)

const namespace = "orbitdash"

// Metrics holds every collector. It implements observability.CycleHooks,
// observability.CacheHooks and observability.HTTPHooks.
type Metrics struct {
	cycles        *prometheus.CounterVec
	cycleDuration prometheus.Histogram
	cycleErrors   prometheus.Counter
	matchedRows   prometheus.Gauge
	summaries     *prometheus.CounterVec

	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
	cacheBytes  *prometheus.CounterVec

	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec

	serverRequests *prometheus.CounterVec
	serverDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		cycles: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_cycles_total",
			Help:      "Render cycles run, by triggering action",
		}, []string{"action"}),
		cycleDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_cycle_duration_seconds",
			Help:      "Duration of filter, aggregate and draw",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		cycleErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_cycle_sink_errors_total",
			Help:      "Cycles in which at least one sink failed",
		}),
		matchedRows: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "matched_records",
			Help:      "Records matched by the most recent cycle",
		}),
		summaries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summary_results_total",
			Help:      "Focus summary fetch results",
		}, []string{"result"}),
		cacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Cache hits",
		}, []string{"key_type"}),
		cacheMisses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Cache misses",
		}, []string{"key_type"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache",
		}, []string{"key_type"}),
		upstreamRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Outgoing HTTP requests, by host and status",
		}, []string{"host", "status"}),
		upstreamDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of outgoing HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"host"}),
		serverRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Requests served, by route and status",
		}, []string{"method", "route", "status"}),
		serverDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of served requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// Install registers m as the global cycle, cache and HTTP hooks.
func (m *Metrics) Install() {
	observability.SetCycleHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.serverRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.serverDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) OnCycleStart(context.Context, uint64, string) {}

func (m *Metrics) OnCycleComplete(_ context.Context, _ uint64, reason string, matched int, d time.Duration, err error) {
	m.cycles.WithLabelValues(action(reason)).Inc()
	m.cycleDuration.Observe(d.Seconds())
	m.matchedRows.Set(float64(matched))
	if err != nil {
		m.cycleErrors.Inc()
	}
}

func (m *Metrics) OnSummary(_ context.Context, _ int, stale bool, err error) {
	switch {
	case stale:
		m.summaries.WithLabelValues("stale").Inc()
	case err != nil:
		m.summaries.WithLabelValues("failed").Inc()
	default:
		m.summaries.WithLabelValues("ok").Inc()
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheHits.WithLabelValues(keyType).Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheMisses.WithLabelValues(keyType).Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, _, host, _ string, status int, d time.Duration) {
	m.upstreamRequests.WithLabelValues(host, strconv.Itoa(status)).Inc()
	m.upstreamDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, _, host, _ string, _ error) {
	m.upstreamRequests.WithLabelValues(host, "error").Inc()
}

// action reduces a cycle reason such as "toggle country" to its verb, which
// keeps label cardinality bounded.
func action(reason string) string {
	for i := 0; i < len(reason); i++ {
		if reason[i] == ' ' {
			return reason[:i]
		}
	}
	if reason == "" {
		return "unknown"
	}
	return reason
}
