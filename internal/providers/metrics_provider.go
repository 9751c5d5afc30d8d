package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"cptrack/internal/structures"
)

// ConfiguredPlatformsFunc reports how many platforms currently have a
// handle configured. Provided by the identity service so the metrics
// provider doesn't have to depend on the services package.
type ConfiguredPlatformsFunc func() int

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncFetchTotal(platform, outcome string)
	ObserveFetchDuration(platform string, duration time.Duration)
	ObservePersistenceDuration(duration time.Duration)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	fetchTotal          *prometheus.CounterVec
	fetchDuration       *prometheus.HistogramVec
	persistenceDuration prometheus.Histogram
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncFetchTotal(platform, outcome string) {
	m.fetchTotal.WithLabelValues(platform, outcome).Inc()
}

func (m *MetricsProvider) ObserveFetchDuration(platform string, duration time.Duration) {
	m.fetchDuration.WithLabelValues(platform).Observe(duration.Seconds())
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, configured ConfiguredPlatformsFunc) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cptrack_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cptrack_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cptrack_cache_hits_total",
			Help: "Total number of response cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cptrack_cache_misses_total",
			Help: "Total number of response cache misses",
		}),

		fetchTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cptrack_fetch_total",
			Help: "Total number of outbound platform fetches by outcome",
		}, []string{"platform", "outcome"}),

		fetchDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cptrack_fetch_duration_seconds",
			Help:    "Outbound platform fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"platform"}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "cptrack_persistence_duration_seconds",
			Help:    "Duration of store persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "cptrack_configured_platforms",
		Help: "Number of platforms with a configured handle",
	}, func() float64 {
		return float64(configured())
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                  {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)  {}
func (n *noopMetrics) IncCacheHits()                                     {}
func (n *noopMetrics) IncCacheMisses()                                   {}
func (n *noopMetrics) IncFetchTotal(_, _ string)                         {}
func (n *noopMetrics) ObserveFetchDuration(_ string, _ time.Duration)    {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)        {}
