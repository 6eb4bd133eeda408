package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the dashboard service.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Loader metrics
	LoadDuration  *prometheus.HistogramVec
	RecordsLoaded *prometheus.CounterVec
	RowsDropped   *prometheus.CounterVec
	SchemaErrors  prometheus.Counter

	// Cache metrics
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
}

// NewMetrics creates and registers the service collectors under the given
// namespace using the default Prometheus registry.
func NewMetrics(namespace string) *Metrics {
	return newMetrics(namespace, promauto.With(prometheus.DefaultRegisterer))
}

// NewMetricsWithRegistry is like NewMetrics but registers collectors on the
// provided registry. Tests use this to avoid duplicate registration on the
// default registry.
func NewMetricsWithRegistry(namespace string, reg *prometheus.Registry) *Metrics {
	return newMetrics(namespace, promauto.With(reg))
}

func newMetrics(namespace string, factory promauto.Factory) *Metrics {
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by path, method and status",
			},
			[]string{"path", "method", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"path"},
		),
		LoadDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "source_load_duration_seconds",
				Help:      "Duration of registration source loads in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"mode"},
		),
		RecordsLoaded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "records_loaded_total",
				Help:      "Total registration records produced by the loader",
			},
			[]string{"mode"},
		),
		RowsDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_dropped_total",
				Help:      "Source rows dropped for failed required-field coercion",
			},
			[]string{"mode", "reason"},
		),
		SchemaErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "schema_errors_total",
				Help:      "Loads rejected for missing required canonical columns",
			},
		),
		CacheHitsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "load_cache_hits_total",
				Help:      "Load cache hits within the expiry window",
			},
		),
		CacheMissesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "load_cache_misses_total",
				Help:      "Load cache misses or expired entries",
			},
		),
	}
}
