package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "snow_forecast"

// Metrics holds the Prometheus counters, histograms, and gauges for the forecast service.
type Metrics struct {
	ForecastRequests *prometheus.CounterVec // labels: outcome={success,error}
	ForecastDuration prometheus.Histogram

	// Upstream NOAA gridpoint metrics.
	UpstreamRequests *prometheus.CounterVec // labels: outcome={success,http_error,transport_error}
	UpstreamDuration prometheus.Histogram

	// Gridpoint cache metrics.
	CacheLookups *prometheus.CounterVec // labels: result={hit,miss,expired,error}
	CacheWrites  *prometheus.CounterVec // labels: outcome={success,error}
	CacheEnabled prometheus.Gauge

	MalformedSamples prometheus.Counter
	WarningRanges    *prometheus.CounterVec // labels: kind={rain,wind}
	ReportsPublished *prometheus.CounterVec // labels: outcome={success,error}
}

func newMetrics() *Metrics {
	return &Metrics{
		ForecastRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecast_requests_total",
			Help:      "Forecast builds by outcome.",
		}, []string{"outcome"}),
		ForecastDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "forecast_duration_seconds",
			Help:      "Duration of a complete forecast build, including upstream fetch.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "NOAA gridpoint requests by outcome.",
		}, []string{"outcome"}),
		UpstreamDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_duration_seconds",
			Help:      "NOAA gridpoint request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Gridpoint cache lookups by result.",
		}, []string{"result"}),
		CacheWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_writes_total",
			Help:      "Gridpoint cache writes by outcome.",
		}, []string{"outcome"}),
		CacheEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_enabled",
			Help:      "1 when a gridpoint cache backend is configured, 0 otherwise.",
		}),
		MalformedSamples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_samples_total",
			Help:      "Gridpoint samples skipped because their validTime could not be parsed.",
		}),
		WarningRanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warning_ranges_total",
			Help:      "Warning ranges emitted by kind.",
		}, []string{"kind"}),
		ReportsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_published_total",
			Help:      "Forecast reports written to Kafka by outcome.",
		}, []string{"outcome"}),
	}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics without registering them to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.ForecastRequests,
		m.ForecastDuration,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.CacheLookups,
		m.CacheWrites,
		m.CacheEnabled,
		m.MalformedSamples,
		m.WarningRanges,
		m.ReportsPublished,
	}
}
