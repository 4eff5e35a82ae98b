// Package metrics provides Prometheus metrics for the SGM scoring service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the Prometheus collectors for the service.
type Manager struct {
	registry prometheus.Registerer

	// Pipeline metrics
	runsTotal       *prometheus.CounterVec
	runDuration     prometheus.Histogram
	lastRunUnix     prometheus.Gauge
	eventsFetched   *prometheus.CounterVec
	eventsSkipped   prometheus.Counter
	countriesScored prometheus.Gauge
	scoresUpserted  prometheus.Counter
	intensityEvents prometheus.Counter

	// Store health
	storeFallbacks prometheus.Counter
	storeErrors    prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithRegistry sets the registerer used for all collectors.
func WithRegistry(reg prometheus.Registerer) Option {
	return func(m *Manager) {
		if reg != nil {
			m.registry = reg
		}
	}
}

// Global manager on a custom registry, so the default Go collectors do
// not pollute the scrape output.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton metrics registry
var globalManager *Manager                    //nolint:gochecknoglobals // singleton metrics manager

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a Manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{registry: prometheus.DefaultRegisterer}
	for _, opt := range opts {
		opt(m)
	}
	factory := promauto.With(m.registry)

	m.runsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sgm",
		Subsystem: "pipeline",
		Name:      "runs_total",
		Help:      "Scoring runs by outcome.",
	}, []string{"outcome"})
	m.runDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sgm",
		Subsystem: "pipeline",
		Name:      "run_duration_seconds",
		Help:      "Wall time of a full scoring run.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
	})
	m.lastRunUnix = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: "sgm",
		Subsystem: "pipeline",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the last completed run.",
	})
	m.eventsFetched = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sgm",
		Subsystem: "pipeline",
		Name:      "events_fetched_total",
		Help:      "Raw events fetched from upstream, by source.",
	}, []string{"source"})
	m.eventsSkipped = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "sgm",
		Subsystem: "pipeline",
		Name:      "events_skipped_total",
		Help:      "Raw events dropped during normalization.",
	})
	m.countriesScored = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: "sgm",
		Subsystem: "pipeline",
		Name:      "countries_scored",
		Help:      "Countries scored in the last run.",
	})
	m.scoresUpserted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "sgm",
		Subsystem: "pipeline",
		Name:      "scores_upserted_total",
		Help:      "Country score documents written.",
	})
	m.intensityEvents = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "sgm",
		Subsystem: "pipeline",
		Name:      "intensity_events_total",
		Help:      "ACLED events assigned an intensity score.",
	})
	m.storeFallbacks = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "sgm",
		Subsystem: "store",
		Name:      "fallbacks_total",
		Help:      "Reads served from the sample dataset because the store was unreachable.",
	})
	m.storeErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "sgm",
		Subsystem: "store",
		Name:      "errors_total",
		Help:      "Store operations that failed.",
	})
	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sgm",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sgm",
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
	}, []string{"endpoint", "method", "status"})

	return m
}

// GetRegistry returns the gatherer backing the global manager, for
// serving via promhttp.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level recording helpers against the global manager.

// RecordRun counts one run with the given outcome ("success"/"failed").
func RecordRun(outcome string) { globalManager.runsTotal.WithLabelValues(outcome).Inc() }

// ObserveRunDuration records a run's wall time in seconds.
func ObserveRunDuration(seconds float64) { globalManager.runDuration.Observe(seconds) }

// SetLastRunUnix records the completion time of the last run.
func SetLastRunUnix(ts float64) { globalManager.lastRunUnix.Set(ts) }

// RecordEventsFetched counts raw events pulled from one source.
func RecordEventsFetched(source string, n int) {
	globalManager.eventsFetched.WithLabelValues(source).Add(float64(n))
}

// RecordEventsSkipped counts events dropped as malformed.
func RecordEventsSkipped(n int) { globalManager.eventsSkipped.Add(float64(n)) }

// UpdateCountriesScored sets the per-run scored-country gauge.
func UpdateCountriesScored(n int) { globalManager.countriesScored.Set(float64(n)) }

// RecordScoresUpserted counts score documents written.
func RecordScoresUpserted(n int) { globalManager.scoresUpserted.Add(float64(n)) }

// RecordIntensityEvents counts ACLED events scored for intensity.
func RecordIntensityEvents(n int) { globalManager.intensityEvents.Add(float64(n)) }

// RecordStoreFallback counts a read served from sample data.
func RecordStoreFallback() { globalManager.storeFallbacks.Inc() }

// RecordStoreError counts a failed store operation.
func RecordStoreError() { globalManager.storeErrors.Inc() }

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records HTTP latency in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}
