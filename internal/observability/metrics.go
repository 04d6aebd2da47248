package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// ingestion pipeline and the observation cache.
type Metrics struct {
	MetarsIngested     prometheus.Counter
	FeatureParseErrors prometheus.Counter
	FeedFetchErrors    prometheus.Counter
	IngestCycles       *prometheus.CounterVec // labels: outcome={success,failure}
	IngestRunning      prometheus.Gauge

	// Cycle metrics.
	PayloadFeatures     prometheus.Histogram
	IngestCycleDuration prometheus.Histogram

	// Cache metrics.
	CacheLookups           *prometheus.CounterVec // labels: result={hit,miss}
	CacheDeserializeErrors prometheus.Counter
	CacheWriteErrors       prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		MetarsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "metar_cache",
			Name:      "metars_ingested_total",
			Help:      "Total observations parsed and written to the cache.",
		}),
		FeatureParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "metar_cache",
			Name:      "feature_parse_errors_total",
			Help:      "Total feed features dropped because they failed to parse.",
		}),
		FeedFetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "metar_cache",
			Name:      "feed_fetch_errors_total",
			Help:      "Total ingestion cycles aborted by a feed transport or structural failure.",
		}),
		IngestCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "metar_cache",
			Name:      "ingest_cycles_total",
			Help:      "Ingestion cycles by outcome.",
		}, []string{"outcome"}),
		IngestRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "metar_cache",
			Name:      "ingest_running",
			Help:      "1 while an ingestion cycle is in progress, 0 otherwise.",
		}),
		PayloadFeatures: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "metar_cache",
			Name:      "payload_features",
			Help:      "Number of identified features per bulk feed payload.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500},
		}),
		IngestCycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "metar_cache",
			Name:      "ingest_cycle_duration_seconds",
			Help:      "Duration of a complete fetch-parse-upsert cycle.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "metar_cache",
			Name:      "cache_lookups_total",
			Help:      "Observation cache lookups by result.",
		}, []string{"result"}),
		CacheDeserializeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "metar_cache",
			Name:      "cache_deserialize_errors_total",
			Help:      "Cached values that could not be reconstituted into an observation.",
		}),
		CacheWriteErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "metar_cache",
			Name:      "cache_write_errors_total",
			Help:      "Observations that could not be written to the cache.",
		}),
	}

	prometheus.MustRegister(
		m.MetarsIngested,
		m.FeatureParseErrors,
		m.FeedFetchErrors,
		m.IngestCycles,
		m.IngestRunning,
		m.PayloadFeatures,
		m.IngestCycleDuration,
		m.CacheLookups,
		m.CacheDeserializeErrors,
		m.CacheWriteErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics without touching the default registry,
// avoiding "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		MetarsIngested:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "metar_cache", Name: "metars_ingested_total"}),
		FeatureParseErrors:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "metar_cache", Name: "feature_parse_errors_total"}),
		FeedFetchErrors:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "metar_cache", Name: "feed_fetch_errors_total"}),
		IngestCycles:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "metar_cache", Name: "ingest_cycles_total"}, []string{"outcome"}),
		IngestRunning:          prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "metar_cache", Name: "ingest_running"}),
		PayloadFeatures:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "metar_cache", Name: "payload_features"}),
		IngestCycleDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "metar_cache", Name: "ingest_cycle_duration_seconds"}),
		CacheLookups:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "metar_cache", Name: "cache_lookups_total"}, []string{"result"}),
		CacheDeserializeErrors: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "metar_cache", Name: "cache_deserialize_errors_total"}),
		CacheWriteErrors:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "metar_cache", Name: "cache_write_errors_total"}),
	}
}
