package search

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricIndexBuilds    = "search_index_builds_total"
	MetricIndexDocuments = "search_index_documents"
	MetricQueries        = "search_queries_total"
	MetricQueryDuration  = "search_query_duration_seconds"
)

// Metrics contains Prometheus metrics for the search indexer.
// All operations are thread-safe. A nil *Metrics is valid and records
// nothing, so the engine stays usable without a registry.
type Metrics struct {
	indexBuilds    prometheus.Counter
	indexDocuments *prometheus.GaugeVec
	queries        *prometheus.CounterVec
	queryDuration  prometheus.Histogram
}

// NewMetrics creates and returns a new Metrics instance with all collectors
// initialized. The metrics are not registered; call Register to register
// them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		indexBuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricIndexBuilds,
			Help: "Total number of search index builds",
		}),
		indexDocuments: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: MetricIndexDocuments,
				Help: "Number of documents in the current search index by entity",
			},
			[]string{"entity"},
		),
		queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricQueries,
				Help: "Total number of search queries by entry point",
			},
			[]string{"entrypoint"},
		),
		queryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricQueryDuration,
			Help:    "Histogram of search query latency in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
	}
}

// Register registers all metrics with the given registry.
// Returns an error if registration fails.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.indexBuilds,
		m.indexDocuments,
		m.queries,
		m.queryDuration,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RecordBuild records one index build and the resulting index sizes.
func (m *Metrics) RecordBuild(ix *Indexes) {
	if m == nil {
		return
	}
	m.indexBuilds.Inc()
	m.indexDocuments.WithLabelValues("designers").Set(float64(len(ix.designers.docs)))
	m.indexDocuments.WithLabelValues("posts").Set(float64(len(ix.posts.docs)))
	m.indexDocuments.WithLabelValues("categories").Set(float64(len(ix.categories.docs)))
}

// RecordQuery records one query against the named entry point.
func (m *Metrics) RecordQuery(entrypoint string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(entrypoint).Inc()
	m.queryDuration.Observe(elapsed.Seconds())
}
