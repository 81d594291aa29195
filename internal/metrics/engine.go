package metrics

import "github.com/prometheus/client_golang/prometheus"

// Indexing and search Prometheus metrics.
var (
	IndexOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "textdex",
			Name:      "index_operations_total",
			Help:      "Total number of index operations",
		},
		[]string{"op", "status"}, // op: index / remove / rebuild
	)

	IndexOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "textdex",
			Name:      "index_operation_duration_seconds",
			Help:      "Index operation duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5, 30},
		},
		[]string{"op"},
	)

	RebuildRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "textdex",
			Name:      "rebuild_records_total",
			Help:      "Records processed by bulk rebuilds",
		},
		[]string{"status"},
	)

	SearchQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "textdex",
			Name:      "search_queries_total",
			Help:      "Total number of search queries",
		},
		[]string{"mode", "status"},
	)

	SearchQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "textdex",
			Name:      "search_query_duration_seconds",
			Help:      "Search query duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"mode"},
	)

	SearchHits = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "textdex",
			Name:      "search_hits",
			Help:      "Ranked records per search before pagination",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
)

var engineMetricsRegistered bool

// RegisterEngineMetrics registers indexing and search metrics. Must be called once from main.
func RegisterEngineMetrics() {
	if engineMetricsRegistered {
		return
	}
	prometheus.MustRegister(IndexOperationsTotal)
	prometheus.MustRegister(IndexOperationDuration)
	prometheus.MustRegister(RebuildRecordsTotal)
	prometheus.MustRegister(SearchQueriesTotal)
	prometheus.MustRegister(SearchQueryDuration)
	prometheus.MustRegister(SearchHits)
	engineMetricsRegistered = true
}

// Status maps an error to a metric status label.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
