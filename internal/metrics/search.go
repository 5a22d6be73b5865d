package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search and index Prometheus metrics.
var (
	searchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "memdex",
			Name:      "search_duration_seconds",
			Help:      "Search execution time in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	searchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "memdex",
			Name:      "search_results_per_query",
			Help:      "Number of results returned per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
	)

	indexRebuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memdex",
			Name:      "index_rebuilds_total",
			Help:      "Total index rebuilds by outcome",
		},
		[]string{"status"}, // "completed" / "failed" / "skipped"
	)

	indexRebuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "memdex",
			Name:      "index_rebuild_duration_seconds",
			Help:      "Index rebuild duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
	)

	indexEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "memdex",
			Name:      "index_entries",
			Help:      "Number of entries in the in-memory index",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search and index metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	searchMetricsRegistered = true
	prometheus.MustRegister(searchDuration)
	prometheus.MustRegister(searchResults)
	prometheus.MustRegister(indexRebuildsTotal)
	prometheus.MustRegister(indexRebuildDuration)
	prometheus.MustRegister(indexEntries)
}

// ObserveSearch records one executed search.
func ObserveSearch(d time.Duration, results int) {
	searchDuration.Observe(d.Seconds())
	searchResults.Observe(float64(results))
}

// ObserveRebuild records one rebuild attempt outcome.
func ObserveRebuild(status string, d time.Duration, entries int) {
	indexRebuildsTotal.WithLabelValues(status).Inc()
	if status == "completed" {
		indexRebuildDuration.Observe(d.Seconds())
		indexEntries.Set(float64(entries))
	}
}

// ObserveRebuildSkipped records a rebuild trigger that found one in flight.
func ObserveRebuildSkipped() {
	indexRebuildsTotal.WithLabelValues("skipped").Inc()
}
