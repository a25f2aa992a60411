package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FallbackResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "groundscout_fallback_results_total",
			Help: "Enrichment results served, by domain and data source",
		},
		[]string{"domain", "source"},
	)

	FallbackConfidence = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "groundscout_fallback_confidence",
			Help:    "Confidence of enrichment results",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
		[]string{"domain"},
	)

	LiveFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "groundscout_live_fetch_total",
			Help: "Live data source fetches",
		},
		[]string{"domain", "status"},
	)

	LiveFetchLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "groundscout_live_fetch_latency_seconds",
			Help:    "Live data source fetch latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"domain"},
	)

	EnrichmentDegradedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "groundscout_enrichment_degraded_total",
			Help: "Enrichments that fell back to the minimal default record",
		},
	)

	HistoricalEntriesEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "groundscout_historical_entries_evicted_total",
			Help: "Historical cache entries removed by the retention sweep",
		},
	)

	AnalysisCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "groundscout_analysis_cache_requests_total",
			Help: "Opportunity analysis cache lookups",
		},
		[]string{"result"},
	)

	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "groundscout_analyses_total",
			Help: "Opportunity analyses computed, by priority tier",
		},
		[]string{"tier"},
	)
)
