package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DocumentsProcessed counts processing attempts by resolved engine and
	// terminal status.
	DocumentsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docat_documents_processed_total",
		Help: "Documents processed, by engine and terminal status.",
	}, []string{"engine", "status"})

	ProcessingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "docat_processing_duration_seconds",
		Help:    "Wall-clock time spent extracting a document.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
	}, []string{"engine"})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docat_extraction_cache_hits_total",
		Help: "Extraction cache hits, by source (redis or database).",
	}, []string{"source"})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docat_rate_limited_total",
		Help: "Requests rejected by the daily processing limit.",
	})
)
