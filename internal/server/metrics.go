package server

import "github.com/prometheus/client_golang/prometheus"

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "selfrag_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"endpoint", "status"},
	)
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "selfrag_request_duration_seconds",
			Help: "Duration of API requests",
		},
		[]string{"endpoint"},
	)
	generateAttempts = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "selfrag_generate_attempts",
			Help:    "Generator invocations per chat request",
			Buckets: []float64{1, 2},
		},
	)
	indexedChunks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "selfrag_indexed_chunks",
			Help: "Chunks in the active index",
		},
	)
	cacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "selfrag_answer_cache_hits_total",
			Help: "Total number of answer cache hits",
		},
	)
	cacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "selfrag_answer_cache_misses_total",
			Help: "Total number of answer cache misses",
		},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal)
	prometheus.MustRegister(requestDuration)
	prometheus.MustRegister(generateAttempts)
	prometheus.MustRegister(indexedChunks)
	prometheus.MustRegister(cacheHitsTotal)
	prometheus.MustRegister(cacheMissesTotal)
}
