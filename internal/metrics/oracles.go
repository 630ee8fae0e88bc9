package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(embeddingRequests, embeddingLatency, extractionRequests) }

var (
	embeddingRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_requests_total",
			Help: "Embedding oracle calls by provider and outcome.",
		},
		[]string{"provider", "outcome"},
	)

	embeddingLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "embedding_latency_ms",
			Help:    "Embedding oracle latency in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
		[]string{"provider"},
	)

	extractionRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extraction_requests_total",
			Help: "Requirement extraction calls by provider and outcome (ok, oracle_error, invalid_output).",
		},
		[]string{"provider", "outcome"},
	)
)

// ObserveEmbedding records one embedding call.
func ObserveEmbedding(provider string, elapsed time.Duration, err error) {
	embeddingRequests.WithLabelValues(norm(provider), outcome(err)).Inc()
	embeddingLatency.WithLabelValues(norm(provider)).Observe(float64(elapsed.Milliseconds()))
}

// IncExtraction records one extraction call with the given outcome label.
func IncExtraction(provider, result string) {
	extractionRequests.WithLabelValues(norm(provider), norm(result)).Inc()
}
