package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(tasksTotal, taskDuration, queueDepth, matchRequests, matchLatency) }

var (
	tasksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_tasks_total",
			Help: "Pipeline tasks by kind and terminal status.",
		},
		[]string{"kind", "status"},
	)

	taskDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_task_duration_ms",
			Help:    "Pipeline task duration in milliseconds.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		},
		[]string{"kind"},
	)

	queueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pipeline_queue_depth",
			Help: "Tasks waiting for a pipeline worker.",
		},
	)

	matchRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_requests_total",
			Help: "Match queries by outcome (ok, not_found, invalid, error).",
		},
		[]string{"outcome"},
	)

	matchLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "match_latency_ms",
			Help:    "Match query latency in milliseconds.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)
)

// ObserveTask records a finished pipeline task.
func ObserveTask(kind, status string, elapsed time.Duration) {
	tasksTotal.WithLabelValues(norm(kind), norm(status)).Inc()
	taskDuration.WithLabelValues(norm(kind)).Observe(float64(elapsed.Milliseconds()))
}

// SetQueueDepth publishes the number of queued tasks.
func SetQueueDepth(n int) {
	queueDepth.Set(float64(n))
}

// ObserveMatch records one match query.
func ObserveMatch(result string, elapsed time.Duration) {
	matchRequests.WithLabelValues(norm(result)).Inc()
	matchLatency.Observe(float64(elapsed.Milliseconds()))
}
