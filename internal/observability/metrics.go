package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Submission pipeline outcome labels.
const (
	OutcomeAccepted    = "accepted"
	OutcomeRateLimited = "rate_limited"
	OutcomeFallback    = "fallback"
)

var (
	registerOnce          sync.Once
	submissionsTotal      *prometheus.CounterVec
	pipelineLatencySecond *prometheus.HistogramVec
)

// RegisterMetrics initialises the Prometheus collectors for the grading pipeline.
func RegisterMetrics() {
	registerOnce.Do(func() {
		submissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grader_submissions_total",
			Help: "Total number of submission requests by pipeline outcome.",
		}, []string{"outcome"})

		pipelineLatencySecond = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "grader_pipeline_latency_seconds",
			Help:    "End-to-end latency of the submission pipeline.",
			Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0},
		}, []string{"outcome"})

		prometheus.MustRegister(submissionsTotal, pipelineLatencySecond)
	})
}

// Submissions exposes the counter for submission outcomes.
func Submissions() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionsTotal
}

// PipelineLatency exposes the pipeline latency histogram.
func PipelineLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return pipelineLatencySecond
}
