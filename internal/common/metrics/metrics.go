// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tca_backend_request_duration_seconds",
			Help:    "Duration of analysis backend requests in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"endpoint", "outcome"},
	)

	AnalysisRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tca_analysis_runs_total",
			Help: "Comprehensive analyses run, by framework and outcome",
		},
		[]string{"framework", "outcome"},
	)

	CompositeScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tca_composite_score",
			Help:    "Distribution of TCA composite scores on the 0-10 scale",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		},
		[]string{"framework", "source"},
	)

	WhatIfLocks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tca_whatif_locks_total",
			Help: "What-If sessions locked into a snapshot",
		},
		[]string{"framework"},
	)

	ReportStoreOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tca_report_store_operations_total",
			Help: "Report store operations by kind and outcome",
		},
		[]string{"op", "outcome"},
	)
)

// Outcome renders an error as the outcome label value.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
