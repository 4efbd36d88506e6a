// internal/common/metrics/metrics.go
package metrics

import (
	"time"

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
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of job processing in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
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

	WoundAssessments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wound_assessments_total",
			Help: "Wound assessments by prognosis band and urgency",
		},
		[]string{"rule_table", "prognosis", "urgency"},
	)

	WoundSeverityScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wound_severity_score",
			Help:    "Distribution of clamped severity scores",
			Buckets: prometheus.LinearBuckets(0, 5, 8),
		},
		[]string{"rule_table"},
	)

	ProductsMisaligned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wound_products_misaligned_total",
			Help: "Catalog products excluded by a contraindication",
		},
		[]string{"product_id"},
	)

	UrgentAlerts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wound_urgent_alerts_total",
			Help: "Urgent assessment alerts by outcome",
		},
		[]string{"outcome"},
	)
)

// JobCompleted records a successful job started at start.
func JobCompleted(taskType string, start time.Time) {
	WorkerJobsCompleted.WithLabelValues(taskType).Inc()
	WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
}

// JobFailed records a failed job under its error code.
func JobFailed(taskType, errorCode string, start time.Time) {
	WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
	WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
}
