package automation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run labels for the shared metrics.
const (
	runLabelAlerts     = "alerts"
	runLabelRecurrence = "recurrence"
)

var (
	alertsFired = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "seodeck",
		Subsystem: "automation",
		Name:      "alerts_fired_total",
		Help:      "Alert events created by the alert evaluation run.",
	})
	alertsSuppressed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "seodeck",
		Subsystem: "automation",
		Name:      "alerts_suppressed_total",
		Help:      "Rule matches withheld by the cooldown gate.",
	})
	tasksCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "seodeck",
		Subsystem: "automation",
		Name:      "tasks_created_total",
		Help:      "Work items materialized by automation runs.",
	})
	runErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "seodeck",
		Subsystem: "automation",
		Name:      "run_errors_total",
		Help:      "Per-rule errors recorded in run summaries.",
	}, []string{"run"})
	runDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "seodeck",
		Subsystem: "automation",
		Name:      "run_duration_seconds",
		Help:      "Wall-clock duration of evaluation runs.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"run"})
)
