// Package metrics holds the prometheus collectors of the allocation engine
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "stall_allocation"

// Admission outcomes
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

var (
	admissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admissions_total",
		Help:      "Admission gate decisions by operation, outcome and rejection reason.",
	}, []string{"operation", "outcome", "reason"})

	admissionLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "admission_duration_seconds",
		Help:      "Time spent deciding one admission, retries included.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
	}, []string{"operation"})

	conflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "concurrency_conflicts_total",
		Help:      "Lock timeouts and serialization failures seen by the admission gate.",
	}, []string{"operation"})

	transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Session state transitions.",
	}, []string{"kind", "from", "to"})

	selections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "winner_selections_total",
		Help:      "Winner records written by method and outcome.",
	}, []string{"method", "outcome"})

	sweeps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scheduler_sweeps_total",
		Help:      "Scheduler sweeps by result.",
	}, []string{"result"})

	sweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scheduler_sweep_duration_seconds",
		Help:      "Duration of one scheduler sweep.",
		Buckets:   prometheus.DefBuckets,
	})

	notifyDrops = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_dropped_total",
		Help:      "Events dropped because the notification queue was full.",
	})
)

// TrackAdmission records one admission decision and its latency
func TrackAdmission(operation, outcome, reason string, started time.Time) {
	admissions.WithLabelValues(operation, outcome, reason).Inc()
	admissionLatency.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// TrackConflict counts one retried or surfaced concurrency conflict
func TrackConflict(operation string) {
	conflicts.WithLabelValues(operation).Inc()
}

// TrackTransition counts a session moving between states
func TrackTransition(kind, from, to string) {
	transitions.WithLabelValues(kind, from, to).Inc()
}

// TrackSelection counts one written winner record
func TrackSelection(method, outcome string) {
	selections.WithLabelValues(method, outcome).Inc()
}

// TrackSweep records a finished sweep
func TrackSweep(result string, started time.Time) {
	sweeps.WithLabelValues(result).Inc()
	sweepDuration.Observe(time.Since(started).Seconds())
}

// TrackNotificationDropped counts an event lost to a full queue
func TrackNotificationDropped() {
	notifyDrops.Inc()
}
