// Package metrics registers the engine's Prometheus collectors. Rejected
// transitions are counted here instead of being written to the audit ledger,
// which stays reserved for state changes that actually happened.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransitionsApplied counts state transitions that committed.
	TransitionsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orderflow",
		Name:      "transitions_applied_total",
		Help:      "State transitions that were validated and committed.",
	}, []string{"kind", "to"})

	// TransitionsRejected counts transition requests refused by the
	// transition tables.
	TransitionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orderflow",
		Name:      "transitions_rejected_total",
		Help:      "Transition requests rejected as not allowed from the current state.",
	}, []string{"kind"})

	// ConflictRetries counts optimistic-lock conflicts that triggered an
	// internal retry of a transition command.
	ConflictRetries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "orderflow",
		Name:      "transition_conflict_retries_total",
		Help:      "Version conflicts detected while committing a transition.",
	})

	// TaskAttempts counts task attempt outcomes per task type.
	TaskAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orderflow",
		Name:      "task_attempts_total",
		Help:      "Background task attempts by outcome.",
	}, []string{"task_type", "outcome"})

	// OutboxPublished counts outbox events relayed to the broker.
	OutboxPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "orderflow",
		Name:      "outbox_events_published_total",
		Help:      "Outbox events successfully published to the broker.",
	})
)

// Task attempt outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeRetry    = "retry"
	OutcomeTerminal = "terminal"
	OutcomeSkipped  = "skipped"
)
