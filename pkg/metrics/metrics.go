// Package metrics defines the Prometheus collectors for the service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	AgreementTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agreement_transitions_total",
			Help: "Agreement status transitions committed",
		},
		[]string{"from", "to"},
	)

	MilestoneTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "milestone_transitions_total",
			Help: "Milestone status transitions committed",
		},
		[]string{"from", "to"},
	)

	EscrowReleases = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escrow_releases_total",
			Help: "Escrow releases committed, by transaction type",
		},
		[]string{"type"},
	)

	CommitConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commit_conflicts_total",
			Help: "Commits rejected because a record changed since it was read",
		},
		[]string{"operation"},
	)

	VerificationOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockchain_verifications_total",
			Help: "Blockchain verification outcomes",
		},
		[]string{"network", "outcome"}, // outcome: verified, rejected, reverted, error
	)

	EventPublishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_publish_failures_total",
			Help: "Domain events that could not be delivered",
		},
		[]string{"type"},
	)
)

func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// RecordAgreementTransition is a no-op when the status did not change.
func RecordAgreementTransition(from, to string) {
	if from == to {
		return
	}
	AgreementTransitions.WithLabelValues(from, to).Inc()
}

func RecordMilestoneTransition(from, to string) {
	if from == to {
		return
	}
	MilestoneTransitions.WithLabelValues(from, to).Inc()
}

func RecordEscrowRelease(txType string) {
	EscrowReleases.WithLabelValues(txType).Inc()
}

func RecordCommitConflict(operation string) {
	CommitConflicts.WithLabelValues(operation).Inc()
}

func RecordVerification(network, outcome string) {
	VerificationOutcomes.WithLabelValues(network, outcome).Inc()
}

func RecordEventPublishFailure(eventType string) {
	EventPublishFailures.WithLabelValues(eventType).Inc()
}
