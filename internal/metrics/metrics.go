// Package metrics exposes Prometheus instruments for the ticket service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticketsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_issued_total",
			Help: "Tickets issued, by pricing tier",
		},
		[]string{"tier"},
	)

	ticketsRedeemed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_redeemed_total",
			Help: "Tickets redeemed at the gate",
		},
	)

	custodyTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "custody_transitions_total",
			Help: "Custody transitions, by direction",
		},
		[]string{"direction"},
	)

	resaleOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resale_operations_total",
			Help: "Resale operations, by action and status",
		},
		[]string{"action", "status"},
	)

	chainCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chain_calls_total",
			Help: "Chain bridge calls, by operation and status",
		},
		[]string{"op", "status"},
	)

	chainCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chain_call_duration_seconds",
			Help:    "Duration of chain bridge calls",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"op"},
	)

	mintRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mint_retries_total",
			Help: "Out-of-band mint retries, by status",
		},
		[]string{"status"},
	)

	verifyFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verify_failures_total",
			Help: "Entry-proof verification failures, by reason",
		},
		[]string{"reason"},
	)
)

// TicketIssued records a completed sale.
func TicketIssued(tier string) {
	ticketsIssued.WithLabelValues(tier).Inc()
}

// TicketRedeemed records an admission.
func TicketRedeemed() {
	ticketsRedeemed.Inc()
}

// CustodyTransition records a claim ("claim") or a return ("return").
func CustodyTransition(direction string) {
	custodyTransitions.WithLabelValues(direction).Inc()
}

// ResaleOperation records a resale list or buy attempt.
func ResaleOperation(action, status string) {
	resaleOperations.WithLabelValues(action, status).Inc()
}

// ChainCall records a bridge call and its duration.
func ChainCall(op, status string, duration time.Duration) {
	chainCalls.WithLabelValues(op, status).Inc()
	chainCallDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// MintRetry records a mint retry attempt outcome.
func MintRetry(status string) {
	mintRetries.WithLabelValues(status).Inc()
}

// VerifyFailure records a rejected entry proof.
func VerifyFailure(reason string) {
	verifyFailures.WithLabelValues(reason).Inc()
}
