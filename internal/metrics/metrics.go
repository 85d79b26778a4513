// Package metrics exposes Prometheus counters for the session core.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

var (
	// Registry holds the session core collectors.
	Registry = prometheus.NewRegistry()

	refreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "refresh_total",
			Help:      "Credential refresh calls issued, by outcome.",
		},
		[]string{"outcome"},
	)

	retries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "retry_total",
			Help:      "Requests replayed after a credential refresh, by outcome.",
		},
		[]string{"outcome"},
	)

	invalidations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "invalidations_total",
			Help:      "Sessions cleared because the credential could not be renewed.",
		},
		[]string{"reason"},
	)

	syncs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "sync_total",
			Help:      "Profile and cart synchronizations, by outcome.",
		},
		[]string{"outcome"},
	)
)

// Outcome labels.
const (
	Success      = "success"
	Failure      = "failure"
	Unauthorized = "unauthorized"
)

// Invalidation reasons.
const (
	ReasonRefreshFailed     = "refresh_failed"
	ReasonRetryUnauthorized = "retry_unauthorized"
)

func init() {
	Registry.MustRegister(refreshes, retries, invalidations, syncs)
}

// Handler returns an HTTP handler exposing the registered collectors.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveRefresh counts a refresh call.
func ObserveRefresh(err error) {
	refreshes.WithLabelValues(outcome(err)).Inc()
}

// ObserveRetry counts a replayed request.
func ObserveRetry(outcome string) {
	retries.WithLabelValues(outcome).Inc()
}

// ObserveInvalidation counts a forced session clear.
func ObserveInvalidation(reason string) {
	invalidations.WithLabelValues(reason).Inc()
}

// ObserveSync counts a synchronization.
func ObserveSync(err error) {
	syncs.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return Failure
	}
	return Success
}
