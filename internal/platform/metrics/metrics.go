// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics exposes Prometheus collectors for the authentication flow.

Collectors are registered on a dedicated registry rather than the global one so
that tests can build independent instances. A nil [*AuthMetrics] is valid and
records nothing.
*/
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "swifttravel_auth"

// # Outcome Labels

const (
	OutcomeSuccess     = "success"
	OutcomeRateLimited = "rate_limited"
	OutcomeInvalid     = "invalid"
	OutcomeExpired     = "expired"
	OutcomeRevoked     = "revoked"
	OutcomeNoToken     = "no_token"
	OutcomeError       = "error"
)

// AuthMetrics groups every collector of the auth subsystem.
type AuthMetrics struct {
	registry *prometheus.Registry

	linksIssued        *prometheus.CounterVec
	verifications      *prometheus.CounterVec
	sessionValidations *prometheus.CounterVec
	revocations        prometheus.Counter
	revocationFailOpen prometheus.Counter
}

// New creates the collectors and registers them, plus the Go runtime and
// process collectors, on a fresh registry.
func New() *AuthMetrics {
	registry := prometheus.NewRegistry()

	authMetrics := &AuthMetrics{
		registry: registry,
		linksIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "magic_links_total",
			Help:      "Magic-link issuance attempts by outcome.",
		}, []string{"outcome"}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verifications_total",
			Help:      "Magic-link verification attempts by outcome.",
		}, []string{"outcome"}),
		sessionValidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_validations_total",
			Help:      "Session validations by outcome.",
		}, []string{"outcome"}),
		revocations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "revocations_total",
			Help:      "Session tokens revoked.",
		}),
		revocationFailOpen: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "revocation_fail_open_total",
			Help:      "Revocation lookups that failed and were treated as not revoked.",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		authMetrics.linksIssued,
		authMetrics.verifications,
		authMetrics.sessionValidations,
		authMetrics.revocations,
		authMetrics.revocationFailOpen,
	)

	return authMetrics
}

// Handler serves the registry in the Prometheus exposition format.
func (m *AuthMetrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *AuthMetrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// # Recorders

func (m *AuthMetrics) LinkIssued(outcome string) {
	if m == nil {
		return
	}
	m.linksIssued.WithLabelValues(outcome).Inc()
}

func (m *AuthMetrics) Verification(outcome string) {
	if m == nil {
		return
	}
	m.verifications.WithLabelValues(outcome).Inc()
}

func (m *AuthMetrics) SessionValidation(outcome string) {
	if m == nil {
		return
	}
	m.sessionValidations.WithLabelValues(outcome).Inc()
}

func (m *AuthMetrics) Revoked() {
	if m == nil {
		return
	}
	m.revocations.Inc()
}

func (m *AuthMetrics) RevocationFailOpen() {
	if m == nil {
		return
	}
	m.revocationFailOpen.Inc()
}
