// Package metrics exposes the Prometheus instrumentation for the
// authorization core: decision outcomes, bootstrap results and audited
// denials.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	authzDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intranet_authz_decisions_total",
			Help: "Authorization decisions by outcome and deny reason.",
		},
		[]string{"outcome", "reason"},
	)

	bootstrapOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intranet_bootstrap_outcomes_total",
			Help: "First-sign-in provisioning outcomes (promoted, member, existing).",
		},
		[]string{"outcome"},
	)

	auditEvents = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "intranet_audit_events_total",
			Help: "Denied-access audit events recorded.",
		},
	)
)

// Init registers the collectors on the default registry. Call once at
// process start; MustRegister panics on double registration.
func Init() {
	prometheus.MustRegister(authzDecisions, bootstrapOutcomes, auditEvents)
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordDecision counts one authorization decision. reason is empty for
// allowed decisions.
func RecordDecision(allowed bool, reason string) {
	outcome := "denied"
	if allowed {
		outcome = "allowed"
		reason = ""
	}
	authzDecisions.WithLabelValues(outcome, reason).Inc()
}

// RecordBootstrap counts one provisioning outcome: "promoted", "member" or
// "existing".
func RecordBootstrap(outcome string) {
	bootstrapOutcomes.WithLabelValues(outcome).Inc()
}

// RecordAuditEvent counts one recorded denial audit event.
func RecordAuditEvent() {
	auditEvents.Inc()
}
