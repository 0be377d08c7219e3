package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	loginsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mealtrack_logins_total",
		Help: "Total number of successful logins",
	})
	loginFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mealtrack_login_failures_total",
		Help: "Total number of failed login attempts",
	})
	auditEntriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mealtrack_audit_entries_total",
		Help: "Total number of audit entries recorded",
	})
	auditDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mealtrack_audit_dropped_total",
		Help: "Total number of audit appends dropped for lack of an actor",
	})
	guardDenialsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mealtrack_guard_denials_total",
		Help: "Total number of route guard denials",
	})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(loginsTotal, loginFailuresTotal, auditEntriesTotal, auditDroppedTotal, guardDenialsTotal)
}

// IncLogin increments the successful logins counter.
func IncLogin() { loginsTotal.Inc() }

// IncLoginFailure increments the failed login attempts counter.
func IncLoginFailure() { loginFailuresTotal.Inc() }

// IncAuditEntry increments the recorded audit entries counter.
func IncAuditEntry() { auditEntriesTotal.Inc() }

// IncAuditDropped increments the dropped audit appends counter.
func IncAuditDropped() { auditDroppedTotal.Inc() }

// IncGuardDenial increments the route guard denials counter.
func IncGuardDenial() { guardDenialsTotal.Inc() }
