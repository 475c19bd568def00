// Package metrics defines and registers all custom Prometheus metrics for
// the CRM back-office API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at package load;
// the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crm"

// ── Authentication metrics ───────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure" (failures are not broken down further;
//     the reason is deliberately opaque)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts successful self-service registrations.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of credentials created through registration.",
	},
)

// PasswordResetsTotal counts admin-initiated password resets.
var PasswordResetsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of admin password resets.",
	},
)

// ── Provisioning metrics ─────────────────────────────────────────────────────

// ProvisioningTotal counts credential-provisioning outcomes for newly
// created customers.
// Label:
//   - result: "created", "skipped" (no email or account exists), "failed"
var ProvisioningTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provisioning_total",
		Help:      "Total number of credential provisioning attempts, by result.",
	},
	[]string{"result"},
)

// ── Sales metrics ────────────────────────────────────────────────────────────

// SalesCreatedTotal counts ledger rows written through the API.
var SalesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sales_created_total",
		Help:      "Total number of sales recorded.",
	},
)

// StatsRequestDuration measures how long a full dashboard aggregation takes,
// including any snapshot fallback.
var StatsRequestDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "stats_request_duration_seconds",
		Help:      "Duration of dashboard statistics requests.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)
