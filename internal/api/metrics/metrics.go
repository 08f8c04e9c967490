// Package metrics defines and registers all custom Prometheus metrics for
// the LetteraTech identity API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the /metrics endpoint is mounted by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// IdentitiesIssuedTotal counts successfully created identities.
// Label:
//   - kind: "anonymous" or "email"
var IdentitiesIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "identities_issued_total",
		Help:      "Total number of identities created, by kind.",
	},
	[]string{"kind"},
)

// AuthAttemptsTotal counts authentication attempts.
// Labels:
//   - method: "password" or "code_phrase"
//   - result: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by method and result.",
	},
	[]string{"method", "result"},
)

// RecoveryRequestsTotal counts recovery-code requests.
var RecoveryRequestsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recovery_requests_total",
		Help:      "Total number of email recovery code requests.",
	},
)

// PasswordResetsTotal counts completed password changes.
// Label:
//   - method: "recovery_code" (reset flow) or "authenticated" (update flow)
var PasswordResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of successful password changes, by method.",
	},
	[]string{"method"},
)

// AuditQueueDepth tracks the current number of auth events waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of auth events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
