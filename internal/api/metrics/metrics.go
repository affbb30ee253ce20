// Package metrics owns the custom Prometheus collectors of the SkillSwap API:
// their names, labels and help strings. HTTP request metrics come from the
// echoprometheus middleware and are not declared here.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/skillswap/skillswap-api/internal/core/domain"
)

const namespace = "skillswap"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Labels:
//   - kind: "user" or "admin"
//   - result: see Outcome
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by principal kind and result.",
	},
	[]string{"kind", "result"},
)

// LoginsTotal counts login attempts.
// Labels:
//   - kind: "user" or "admin"
//   - result: see Outcome
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by principal kind and result.",
	},
	[]string{"kind", "result"},
)

// RefreshesTotal counts refresh attempts.
// Label:
//   - result: "success" or "rejected"
var RefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total number of access-token refresh attempts.",
	},
	[]string{"result"},
)

// LoginDuration measures login latency, dominated by the bcrypt comparison.
var LoginDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "login_duration_seconds",
		Help:      "Duration of login requests from lookup to token issue.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
	},
	[]string{"kind"},
)

// ── Profile metrics ───────────────────────────────────────────────────────────

// ProfileWritesTotal counts profile mutations.
// Labels:
//   - operation: "upsert" or "delete"
//   - result: see Outcome
var ProfileWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_writes_total",
		Help:      "Total number of profile writes, by operation and result.",
	},
	[]string{"operation", "result"},
)

// Outcome turns a service error into a bounded label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, domain.ErrUnknownPrincipal):
		return "unknown_principal"
	case errors.Is(err, domain.ErrAuthenticationFailed):
		return "bad_credentials"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "locked"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrProfileNotFound):
		return "not_found"
	default:
		return "error"
	}
}
