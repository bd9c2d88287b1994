// Package metrics defines and registers the custom Prometheus metrics for the
// identity service. It is the single source of truth for metric names, labels,
// and help strings; promauto registers everything with the default registry at
// package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// RegistrationsTotal counts completed registrations.
// Label:
//   - role: role assigned to the new account ("standard", "admin")
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of successful user registrations, by role.",
	},
	[]string{"role"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "failed" (unknown user and wrong secret are not
//     distinguished, matching the API's enumeration-resistant behaviour)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenVerificationsTotal counts bearer-token checks on protected routes.
// Label:
//   - result: "ok", "invalid" (malformed/mis-signed/expired) or
//     "unknown_subject" (valid token, deleted account)
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of bearer token verifications, by result.",
	},
	[]string{"result"},
)

// DirectoryCacheTotal counts identity-cache lookups on the authentication path.
// Label:
//   - result: "hit" (served from redis) or "miss" (fell through to the directory)
var DirectoryCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "directory_cache_total",
		Help:      "Total number of identity cache lookups, by result (hit/miss).",
	},
	[]string{"result"},
)

// LoginDuration measures the full login path, bcrypt compare included.
var LoginDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "login_duration_seconds",
		Help:      "Duration of login handling from bind to token issuance.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)
