// Package metrics defines all custom Prometheus metrics for the LearnHub
// client shell. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry through
// promauto when the package is first imported; /metrics serves them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "learnhub"

// ── Gateway metrics ───────────────────────────────────────────────────────────

// GatewayRequestsTotal counts outbound calls to the backend API.
// Labels:
//   - method: HTTP method (e.g. "GET")
//   - code: response status code, or "error" when no response was received
var GatewayRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_requests_total",
		Help:      "Total number of backend requests sent through the gateway.",
	},
	[]string{"method", "code"},
)

// GatewayRequestDuration measures backend round-trip latency.
// Label:
//   - method: HTTP method
var GatewayRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_request_duration_seconds",
		Help:      "Duration of backend round trips made by the gateway.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"method"},
)

// ReauthTotal counts runs of the reauth-failure protocol.
// Label:
//   - result: "logged_out" (session ended), "stale" (token already replaced),
//     or "error" (credential store failed while clearing)
var ReauthTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_reauth_total",
		Help:      "Total number of 401-triggered reauth protocol runs, by result.",
	},
	[]string{"result"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionTransitionsTotal counts committed session state changes.
// Label:
//   - state: "authenticated" or "anonymous" after the change
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session state changes, by resulting state.",
	},
	[]string{"state"},
)

// SessionAuthenticated is 1 while a user is signed in, 0 otherwise.
var SessionAuthenticated = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "session_authenticated",
		Help:      "Whether a user is currently signed in (1) or not (0).",
	},
)

// ── Navigation metrics ────────────────────────────────────────────────────────

// GuardDecisionsTotal counts access-gate decisions taken by the shell.
// Label:
//   - decision: "loading", "redirect", or "render"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of access guard decisions, by kind.",
	},
	[]string{"decision"},
)

// RedirectsTotal counts navigations performed by the navigator.
// Label:
//   - to: target path (e.g. "/login")
var RedirectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "redirects_total",
		Help:      "Total number of redirects performed, by target path.",
	},
	[]string{"to"},
)
