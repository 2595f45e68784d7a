// Package metrics defines and registers all custom Prometheus metrics for the
// Voicify API. It is the single source of truth for metric names, labels, and
// help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "voicify"

// ── Conversion metrics ────────────────────────────────────────────────────────

// ConversionsTotal counts successful text-to-speech conversions.
// Label:
//   - language: the requested language code (e.g. "en")
var ConversionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "conversions_total",
		Help:      "Total number of successful text-to-speech conversions.",
	},
	[]string{"language"},
)

// ConversionErrorsTotal counts failed conversion attempts.
// Label:
//   - reason: short description of the failure ("invalid_language", "synthesis", "storage")
var ConversionErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "conversion_errors_total",
		Help:      "Total number of conversions that failed, labelled by reason.",
	},
	[]string{"reason"},
)

// SynthesisDuration measures how long one call to the synthesis engine takes.
// Label:
//   - language: the requested language code
var SynthesisDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "synthesis_duration_seconds",
		Help:      "Duration of a single synthesis engine invocation.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"language"},
)

// ── Artifact metrics ──────────────────────────────────────────────────────────

// ArtifactsSweptTotal counts audio files removed by the retention sweep.
var ArtifactsSweptTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "artifacts_swept_total",
		Help:      "Total number of audio artifacts deleted by the cleanup sweep.",
	},
)

// SweepErrorsTotal counts per-file delete failures during a sweep.
var SweepErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweep_errors_total",
		Help:      "Total number of artifact deletions that failed during cleanup sweeps.",
	},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthFailuresTotal counts rejected authentication attempts.
// Label:
//   - reason: "missing_token", "invalid_token", "bad_credentials", "rate_limited"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of rejected authentication attempts, by reason.",
	},
	[]string{"reason"},
)

// ResetEmailsTotal counts password-reset emails handed to the mail transport.
// Label:
//   - result: "sent" or "failed"
var ResetEmailsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reset_emails_total",
		Help:      "Total number of password-reset emails attempted, by result.",
	},
	[]string{"result"},
)
