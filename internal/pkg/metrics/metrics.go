// Package metrics defines and registers all custom Prometheus metrics for the
// referral service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "referral"

// ── Referral metrics ──────────────────────────────────────────────────────────

// ReferralsCreatedTotal counts referrals created.
// Label:
//   - role: role of the referring account ("User" or "Admin")
var ReferralsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "referrals_created_total",
		Help:      "Total number of referrals created, by referring role.",
	},
	[]string{"role"},
)

// ReferralStatusChangesTotal counts status overwrites, labelled by the new status.
var ReferralStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_changes_total",
		Help:      "Total number of referral status changes, by resulting status.",
	},
	[]string{"status"},
)

// ReferralsDeletedTotal counts permanent referral removals.
var ReferralsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "referrals_deleted_total",
		Help:      "Total number of referrals deleted.",
	},
)

// ReferralsByStatus is refreshed periodically from the store.
var ReferralsByStatus = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "referrals_by_status",
		Help:      "Current number of stored referrals per status.",
	},
	[]string{"status"},
)

// AccessDeniedTotal counts requests refused by the access policy.
// Label:
//   - action: policy action name (e.g. "delete", "update-status")
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of operations refused by the access policy.",
	},
	[]string{"action"},
)

// ── Resume metrics ────────────────────────────────────────────────────────────

// ResumeUploadsTotal counts uploads to the asset host.
// Label:
//   - result: "ok" or "error"
var ResumeUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resume_uploads_total",
		Help:      "Total number of resume uploads, by result.",
	},
	[]string{"result"},
)

// ResumeUploadDuration measures the round trip to the asset host.
var ResumeUploadDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "resume_upload_duration_seconds",
		Help:      "Duration of resume uploads to the asset host.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "not_registered", "invalid_credential", "throttled" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Activity metrics ──────────────────────────────────────────────────────────

// ActivityRecordedTotal counts activity entries persisted, by action.
var ActivityRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_recorded_total",
		Help:      "Total number of referral activity entries persisted.",
	},
	[]string{"action"},
)

// ActivityErrorsTotal counts activity entries that were not persisted.
// Label:
//   - reason: "queue_full", "closed", "insert_failed" or "invalid_record"
var ActivityErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_errors_total",
		Help:      "Total number of referral activity entries dropped or failed.",
	},
	[]string{"reason"},
)

// ActivityQueueDepth tracks the number of entries waiting in each worker channel.
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of activity entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityProcessingDuration measures dequeue-to-persistence time per entry.
var ActivityProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "activity_processing_duration_seconds",
		Help:      "Duration of activity processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"action"},
)

// RateLimitedTotal counts requests rejected by a rate limiter.
// Label:
//   - scope: limiter name (e.g. "login")
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by a rate limiter.",
	},
	[]string{"scope"},
)
