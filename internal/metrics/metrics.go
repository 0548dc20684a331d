package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tagorder"

var (
	// WebhookEventsTotal counts verified webhook events by type and outcome.
	WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "billing",
		Name:      "webhook_events_total",
		Help:      "Verified Stripe webhook events by event type and outcome.",
	}, []string{"event_type", "outcome"})

	// WebhookRejectedTotal counts deliveries that failed signature checks.
	WebhookRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "billing",
		Name:      "webhook_rejected_total",
		Help:      "Stripe webhook deliveries rejected for a missing or invalid signature.",
	})

	WebhookDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "billing",
		Name:      "webhook_duration_seconds",
		Help:      "Stripe webhook processing duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"event_type"})

	// SecondaryFailuresTotal counts best-effort steps that failed without
	// failing the webhook (tag backfill, referral cascade, event log, notify).
	SecondaryFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "billing",
		Name:      "secondary_failures_total",
		Help:      "Best-effort reconciliation steps that failed.",
	}, []string{"step"})

	TagsProvisionedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tags",
		Name:      "provisioned_total",
		Help:      "Tags inserted by quota backfill.",
	})

	CheckoutSessionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "billing",
		Name:      "checkout_sessions_total",
		Help:      "Checkout session attempts by outcome.",
	}, []string{"outcome"})

	StoreLookupOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "stores",
		Name:      "lookup_outcomes_total",
		Help:      "Retried store lookups by outcome.",
	}, []string{"outcome"})

	EarlyBirdRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "capacity",
		Name:      "early_bird_remaining",
		Help:      "Early-bird slots left at the last capacity refresh.",
	})

	ArchivedEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "retention",
		Name:      "billing_events_total",
		Help:      "Billing events archived or deleted by the retention workers.",
	}, []string{"action"})
)
