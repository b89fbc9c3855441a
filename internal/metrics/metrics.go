// Package metrics defines the custom Prometheus metrics of the api and
// notifier processes. Everything is registered on the default registry at
// package init through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "todo"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "not_found", "wrong_password", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "created", "conflict", "invalid", "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// TokenRejectionsTotal counts requests refused by the token verifier. The
// response never tells expired and invalid apart; this metric does.
// Label:
//   - reason: "missing", "expired", "invalid"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_token_rejections_total",
		Help:      "Total number of protected requests rejected by the token verifier.",
	},
	[]string{"reason"},
)

// ── Message metrics ───────────────────────────────────────────────────────────

// MessagesCreatedTotal counts created todo messages.
var MessagesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_created_total",
		Help:      "Total number of todo messages created.",
	},
)

// PushPublishedTotal counts push payloads handed to the transport.
// Label:
//   - result: "ok" or "error"
var PushPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "push_published_total",
		Help:      "Total number of push payloads published, by result.",
	},
	[]string{"result"},
)

// ── Notifier metrics ──────────────────────────────────────────────────────────

// PushEventsTotal counts push events handled by the presenter.
// Label:
//   - result: "shown", "payload_error", "failed"
var PushEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "push_events_total",
		Help:      "Total number of push events handled, by result.",
	},
	[]string{"result"},
)

// NotificationClicksTotal counts notification interactions.
// Labels:
//   - action: "open", "close" or "default"
//   - outcome: "focused", "opened", "dismissed", "failed"
var NotificationClicksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_clicks_total",
		Help:      "Total number of notification clicks, by action and outcome.",
	},
	[]string{"action", "outcome"},
)

// EventLifetimeDuration measures how long an event stays alive, from dispatch
// until all of its deferred work settles.
// Label:
//   - kind: "push" or "click"
var EventLifetimeDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "event_lifetime_duration_seconds",
		Help:      "Duration from event dispatch until its deferred work settles.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)

// DeliveryQueueDepth tracks pending push deliveries per dispatcher worker.
// Label:
//   - worker_id: numeric worker index
var DeliveryQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "delivery_queue_depth",
		Help:      "Current number of push deliveries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
