package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Webhook processing outcomes. Dropped or ignored events are acknowledged to
// the gateway, so counters are the only trace they leave.
const (
	WebhookOutcomeProcessed      = "processed"
	WebhookOutcomeDuplicate      = "duplicate"
	WebhookOutcomeNoOp           = "noop"
	WebhookOutcomeUnmatchedOrder = "unmatched_order"
	WebhookOutcomeIgnoredType    = "ignored_type"
	WebhookOutcomeInvalidPayload = "invalid_payload"
	WebhookOutcomeIntegrityFault = "integrity_fault"
)

// WebhookMetrics records reconciliation outcomes per event type.
type WebhookMetrics struct {
	events *prometheus.CounterVec
}

// NewWebhookMetrics registers the webhook metrics on the provided registerer.
func NewWebhookMetrics(reg prometheus.Registerer) *WebhookMetrics {
	if reg == nil {
		return &WebhookMetrics{}
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_total",
		Help: "Gateway webhook events by type and reconciliation outcome.",
	}, []string{"type", "outcome"})
	reg.MustRegister(events)
	return &WebhookMetrics{events: events}
}

// Observe increments the counter for the given event type and outcome.
func (w *WebhookMetrics) Observe(eventType, outcome string) {
	if w == nil || w.events == nil {
		return
	}
	w.events.WithLabelValues(normalizeLabel(eventType), normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
