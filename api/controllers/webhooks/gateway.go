package webhooks

import (
	"context"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/webhook"

	"github.com/shoplane/shoplane-backend/api/responses"
	pkgerrors "github.com/shoplane/shoplane-backend/pkg/errors"
	"github.com/shoplane/shoplane-backend/pkg/logger"
	"github.com/shoplane/shoplane-backend/pkg/metrics"
)

type GatewayWebhookService interface {
	HandleEvent(ctx context.Context, event *stripe.Event) error
}

type gatewayWebhookGuard interface {
	CheckAndMark(ctx context.Context, eventID string) (bool, error)
	Delete(ctx context.Context, eventID string) error
}

type gatewayClient interface {
	SigningSecret() string
}

// ackPayload is the bare acknowledgement the gateway expects; it is never
// wrapped in the API envelope.
type ackPayload struct {
	Received bool `json:"received"`
}

// GatewayWebhook verifies, deduplicates, and routes payment events. The
// gateway redelivers anything not answered with 200, so every outcome other
// than a rejected payload or an integrity fault is acknowledged.
func GatewayWebhook(svc GatewayWebhookService, client gatewayClient, guard gatewayWebhookGuard, webhookMetrics *metrics.WebhookMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil || client == nil || guard == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook pipeline unavailable"))
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		sigHeader := r.Header.Get("Stripe-Signature")
		if sigHeader == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "gateway signature missing"))
			return
		}

		event, err := webhook.ConstructEvent(payload, sigHeader, client.SigningSecret())
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "verify signature"))
			return
		}

		alreadyProcessed, err := guard.CheckAndMark(ctx, event.ID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
			return
		}
		if alreadyProcessed {
			webhookMetrics.Observe(string(event.Type), metrics.WebhookOutcomeDuplicate)
			responses.WriteRaw(w, http.StatusOK, ackPayload{Received: true})
			return
		}

		if err := svc.HandleEvent(ctx, &event); err != nil {
			// Drop the claim so a redelivery can retry from a clean slate.
			_ = guard.Delete(ctx, event.ID)
			typed := pkgerrors.As(err)
			switch {
			case typed != nil && typed.Code() == pkgerrors.CodeIntegrity:
				responses.WriteError(ctx, logg, w, err)
				return
			case typed != nil && typed.Code() == pkgerrors.CodeValidation:
				responses.WriteError(ctx, logg, w, err)
				return
			default:
				// Transient failure. Acknowledge anyway: the ledger write is
				// conditional, so the reconcile sweep settles the order later.
				if logg != nil {
					logg.Error(ctx, "gateway event dropped", err)
				}
				responses.WriteRaw(w, http.StatusOK, ackPayload{Received: true})
				return
			}
		}

		if logg != nil {
			eventCtx := logg.WithField(ctx, "event_id", event.ID)
			logg.Info(eventCtx, "gateway event processed")
		}
		responses.WriteRaw(w, http.StatusOK, ackPayload{Received: true})
	}
}
