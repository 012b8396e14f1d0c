package gatewaywebhook

import (
	"context"
	"encoding/json"

	"github.com/stripe/stripe-go/v84"

	"github.com/shoplane/shoplane-backend/pkg/db/models"
	"github.com/shoplane/shoplane-backend/pkg/enums"
	pkgerrors "github.com/shoplane/shoplane-backend/pkg/errors"
	"github.com/shoplane/shoplane-backend/pkg/metrics"
)

// Event types the router reconciles. Anything else is acknowledged and
// counted as ignored.
const (
	EventTypePaymentSucceeded stripe.EventType = "payment_succeeded"
	EventTypePaymentFailed    stripe.EventType = "payment_failed"
	EventTypeChargeRefunded   stripe.EventType = "charge_refunded"
)

type paymentLedger interface {
	FindByGatewayIntentID(ctx context.Context, intentID string) (*models.Order, error)
	TransitionPaymentByIntent(ctx context.Context, intentID string, from, to enums.PaymentStatus, orderStatus *enums.OrderStatus) (bool, error)
}

type ServiceParams struct {
	Ledger  paymentLedger
	Metrics *metrics.WebhookMetrics
}

// Service routes verified gateway events onto the payment ledger. Each event
// type maps to exactly one conditional transition; an event that finds the
// ledger in any other state is a no-op, never an overwrite.
type Service struct {
	ledger  paymentLedger
	metrics *metrics.WebhookMetrics
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Ledger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payment ledger required")
	}
	return &Service{
		ledger:  params.Ledger,
		metrics: params.Metrics,
	}, nil
}

func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "gateway event data required")
	}

	switch event.Type {
	case EventTypePaymentSucceeded:
		intentID, err := s.intentIDFromPayload(event)
		if err != nil {
			return err
		}
		orderStatus := enums.OrderStatusProcessing
		return s.transition(ctx, event.Type, intentID, enums.PaymentStatusPending, enums.PaymentStatusCompleted, &orderStatus)
	case EventTypePaymentFailed:
		intentID, err := s.intentIDFromPayload(event)
		if err != nil {
			return err
		}
		return s.transition(ctx, event.Type, intentID, enums.PaymentStatusPending, enums.PaymentStatusFailed, nil)
	case EventTypeChargeRefunded:
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			s.metrics.Observe(string(event.Type), metrics.WebhookOutcomeInvalidPayload)
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode charge event")
		}
		if charge.PaymentIntent == nil || charge.PaymentIntent.ID == "" {
			s.metrics.Observe(string(event.Type), metrics.WebhookOutcomeInvalidPayload)
			return pkgerrors.New(pkgerrors.CodeValidation, "charge event missing payment intent")
		}
		return s.transition(ctx, event.Type, charge.PaymentIntent.ID, enums.PaymentStatusCompleted, enums.PaymentStatusRefunded, nil)
	default:
		s.metrics.Observe(string(event.Type), metrics.WebhookOutcomeIgnoredType)
		return nil
	}
}

func (s *Service) intentIDFromPayload(event *stripe.Event) (string, error) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		s.metrics.Observe(string(event.Type), metrics.WebhookOutcomeInvalidPayload)
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode payment intent event")
	}
	if intent.ID == "" {
		s.metrics.Observe(string(event.Type), metrics.WebhookOutcomeInvalidPayload)
		return "", pkgerrors.New(pkgerrors.CodeValidation, "payment intent event missing id")
	}
	return intent.ID, nil
}

// transition applies the single allowed state change for the event. The
// compare-and-set loses against any concurrent or earlier writer, in which
// case the ledger row decides the outcome: a row in another state means the
// event arrived late or twice, no row means the order was never placed here.
func (s *Service) transition(ctx context.Context, eventType stripe.EventType, intentID string, from, to enums.PaymentStatus, orderStatus *enums.OrderStatus) error {
	updated, err := s.ledger.TransitionPaymentByIntent(ctx, intentID, from, to, orderStatus)
	if err != nil {
		return s.classifyLedgerError(eventType, err)
	}
	if updated {
		s.metrics.Observe(string(eventType), metrics.WebhookOutcomeProcessed)
		return nil
	}

	order, err := s.ledger.FindByGatewayIntentID(ctx, intentID)
	if err != nil {
		return s.classifyLedgerError(eventType, err)
	}
	if order == nil {
		s.metrics.Observe(string(eventType), metrics.WebhookOutcomeUnmatchedOrder)
		return nil
	}
	s.metrics.Observe(string(eventType), metrics.WebhookOutcomeNoOp)
	return nil
}

func (s *Service) classifyLedgerError(eventType stripe.EventType, err error) error {
	if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeIntegrity {
		s.metrics.Observe(string(eventType), metrics.WebhookOutcomeIntegrityFault)
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply payment transition")
}
