package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"

	"github.com/shoplane/shoplane-backend/pkg/db/models"
	"github.com/shoplane/shoplane-backend/pkg/enums"
	"github.com/shoplane/shoplane-backend/pkg/logger"
)

type sweepLedger struct {
	stale       []models.Order
	listErr     error
	transitions map[string]enums.PaymentStatus
}

func (s *sweepLedger) FindStalePendingCardOrders(ctx context.Context, olderThan time.Time, limit int) ([]models.Order, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.stale, nil
}

func (s *sweepLedger) TransitionPaymentByIntent(ctx context.Context, intentID string, from, to enums.PaymentStatus, orderStatus *enums.OrderStatus) (bool, error) {
	if s.transitions == nil {
		s.transitions = map[string]enums.PaymentStatus{}
	}
	if _, done := s.transitions[intentID]; done {
		return false, nil
	}
	s.transitions[intentID] = to
	return true, nil
}

type sweepGateway struct {
	intents map[string]*stripe.PaymentIntent
	errs    map[string]error
}

func (s *sweepGateway) RetrieveIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error) {
	if err, ok := s.errs[id]; ok {
		return nil, err
	}
	return s.intents[id], nil
}

func staleOrder(intentID string) models.Order {
	return models.Order{
		ID:              uuid.New(),
		PaymentStatus:   enums.PaymentStatusPending,
		PaymentMethod:   enums.PaymentMethodCard,
		GatewayIntentID: &intentID,
	}
}

func newSweepJob(t *testing.T, ledger *sweepLedger, gateway *sweepGateway) Job {
	t.Helper()
	job, err := NewPendingPaymentsJob(PendingPaymentsJobParams{
		Logger:  logger.New(logger.Options{ServiceName: "reconcile-test"}),
		Ledger:  ledger,
		Gateway: gateway,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	return job
}

func TestPendingPaymentsJobSettlesByGatewayState(t *testing.T) {
	ledger := &sweepLedger{stale: []models.Order{
		staleOrder("pi_won"),
		staleOrder("pi_lost"),
		staleOrder("pi_open"),
	}}
	gateway := &sweepGateway{intents: map[string]*stripe.PaymentIntent{
		"pi_won":  {ID: "pi_won", Status: stripe.PaymentIntentStatusSucceeded},
		"pi_lost": {ID: "pi_lost", Status: stripe.PaymentIntentStatusCanceled},
		"pi_open": {ID: "pi_open", Status: stripe.PaymentIntentStatusRequiresPaymentMethod},
	}}
	job := newSweepJob(t, ledger, gateway)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := ledger.transitions["pi_won"]; got != enums.PaymentStatusCompleted {
		t.Fatalf("succeeded intent must complete the order, got %s", got)
	}
	if got := ledger.transitions["pi_lost"]; got != enums.PaymentStatusFailed {
		t.Fatalf("canceled intent must fail the order, got %s", got)
	}
	if _, touched := ledger.transitions["pi_open"]; touched {
		t.Fatalf("open intent must be left for a later sweep")
	}
}

func TestPendingPaymentsJobContinuesPastGatewayErrors(t *testing.T) {
	ledger := &sweepLedger{stale: []models.Order{
		staleOrder("pi_broken"),
		staleOrder("pi_won"),
	}}
	gateway := &sweepGateway{
		intents: map[string]*stripe.PaymentIntent{
			"pi_won": {ID: "pi_won", Status: stripe.PaymentIntentStatusSucceeded},
		},
		errs: map[string]error{"pi_broken": errors.New("gateway down")},
	}
	job := newSweepJob(t, ledger, gateway)

	err := job.Run(context.Background())
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
	if got := ledger.transitions["pi_won"]; got != enums.PaymentStatusCompleted {
		t.Fatalf("healthy intent must still settle, got %s", got)
	}
}

func TestPendingPaymentsJobSkipsOrdersWithoutIntent(t *testing.T) {
	ledger := &sweepLedger{stale: []models.Order{{
		ID:            uuid.New(),
		PaymentStatus: enums.PaymentStatusPending,
		PaymentMethod: enums.PaymentMethodCard,
	}}}
	job := newSweepJob(t, ledger, &sweepGateway{})

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(ledger.transitions) != 0 {
		t.Fatalf("order without intent must not transition")
	}
}
