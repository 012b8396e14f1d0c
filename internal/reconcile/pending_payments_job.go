package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v84"
	"go.uber.org/multierr"

	"github.com/shoplane/shoplane-backend/pkg/db/models"
	"github.com/shoplane/shoplane-backend/pkg/enums"
	"github.com/shoplane/shoplane-backend/pkg/logger"
)

const (
	defaultPendingLimit = 100
	defaultPendingAfter = 30 * time.Minute
)

type paymentLedger interface {
	FindStalePendingCardOrders(ctx context.Context, olderThan time.Time, limit int) ([]models.Order, error)
	TransitionPaymentByIntent(ctx context.Context, intentID string, from, to enums.PaymentStatus, orderStatus *enums.OrderStatus) (bool, error)
}

type intentFetcher interface {
	RetrieveIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error)
}

// PendingPaymentsJobParams configures the stale-payment sweep.
type PendingPaymentsJobParams struct {
	Logger       *logger.Logger
	Ledger       paymentLedger
	Gateway      intentFetcher
	Limit        int
	PendingAfter time.Duration
	Now          func() time.Time
}

// NewPendingPaymentsJob builds a job that settles card orders whose webhook
// never arrived by asking the gateway for the intent's current state.
func NewPendingPaymentsJob(params PendingPaymentsJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("payment ledger required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("gateway client required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultPendingLimit
	}
	pendingAfter := params.PendingAfter
	if pendingAfter <= 0 {
		pendingAfter = defaultPendingAfter
	}
	return &pendingPaymentsJob{
		logg:         params.Logger,
		ledger:       params.Ledger,
		gateway:      params.Gateway,
		now:          now,
		limit:        limit,
		pendingAfter: pendingAfter,
	}, nil
}

type pendingPaymentsJob struct {
	logg         *logger.Logger
	ledger       paymentLedger
	gateway      intentFetcher
	now          func() time.Time
	limit        int
	pendingAfter time.Duration
}

func (j *pendingPaymentsJob) Name() string { return "pending-payments" }

func (j *pendingPaymentsJob) Run(ctx context.Context) error {
	cutoff := j.now().Add(-j.pendingAfter)
	stale, err := j.ledger.FindStalePendingCardOrders(ctx, cutoff, j.limit)
	if err != nil {
		return fmt.Errorf("list stale pending orders: %w", err)
	}

	var errs error
	settled := 0
	for i := range stale {
		resolved, err := j.reconcileOrder(ctx, &stale[i])
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if resolved {
			settled++
		}
	}
	reportCtx := j.logg.WithFields(ctx, map[string]any{
		"candidates": len(stale),
		"settled":    settled,
	})
	j.logg.Info(reportCtx, "pending payment sweep complete")
	return errs
}

func (j *pendingPaymentsJob) reconcileOrder(ctx context.Context, order *models.Order) (bool, error) {
	if order.GatewayIntentID == nil || *order.GatewayIntentID == "" {
		return false, nil
	}
	intentID := *order.GatewayIntentID
	logCtx := j.logg.WithOrderID(ctx, order.ID.String())
	logCtx = j.logg.WithIntentID(logCtx, intentID)

	intent, err := j.gateway.RetrieveIntent(logCtx, intentID)
	if err != nil {
		return false, fmt.Errorf("fetch intent %s: %w", intentID, err)
	}

	switch intent.Status {
	case stripe.PaymentIntentStatusSucceeded:
		orderStatus := enums.OrderStatusProcessing
		updated, err := j.ledger.TransitionPaymentByIntent(logCtx, intentID, enums.PaymentStatusPending, enums.PaymentStatusCompleted, &orderStatus)
		if err != nil {
			return false, fmt.Errorf("complete order for intent %s: %w", intentID, err)
		}
		if updated {
			j.logg.Info(logCtx, "stale payment settled as completed")
		}
		return updated, nil
	case stripe.PaymentIntentStatusCanceled:
		updated, err := j.ledger.TransitionPaymentByIntent(logCtx, intentID, enums.PaymentStatusPending, enums.PaymentStatusFailed, nil)
		if err != nil {
			return false, fmt.Errorf("fail order for intent %s: %w", intentID, err)
		}
		if updated {
			j.logg.Info(logCtx, "stale payment settled as failed")
		}
		return updated, nil
	default:
		// Intent still open at the gateway; leave the row for a later sweep.
		return false, nil
	}
}
