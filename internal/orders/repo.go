package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoplane/shoplane-backend/pkg/db/models"
	"github.com/shoplane/shoplane-backend/pkg/enums"
	pkgerrors "github.com/shoplane/shoplane-backend/pkg/errors"
)

// Repository is the durable order ledger consumed by the payment engine.
type Repository interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByGatewayIntentID(ctx context.Context, intentID string) (*models.Order, error)
	SetGatewayIntentID(ctx context.Context, orderID uuid.UUID, intentID string) error
	MarkCashOnDelivery(ctx context.Context, orderID uuid.UUID) error
	TransitionPaymentByIntent(ctx context.Context, intentID string, from, to enums.PaymentStatus, orderStatus *enums.OrderStatus) (bool, error)
	FindStalePendingCardOrders(ctx context.Context, olderThan time.Time, limit int) ([]models.Order, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an order ledger repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// FindByGatewayIntentID resolves an intent to its owning order. More than one
// match is a data-integrity fault, never a normal branch.
func (r *repository) FindByGatewayIntentID(ctx context.Context, intentID string) (*models.Order, error) {
	var matches []models.Order
	err := r.db.WithContext(ctx).
		Where("gateway_intent_id = ?", intentID).
		Limit(2).
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return &matches[0], nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeIntegrity, fmt.Sprintf("multiple orders share gateway intent %s", intentID))
	}
}

func (r *repository) SetGatewayIntentID(ctx context.Context, orderID uuid.UUID, intentID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("gateway_intent_id", intentID).Error
}

// MarkCashOnDelivery re-asserts the pending/processing pair; retries are
// harmless by construction.
func (r *repository) MarkCashOnDelivery(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"payment_status": enums.PaymentStatusPending,
			"payment_method": enums.PaymentMethodCashOnDelivery,
			"status":         enums.OrderStatusProcessing,
		}).Error
}

// TransitionPaymentByIntent applies a single compare-and-swap write scoped by
// intent id. The prior-state guard makes duplicate and out-of-order webhook
// deliveries collapse into no-ops: it returns (false, nil) when the row was
// not in the expected state.
func (r *repository) TransitionPaymentByIntent(ctx context.Context, intentID string, from, to enums.PaymentStatus, orderStatus *enums.OrderStatus) (bool, error) {
	updates := map[string]any{"payment_status": to}
	if orderStatus != nil {
		updates["status"] = *orderStatus
	}
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("gateway_intent_id = ? AND payment_status = ?", intentID, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 1 {
		return false, pkgerrors.New(pkgerrors.CodeIntegrity, fmt.Sprintf("multiple orders share gateway intent %s", intentID))
	}
	return res.RowsAffected > 0, nil
}

// FindStalePendingCardOrders lists card orders that have an intent assigned
// but never received a terminal webhook. The reconcile worker sweeps these.
func (r *repository) FindStalePendingCardOrders(ctx context.Context, olderThan time.Time, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	var stale []models.Order
	err := r.db.WithContext(ctx).
		Where(
			"payment_status = ? AND payment_method = ? AND gateway_intent_id IS NOT NULL AND updated_at < ?",
			enums.PaymentStatusPending, enums.PaymentMethodCard, olderThan,
		).
		Order("updated_at ASC").
		Limit(limit).
		Find(&stale).Error
	if err != nil {
		return nil, err
	}
	return stale, nil
}
