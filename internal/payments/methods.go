package payments

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shoplane/shoplane-backend/internal/orders"
	"github.com/shoplane/shoplane-backend/pkg/db/models"
	"github.com/shoplane/shoplane-backend/pkg/enums"
	pkgerrors "github.com/shoplane/shoplane-backend/pkg/errors"
)

// Result type discriminators returned to the caller.
const (
	ResultTypeCard           = "card"
	ResultTypeCashOnDelivery = "cash_on_delivery"
)

// CreatePaymentResult is the method-specific payload returned by createPayment.
type CreatePaymentResult struct {
	Type                    string `json:"type"`
	IntentID                string `json:"intentId,omitempty"`
	ClientConfirmationToken string `json:"clientConfirmationToken,omitempty"`
	Status                  string `json:"status,omitempty"`
}

// methodHandler is the per-method payment creation strategy.
type methodHandler interface {
	CreatePayment(ctx context.Context, order *models.Order, amount decimal.Decimal) (*CreatePaymentResult, error)
}

// resolver maps a requested payment method to its handler. Adding a method
// means registering a handler here; the orchestration logic stays untouched.
type resolver struct {
	handlers map[enums.PaymentMethod]methodHandler
}

func newResolver(gateway GatewayClient, ledger orders.Repository, currency string) *resolver {
	return &resolver{
		handlers: map[enums.PaymentMethod]methodHandler{
			enums.PaymentMethodCard:           &cardHandler{gateway: gateway, currency: currency},
			enums.PaymentMethodCashOnDelivery: &cashOnDeliveryHandler{ledger: ledger},
		},
	}
}

func (r *resolver) Resolve(method enums.PaymentMethod) (methodHandler, error) {
	handler, ok := r.handlers[method]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported payment method %q", method))
	}
	return handler, nil
}

// cardHandler opens a gateway intent. It never writes to the ledger: card
// capture is asynchronous and only the webhook confirms the outcome.
type cardHandler struct {
	gateway  GatewayClient
	currency string
}

func (h *cardHandler) CreatePayment(ctx context.Context, order *models.Order, amount decimal.Decimal) (*CreatePaymentResult, error) {
	minor, err := ToMinorUnits(amount)
	if err != nil {
		return nil, err
	}

	intent, err := h.gateway.CreateIntent(ctx, minor, h.currency)
	if err != nil {
		return nil, err
	}

	return &CreatePaymentResult{
		Type:                    ResultTypeCard,
		IntentID:                intent.ID,
		ClientConfirmationToken: intent.ClientSecret,
	}, nil
}

// cashOnDeliveryHandler settles synchronously: a single ledger write that is
// safe to repeat.
type cashOnDeliveryHandler struct {
	ledger orders.Repository
}

func (h *cashOnDeliveryHandler) CreatePayment(ctx context.Context, order *models.Order, amount decimal.Decimal) (*CreatePaymentResult, error) {
	if _, err := ToMinorUnits(amount); err != nil {
		return nil, err
	}
	if err := h.ledger.MarkCashOnDelivery(ctx, order.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark cash on delivery")
	}
	return &CreatePaymentResult{
		Type:   ResultTypeCashOnDelivery,
		Status: enums.PaymentStatusPending.String(),
	}, nil
}
