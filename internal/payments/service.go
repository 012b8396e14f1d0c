package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"

	"github.com/shoplane/shoplane-backend/internal/orders"
	"github.com/shoplane/shoplane-backend/pkg/enums"
	pkgerrors "github.com/shoplane/shoplane-backend/pkg/errors"
)

// GatewayClient is the payment gateway surface the orchestrator depends on.
type GatewayClient interface {
	CreateIntent(ctx context.Context, amountMinorUnits int64, currency string) (*stripe.PaymentIntent, error)
	RetrieveIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error)
}

// Service orchestrates payment creation and gateway-side status polling. It
// never creates orders; it only transitions existing ones.
type Service interface {
	CreatePayment(ctx context.Context, input CreatePaymentInput) (*CreatePaymentResult, error)
	ConfirmPayment(ctx context.Context, input ConfirmPaymentInput) (*ConfirmPaymentResult, error)
}

// CreatePaymentInput carries a createPayment request.
type CreatePaymentInput struct {
	OrderID uuid.UUID
	Method  enums.PaymentMethod
	Amount  decimal.Decimal
}

// ConfirmPaymentInput carries a confirmPayment request. PaymentID is the
// gateway intent identifier.
type ConfirmPaymentInput struct {
	PaymentID string
	Method    enums.PaymentMethod
}

// ConfirmPaymentResult reports the gateway-side intent snapshot. The status is
// passed through verbatim; the orchestrator does not interpret intermediate
// gateway states.
type ConfirmPaymentResult struct {
	Status           string          `json:"status"`
	AmountMajorUnits decimal.Decimal `json:"amountMajorUnits"`
}

type ServiceParams struct {
	Ledger   orders.Repository
	Gateway  GatewayClient
	Currency string
}

type service struct {
	ledger   orders.Repository
	gateway  GatewayClient
	resolver *resolver
}

func NewService(params ServiceParams) (Service, error) {
	if params.Ledger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order ledger required")
	}
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "gateway client required")
	}
	currency := strings.ToLower(strings.TrimSpace(params.Currency))
	if currency == "" {
		currency = "usd"
	}
	return &service{
		ledger:   params.Ledger,
		gateway:  params.Gateway,
		resolver: newResolver(params.Gateway, params.Ledger, currency),
	}, nil
}

func (s *service) CreatePayment(ctx context.Context, input CreatePaymentInput) (*CreatePaymentResult, error) {
	handler, err := s.resolver.Resolve(input.Method)
	if err != nil {
		return nil, err
	}

	order, err := s.ledger.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("order %s not found", input.OrderID))
	}

	return handler.CreatePayment(ctx, order, input.Amount)
}

func (s *service) ConfirmPayment(ctx context.Context, input ConfirmPaymentInput) (*ConfirmPaymentResult, error) {
	if input.Method != enums.PaymentMethodCard {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported payment method %q", input.Method))
	}
	if strings.TrimSpace(input.PaymentID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id is required")
	}

	intent, err := s.gateway.RetrieveIntent(ctx, input.PaymentID)
	if err != nil {
		return nil, err
	}

	return &ConfirmPaymentResult{
		Status:           string(intent.Status),
		AmountMajorUnits: ToMajorUnits(intent.Amount),
	}, nil
}
