package cart

import (
	"context"

	"github.com/google/uuid"

	"github.com/shoplane/shoplane-backend/pkg/db/models"
	pkgerrors "github.com/shoplane/shoplane-backend/pkg/errors"
)

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	CartRepo    *Repository
	ProductRepo productFinder
}

// Service exposes cart line item management. Pricing and stock validation
// happen at checkout, not here.
type Service interface {
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	ListItems(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	cartRepo    *Repository
	productRepo productFinder
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product repo is required")
	}
	return &service{
		cartRepo:    params.CartRepo,
		productRepo: params.ProductRepo,
	}, nil
}

func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	if err := validateLine(userID, productID); err != nil {
		return err
	}
	if quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return s.cartRepo.Upsert(ctx, userID, productID, quantity)
}

func (s *service) ListItems(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return s.cartRepo.ListByUser(ctx, userID)
}

func (s *service) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	if err := validateLine(userID, productID); err != nil {
		return err
	}
	if quantity <= 0 {
		return s.cartRepo.RemoveItem(ctx, userID, productID)
	}
	item, err := s.cartRepo.FindItem(ctx, userID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}
	if item == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return s.cartRepo.SetQuantity(ctx, userID, productID, quantity)
}

func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	if err := validateLine(userID, productID); err != nil {
		return err
	}
	return s.cartRepo.RemoveItem(ctx, userID, productID)
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return s.cartRepo.Clear(ctx, userID)
}

func validateLine(userID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return nil
}
