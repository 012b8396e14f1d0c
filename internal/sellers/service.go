package sellers

import (
	"context"

	"github.com/google/uuid"

	"github.com/shoplane/shoplane-backend/pkg/db/models"
	pkgerrors "github.com/shoplane/shoplane-backend/pkg/errors"
)

// CreateProfileInput carries validated fields for a new seller profile.
type CreateProfileInput struct {
	UserID      uuid.UUID
	DisplayName string
	Bio         *string
	Email       *string
	Phone       *string
}

// UpdateProfileInput carries the mutable profile fields.
type UpdateProfileInput struct {
	DisplayName *string
	Bio         *string
	Email       *string
	Phone       *string
}

// Service exposes seller profile management.
type Service interface {
	CreateProfile(ctx context.Context, input CreateProfileInput) (*models.SellerProfile, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*models.SellerProfile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*models.SellerProfile, error)
	DeleteProfile(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService builds a seller profile service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "seller repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateProfile(ctx context.Context, input CreateProfileInput) (*models.SellerProfile, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.DisplayName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "display name is required")
	}
	existing, err := s.repo.FindByUserID(ctx, input.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seller profile")
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "user already has a seller profile")
	}
	profile := &models.SellerProfile{
		ID:          uuid.New(),
		UserID:      input.UserID,
		DisplayName: input.DisplayName,
		Bio:         input.Bio,
		Email:       input.Email,
		Phone:       input.Phone,
	}
	return s.repo.Create(ctx, profile)
}

func (s *service) GetProfile(ctx context.Context, id uuid.UUID) (*models.SellerProfile, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seller profile")
	}
	if profile == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "seller profile not found")
	}
	return profile, nil
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*models.SellerProfile, error) {
	profile, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.DisplayName != nil {
		if *input.DisplayName == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "display name is required")
		}
		profile.DisplayName = *input.DisplayName
	}
	if input.Bio != nil {
		profile.Bio = input.Bio
	}
	if input.Email != nil {
		profile.Email = input.Email
	}
	if input.Phone != nil {
		profile.Phone = input.Phone
	}
	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update seller profile")
	}
	return profile, nil
}

func (s *service) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProfile(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
