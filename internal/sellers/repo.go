package sellers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoplane/shoplane-backend/pkg/db/models"
)

// Repository encapsulates seller profile persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a seller repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a seller profile row.
func (r *Repository) Create(ctx context.Context, profile *models.SellerProfile) (*models.SellerProfile, error) {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// FindByID loads a profile or returns nil when it does not exist.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.SellerProfile, error) {
	var profile models.SellerProfile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// FindByUserID loads the profile owned by a user, nil when absent.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.SellerProfile, error) {
	var profile models.SellerProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// Update persists the mutable profile columns.
func (r *Repository) Update(ctx context.Context, profile *models.SellerProfile) error {
	return r.db.WithContext(ctx).
		Model(&models.SellerProfile{}).
		Where("id = ?", profile.ID).
		Updates(map[string]any{
			"display_name": profile.DisplayName,
			"bio":          profile.Bio,
			"email":        profile.Email,
			"phone":        profile.Phone,
		}).Error
}

// Delete removes the profile row if it exists.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.SellerProfile{}).Error
}
