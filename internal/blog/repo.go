package blog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoplane/shoplane-backend/pkg/db/models"
)

// Repository encapsulates blog post persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a blog repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a blog post row.
func (r *Repository) Create(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error) {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// FindByID loads a post or returns nil when it does not exist.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	var post models.BlogPost
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// ListPublished returns published posts, newest first.
func (r *Repository) ListPublished(ctx context.Context, limit, offset int) ([]models.BlogPost, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var posts []models.BlogPost
	err := r.db.WithContext(ctx).
		Where("published = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Update persists the mutable post columns.
func (r *Repository) Update(ctx context.Context, post *models.BlogPost) error {
	return r.db.WithContext(ctx).
		Model(&models.BlogPost{}).
		Where("id = ?", post.ID).
		Updates(map[string]any{
			"title":     post.Title,
			"body":      post.Body,
			"published": post.Published,
		}).Error
}

// Delete removes the post row if it exists.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.BlogPost{}).Error
}
