package blog

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/shoplane/shoplane-backend/pkg/db/models"
	pkgerrors "github.com/shoplane/shoplane-backend/pkg/errors"
)

// CreatePostInput carries validated fields for a new post.
type CreatePostInput struct {
	AuthorID  uuid.UUID
	Title     string
	Body      string
	Tags      []string
	Published bool
}

// UpdatePostInput carries the mutable post fields.
type UpdatePostInput struct {
	Title     *string
	Body      *string
	Tags      *[]string
	Published *bool
}

// Service exposes blog post management.
type Service interface {
	CreatePost(ctx context.Context, input CreatePostInput) (*models.BlogPost, error)
	GetPost(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
	ListPosts(ctx context.Context, limit, offset int) ([]models.BlogPost, error)
	UpdatePost(ctx context.Context, id uuid.UUID, input UpdatePostInput) (*models.BlogPost, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService builds a blog service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "blog repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreatePost(ctx context.Context, input CreatePostInput) (*models.BlogPost, error) {
	if input.AuthorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "author id is required")
	}
	if input.Title == "" || input.Body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title and body are required")
	}
	post := &models.BlogPost{
		ID:        uuid.New(),
		AuthorID:  input.AuthorID,
		Title:     input.Title,
		Body:      input.Body,
		Tags:      pq.StringArray(input.Tags),
		Published: input.Published,
	}
	return s.repo.Create(ctx, post)
}

func (s *service) GetPost(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load post")
	}
	if post == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
	}
	return post, nil
}

func (s *service) ListPosts(ctx context.Context, limit, offset int) ([]models.BlogPost, error) {
	return s.repo.ListPublished(ctx, limit, offset)
}

func (s *service) UpdatePost(ctx context.Context, id uuid.UUID, input UpdatePostInput) (*models.BlogPost, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Title != nil {
		if *input.Title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
		}
		post.Title = *input.Title
	}
	if input.Body != nil {
		if *input.Body == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "body is required")
		}
		post.Body = *input.Body
	}
	if input.Tags != nil {
		post.Tags = pq.StringArray(*input.Tags)
	}
	if input.Published != nil {
		post.Published = *input.Published
	}
	if err := s.repo.Update(ctx, post); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update post")
	}
	return post, nil
}

func (s *service) DeletePost(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetPost(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
