package repository

import (
	"context"

	"social-platform/backend/internal/comment/domain"
)

// Repository defines persistence for comments.
type Repository interface {
	Create(ctx context.Context, c *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	Update(ctx context.Context, c *domain.Comment) error
	// Delete removes the comment and reports whether a row was deleted.
	Delete(ctx context.Context, id string) (bool, error)
	// ListByPost returns comments on the post, oldest first.
	ListByPost(ctx context.Context, postID string, limit, offset int) ([]*domain.Comment, error)
	CountByPost(ctx context.Context, postID string) (int, error)
}
