package repository

import (
	"context"

	"social-platform/backend/internal/share/domain"
)

// Repository defines persistence for shares.
type Repository interface {
	Create(ctx context.Context, s *domain.Share) error
	GetByID(ctx context.Context, id string) (*domain.Share, error)
	Update(ctx context.Context, s *domain.Share) error
	// Delete removes the share and reports whether a row was deleted.
	Delete(ctx context.Context, id string) (bool, error)
	// ListByPost returns shares of the post, newest first.
	ListByPost(ctx context.Context, postID string, limit, offset int) ([]*domain.Share, error)
	CountByPost(ctx context.Context, postID string) (int, error)
}
