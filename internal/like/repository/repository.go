package repository

import (
	"context"

	"social-platform/backend/internal/like/domain"
)

// Repository defines persistence for likes.
type Repository interface {
	Create(ctx context.Context, l *domain.Like) error
	// GetByPair returns the user's like on the post, or nil if none exists.
	GetByPair(ctx context.Context, userID, postID string) (*domain.Like, error)
	// DeleteByPair removes the user's like on the post and reports whether a
	// row was deleted.
	DeleteByPair(ctx context.Context, userID, postID string) (bool, error)
	// ListByPost returns likes on the post, newest first.
	ListByPost(ctx context.Context, postID string, limit, offset int) ([]*domain.Like, error)
	CountByPost(ctx context.Context, postID string) (int, error)
}
