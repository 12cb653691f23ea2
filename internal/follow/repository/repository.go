package repository

import (
	"context"

	"social-platform/backend/internal/follow/domain"
)

// Repository defines persistence for follow edges.
type Repository interface {
	Create(ctx context.Context, f *domain.Follow) error
	GetByID(ctx context.Context, id string) (*domain.Follow, error)
	// GetByPair returns the follower->followee edge, or nil if none exists.
	GetByPair(ctx context.Context, followerID, followeeID string) (*domain.Follow, error)
	Update(ctx context.Context, f *domain.Follow) error
	Delete(ctx context.Context, id string) error
	// ListFollowers returns accepted edges pointing at userID, newest first.
	ListFollowers(ctx context.Context, userID string, limit, offset int) ([]*domain.Follow, error)
	// ListFollowing returns accepted edges originating from userID, newest first.
	ListFollowing(ctx context.Context, userID string, limit, offset int) ([]*domain.Follow, error)
	// ListPending returns pending requests awaiting userID's approval, oldest first.
	ListPending(ctx context.Context, userID string, limit, offset int) ([]*domain.Follow, error)
	CountFollowers(ctx context.Context, userID string) (int, error)
	CountFollowing(ctx context.Context, userID string) (int, error)
}
