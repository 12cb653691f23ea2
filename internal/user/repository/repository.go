package repository

import (
	"context"

	"social-platform/backend/internal/user/domain"
)

// Repository defines persistence for user accounts.
type Repository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
	// Search matches the query case-insensitively against username and
	// display name, ordered by username.
	Search(ctx context.Context, query string, limit, offset int) ([]*domain.User, error)
}
