package repository

import (
	"context"
	"time"

	"social-platform/backend/internal/notification/domain"
)

// Repository defines persistence for notifications.
type Repository interface {
	Create(ctx context.Context, n *domain.Notification) error
	// CreateBatch persists a fan-out of notifications in one transaction.
	CreateBatch(ctx context.Context, ns []*domain.Notification) error
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	Update(ctx context.Context, n *domain.Notification) error
	// ListByUser returns the user's notifications, newest first, optionally
	// filtered by status ("" means all).
	ListByUser(ctx context.Context, userID string, status domain.NotificationStatus, limit, offset int) ([]*domain.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	// DeleteExpired removes notifications whose expiry has passed and returns
	// the number deleted.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
