package repository

import (
	"context"

	"social-platform/backend/internal/message/domain"
)

// Repository defines persistence for direct messages.
type Repository interface {
	Create(ctx context.Context, m *domain.Message) error
	GetByID(ctx context.Context, id string) (*domain.Message, error)
	Update(ctx context.Context, m *domain.Message) error
	// ListConversation returns messages exchanged between the two users in
	// either direction, newest first, deleted messages excluded.
	ListConversation(ctx context.Context, userA, userB string, limit, offset int) ([]*domain.Message, error)
	// UnreadCount returns the number of unread, non-deleted messages
	// addressed to userID.
	UnreadCount(ctx context.Context, userID string) (int, error)
}
