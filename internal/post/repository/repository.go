package repository

import (
	"context"

	"social-platform/backend/internal/post/domain"
)

// Repository defines persistence for posts and their media attachments.
// Reads return posts with attachments loaded.
type Repository interface {
	Create(ctx context.Context, p *domain.Post) error
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	Update(ctx context.Context, p *domain.Post) error
	Delete(ctx context.Context, id string) error
	CreateAttachment(ctx context.Context, m *domain.MediaAttachment) error
	// ListByAuthor returns the author's posts, newest first.
	ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*domain.Post, error)
	// ListFeed returns posts authored by users the viewer follows with an
	// accepted follow, excluding private posts, newest first.
	ListFeed(ctx context.Context, viewerID string, limit, offset int) ([]*domain.Post, error)
	// ListReplies returns direct replies to a post, oldest first.
	ListReplies(ctx context.Context, parentID string, limit, offset int) ([]*domain.Post, error)
}
