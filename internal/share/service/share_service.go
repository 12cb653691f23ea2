package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	notifdomain "social-platform/backend/internal/notification/domain"
	notifservice "social-platform/backend/internal/notification/service"
	"social-platform/backend/internal/pagination"
	postdomain "social-platform/backend/internal/post/domain"
	"social-platform/backend/internal/share/domain"
)

// Sentinel errors for the share service; callers map them to transport codes.
var (
	ErrShareNotFound = errors.New("share not found")
	ErrNotAuthorized = errors.New("not authorized to modify this share")
)

// ShareRepo is the minimal share repository needed by the share service.
type ShareRepo interface {
	Create(ctx context.Context, sh *domain.Share) error
	GetByID(ctx context.Context, id string) (*domain.Share, error)
	Update(ctx context.Context, sh *domain.Share) error
	Delete(ctx context.Context, id string) (bool, error)
	ListByPost(ctx context.Context, postID string, limit, offset int) ([]*domain.Share, error)
	CountByPost(ctx context.Context, postID string) (int, error)
}

// PostGetter resolves a post as seen by a viewer, enforcing visibility.
type PostGetter interface {
	GetPost(ctx context.Context, viewerID, postID string) (*postdomain.Post, error)
}

// Notifier delivers notifications; nil disables them.
type Notifier interface {
	Notify(ctx context.Context, userID string, in notifservice.CreateInput) error
}

// ShareService implements resharing posts with an optional commentary.
type ShareService struct {
	shares   ShareRepo
	posts    PostGetter
	notifier Notifier // nil disables share notifications
	maxLimit int
}

// NewShareService returns a ShareService with the given dependencies.
// notifier may be nil to disable share notifications.
func NewShareService(shares ShareRepo, posts PostGetter, notifier Notifier, maxLimit int) *ShareService {
	if maxLimit <= 0 {
		maxLimit = pagination.DefaultMaxLimit
	}
	return &ShareService{shares: shares, posts: posts, notifier: notifier, maxLimit: maxLimit}
}

// Share reshares a post visible to userID, with optional commentary. The
// post's author is notified, but not when resharing their own post.
func (s *ShareService) Share(ctx context.Context, userID, postID string, comment *string) (*domain.Share, error) {
	post, err := s.posts.GetPost(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	sh, err := domain.NewShare(uuid.New().String(), userID, postID, comment)
	if err != nil {
		return nil, err
	}
	if err := s.shares.Create(ctx, sh); err != nil {
		return nil, err
	}
	if s.notifier != nil && post.AuthorID != userID {
		_ = s.notifier.Notify(ctx, post.AuthorID, notifservice.CreateInput{
			Type:       notifdomain.NotificationTypeSystem,
			Title:      "Post shared",
			Message:    "someone shared your post",
			ActorID:    userID,
			EntityID:   postID,
			EntityType: "post",
		})
	}
	return sh, nil
}

// UpdateComment replaces or clears the share commentary. Share owner only.
func (s *ShareService) UpdateComment(ctx context.Context, userID, shareID string, comment *string) (*domain.Share, error) {
	sh, err := s.getOwned(ctx, userID, shareID)
	if err != nil {
		return nil, err
	}
	if err := sh.UpdateComment(comment); err != nil {
		return nil, err
	}
	if err := s.shares.Update(ctx, sh); err != nil {
		return nil, err
	}
	return sh, nil
}

// DeleteShare removes the share. Share owner only.
func (s *ShareService) DeleteShare(ctx context.Context, userID, shareID string) error {
	if _, err := s.getOwned(ctx, userID, shareID); err != nil {
		return err
	}
	deleted, err := s.shares.Delete(ctx, shareID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrShareNotFound
	}
	return nil
}

// ListShares returns shares of a post visible to viewerID, newest first.
func (s *ShareService) ListShares(ctx context.Context, viewerID, postID string, limit, offset int) ([]*domain.Share, error) {
	if _, err := s.posts.GetPost(ctx, viewerID, postID); err != nil {
		return nil, err
	}
	limit, offset = pagination.Clamp(limit, offset, pagination.DefaultLimit, s.maxLimit)
	return s.shares.ListByPost(ctx, postID, limit, offset)
}

// Count returns the number of shares of a post visible to viewerID.
func (s *ShareService) Count(ctx context.Context, viewerID, postID string) (int, error) {
	if _, err := s.posts.GetPost(ctx, viewerID, postID); err != nil {
		return 0, err
	}
	return s.shares.CountByPost(ctx, postID)
}

func (s *ShareService) getOwned(ctx context.Context, userID, shareID string) (*domain.Share, error) {
	sh, err := s.shares.GetByID(ctx, shareID)
	if err != nil {
		return nil, err
	}
	if sh == nil {
		return nil, ErrShareNotFound
	}
	if sh.UserID != userID {
		return nil, ErrNotAuthorized
	}
	return sh, nil
}
