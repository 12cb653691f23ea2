package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"social-platform/backend/internal/db"
	"social-platform/backend/internal/like/domain"
	notifdomain "social-platform/backend/internal/notification/domain"
	notifservice "social-platform/backend/internal/notification/service"
	"social-platform/backend/internal/pagination"
	postdomain "social-platform/backend/internal/post/domain"
)

// Sentinel errors for the like service; callers map them to transport codes.
var (
	ErrAlreadyLiked = errors.New("post is already liked by this user")
	ErrLikeNotFound = errors.New("like not found")
)

// LikeRepo is the minimal like repository needed by the like service.
type LikeRepo interface {
	Create(ctx context.Context, l *domain.Like) error
	GetByPair(ctx context.Context, userID, postID string) (*domain.Like, error)
	DeleteByPair(ctx context.Context, userID, postID string) (bool, error)
	ListByPost(ctx context.Context, postID string, limit, offset int) ([]*domain.Like, error)
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

// LikeService implements liking and unliking posts.
type LikeService struct {
	likes    LikeRepo
	posts    PostGetter
	notifier Notifier // nil disables like notifications
	maxLimit int
}

// NewLikeService returns a LikeService with the given dependencies. notifier
// may be nil to disable like notifications.
func NewLikeService(likes LikeRepo, posts PostGetter, notifier Notifier, maxLimit int) *LikeService {
	if maxLimit <= 0 {
		maxLimit = pagination.DefaultMaxLimit
	}
	return &LikeService{likes: likes, posts: posts, notifier: notifier, maxLimit: maxLimit}
}

// Like records userID liking postID. The post must be visible to the user;
// liking twice fails. The post's author is notified, but not for self-likes.
func (s *LikeService) Like(ctx context.Context, userID, postID string) (*domain.Like, error) {
	post, err := s.posts.GetPost(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if existing, err := s.likes.GetByPair(ctx, userID, postID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrAlreadyLiked
	}
	l, err := domain.NewLike(uuid.New().String(), userID, postID)
	if err != nil {
		return nil, err
	}
	if err := s.likes.Create(ctx, l); err != nil {
		// Unique pair constraint wins a concurrent double-like.
		if db.IsUniqueViolation(err) {
			return nil, ErrAlreadyLiked
		}
		return nil, err
	}
	if s.notifier != nil && post.AuthorID != userID {
		_ = s.notifier.Notify(ctx, post.AuthorID, notifservice.CreateInput{
			Type:       notifdomain.NotificationTypeLike,
			Title:      "New like",
			Message:    "someone liked your post",
			ActorID:    userID,
			EntityID:   postID,
			EntityType: "post",
		})
	}
	return l, nil
}

// Unlike removes userID's like of postID. Unliking a post that was never
// liked fails.
func (s *LikeService) Unlike(ctx context.Context, userID, postID string) error {
	deleted, err := s.likes.DeleteByPair(ctx, userID, postID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrLikeNotFound
	}
	return nil
}

// ListLikes returns likes on a post visible to viewerID, newest first.
func (s *LikeService) ListLikes(ctx context.Context, viewerID, postID string, limit, offset int) ([]*domain.Like, error) {
	if _, err := s.posts.GetPost(ctx, viewerID, postID); err != nil {
		return nil, err
	}
	limit, offset = pagination.Clamp(limit, offset, pagination.DefaultLimit, s.maxLimit)
	return s.likes.ListByPost(ctx, postID, limit, offset)
}

// IsLiked reports whether userID has liked postID.
func (s *LikeService) IsLiked(ctx context.Context, userID, postID string) (bool, error) {
	l, err := s.likes.GetByPair(ctx, userID, postID)
	if err != nil {
		return false, err
	}
	return l != nil, nil
}

// Count returns the number of likes on a post visible to viewerID.
func (s *LikeService) Count(ctx context.Context, viewerID, postID string) (int, error) {
	if _, err := s.posts.GetPost(ctx, viewerID, postID); err != nil {
		return 0, err
	}
	return s.likes.CountByPost(ctx, postID)
}
