package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"social-platform/backend/internal/comment/domain"
	notifdomain "social-platform/backend/internal/notification/domain"
	notifservice "social-platform/backend/internal/notification/service"
	"social-platform/backend/internal/pagination"
	postdomain "social-platform/backend/internal/post/domain"
)

// Sentinel errors for the comment service; callers map them to transport codes.
var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotAuthorized   = errors.New("not authorized to modify this comment")
)

// CommentRepo is the minimal comment repository needed by the comment service.
type CommentRepo interface {
	Create(ctx context.Context, c *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	Update(ctx context.Context, c *domain.Comment) error
	Delete(ctx context.Context, id string) (bool, error)
	ListByPost(ctx context.Context, postID string, limit, offset int) ([]*domain.Comment, error)
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

// CommentService implements commenting on posts.
type CommentService struct {
	comments CommentRepo
	posts    PostGetter
	notifier Notifier // nil disables comment notifications
	maxLimit int
}

// NewCommentService returns a CommentService with the given dependencies.
// notifier may be nil to disable comment notifications.
func NewCommentService(comments CommentRepo, posts PostGetter, notifier Notifier, maxLimit int) *CommentService {
	if maxLimit <= 0 {
		maxLimit = pagination.DefaultMaxLimit
	}
	return &CommentService{comments: comments, posts: posts, notifier: notifier, maxLimit: maxLimit}
}

// Comment adds a comment to a post visible to userID. The post's author is
// notified, but not for comments on their own posts.
func (s *CommentService) Comment(ctx context.Context, userID, postID, content string) (*domain.Comment, error) {
	post, err := s.posts.GetPost(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	c, err := domain.NewComment(uuid.New().String(), userID, postID, content)
	if err != nil {
		return nil, err
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	if s.notifier != nil && post.AuthorID != userID {
		_ = s.notifier.Notify(ctx, post.AuthorID, notifservice.CreateInput{
			Type:       notifdomain.NotificationTypeComment,
			Title:      "New comment",
			Message:    "someone commented on your post",
			ActorID:    userID,
			EntityID:   c.ID,
			EntityType: "comment",
		})
	}
	return c, nil
}

// UpdateComment replaces the comment content. Comment owner only.
func (s *CommentService) UpdateComment(ctx context.Context, userID, commentID, content string) (*domain.Comment, error) {
	c, err := s.getOwned(ctx, userID, commentID)
	if err != nil {
		return nil, err
	}
	if err := c.UpdateContent(content); err != nil {
		return nil, err
	}
	if err := s.comments.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteComment removes the comment. Comment owner only; deleting a missing
// comment fails.
func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID string) error {
	if _, err := s.getOwned(ctx, userID, commentID); err != nil {
		return err
	}
	deleted, err := s.comments.Delete(ctx, commentID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCommentNotFound
	}
	return nil
}

// ListComments returns comments on a post visible to viewerID, oldest first.
// Comment pages default larger than other listings.
func (s *CommentService) ListComments(ctx context.Context, viewerID, postID string, limit, offset int) ([]*domain.Comment, error) {
	if _, err := s.posts.GetPost(ctx, viewerID, postID); err != nil {
		return nil, err
	}
	limit, offset = pagination.Clamp(limit, offset, pagination.DefaultCommentLimit, s.maxLimit)
	return s.comments.ListByPost(ctx, postID, limit, offset)
}

// Count returns the number of comments on a post visible to viewerID.
func (s *CommentService) Count(ctx context.Context, viewerID, postID string) (int, error) {
	if _, err := s.posts.GetPost(ctx, viewerID, postID); err != nil {
		return 0, err
	}
	return s.comments.CountByPost(ctx, postID)
}

func (s *CommentService) getOwned(ctx context.Context, userID, commentID string) (*domain.Comment, error) {
	c, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCommentNotFound
	}
	if c.UserID != userID {
		return nil, ErrNotAuthorized
	}
	return c, nil
}
