package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	followdomain "social-platform/backend/internal/follow/domain"
	notifdomain "social-platform/backend/internal/notification/domain"
	notifservice "social-platform/backend/internal/notification/service"
	"social-platform/backend/internal/pagination"
	"social-platform/backend/internal/post/domain"
)

// Sentinel errors for the post service; callers map them to transport codes.
// Posts the viewer may not see report as not found so their existence does
// not leak.
var (
	ErrPostNotFound  = errors.New("post not found")
	ErrNotAuthorized = errors.New("not authorized to modify this post")
)

// MediaInput describes one attachment to create alongside a post.
type MediaInput struct {
	URL             string
	FileName        string
	ContentType     string
	FileSize        int64
	AltText         string
	Width           int
	Height          int
	DurationSeconds float64
	ThumbnailURL    string
}

// PostRepo is the minimal post repository needed by the post service.
type PostRepo interface {
	Create(ctx context.Context, p *domain.Post) error
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	Update(ctx context.Context, p *domain.Post) error
	Delete(ctx context.Context, id string) error
	CreateAttachment(ctx context.Context, m *domain.MediaAttachment) error
	ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*domain.Post, error)
	ListFeed(ctx context.Context, viewerID string, limit, offset int) ([]*domain.Post, error)
	ListReplies(ctx context.Context, parentID string, limit, offset int) ([]*domain.Post, error)
}

// FollowRepo is the minimal follow repository needed for visibility checks.
type FollowRepo interface {
	GetByPair(ctx context.Context, followerID, followeeID string) (*followdomain.Follow, error)
}

// Notifier delivers notifications; nil disables them.
type Notifier interface {
	Notify(ctx context.Context, userID string, in notifservice.CreateInput) error
}

// PostService implements authoring, visibility-checked reads, the home feed,
// and reply threads.
type PostService struct {
	posts    PostRepo
	follows  FollowRepo
	notifier Notifier // nil disables reply notifications
	maxLimit int
}

// NewPostService returns a PostService with the given dependencies. notifier
// may be nil to disable reply notifications.
func NewPostService(posts PostRepo, follows FollowRepo, notifier Notifier, maxLimit int) *PostService {
	if maxLimit <= 0 {
		maxLimit = pagination.DefaultMaxLimit
	}
	return &PostService{posts: posts, follows: follows, notifier: notifier, maxLimit: maxLimit}
}

// CreateTextPost creates a top-level text post.
func (s *PostService) CreateTextPost(ctx context.Context, authorID, content string, visibility domain.Visibility) (*domain.Post, error) {
	p, err := domain.NewPost(uuid.New().String(), authorID, content, visibility)
	if err != nil {
		return nil, err
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// CreatePost creates a top-level post with media attached. The post type is
// derived from the attachments; content is optional when media is present.
func (s *PostService) CreatePost(ctx context.Context, authorID, content string, visibility domain.Visibility, media []MediaInput) (*domain.Post, error) {
	postID := uuid.New().String()
	attachments := make([]*domain.MediaAttachment, 0, len(media))
	for _, in := range media {
		m, err := buildAttachment(postID, in)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, m)
	}
	p, err := domain.NewMediaPost(postID, authorID, content, visibility, attachments)
	if err != nil {
		return nil, err
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// CreateReply creates a reply under parentID, inheriting the thread root. The
// parent must be visible to the author; the parent's author is notified.
func (s *PostService) CreateReply(ctx context.Context, authorID, parentID, content string, visibility domain.Visibility) (*domain.Post, error) {
	parent, err := s.GetPost(ctx, authorID, parentID)
	if err != nil {
		return nil, err
	}
	rootID := parent.RootID
	if rootID == "" {
		rootID = parent.ID
	}
	p, err := domain.NewReply(uuid.New().String(), authorID, content, visibility, parent.ID, rootID)
	if err != nil {
		return nil, err
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, err
	}
	if s.notifier != nil && parent.AuthorID != authorID {
		_ = s.notifier.Notify(ctx, parent.AuthorID, notifservice.CreateInput{
			Type:       notifdomain.NotificationTypeComment,
			Title:      "New reply",
			Message:    "someone replied to your post",
			ActorID:    authorID,
			EntityID:   p.ID,
			EntityType: "post",
		})
	}
	return p, nil
}

// GetPost returns the post if viewerID may see it, ErrPostNotFound otherwise.
func (s *PostService) GetPost(ctx context.Context, viewerID, postID string) (*domain.Post, error) {
	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPostNotFound
	}
	visible, err := s.canView(ctx, viewerID, p)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, ErrPostNotFound
	}
	return p, nil
}

// UpdateContent replaces the post content. Author only.
func (s *PostService) UpdateContent(ctx context.Context, userID, postID, content string) (*domain.Post, error) {
	p, err := s.getOwned(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if err := p.UpdateContent(content); err != nil {
		return nil, err
	}
	if err := s.posts.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateVisibility changes who may view the post. Author only.
func (s *PostService) UpdateVisibility(ctx context.Context, userID, postID string, v domain.Visibility) (*domain.Post, error) {
	p, err := s.getOwned(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if err := p.SetVisibility(v); err != nil {
		return nil, err
	}
	if err := s.posts.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// AttachMedia adds an attachment to an existing post, re-deriving its type.
// Author only.
func (s *PostService) AttachMedia(ctx context.Context, userID, postID string, in MediaInput) (*domain.Post, error) {
	p, err := s.getOwned(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	m, err := buildAttachment(p.ID, in)
	if err != nil {
		return nil, err
	}
	if err := p.AttachMedia(m); err != nil {
		return nil, err
	}
	if err := s.posts.CreateAttachment(ctx, m); err != nil {
		return nil, err
	}
	if err := s.posts.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePost removes the post and, through storage cascades, its replies and
// engagement. Author only.
func (s *PostService) DeletePost(ctx context.Context, userID, postID string) error {
	if _, err := s.getOwned(ctx, userID, postID); err != nil {
		return err
	}
	return s.posts.Delete(ctx, postID)
}

// ListByAuthor returns the author's posts visible to viewerID, newest first.
// The repository over-fetches by page and the service filters per post, so a
// page may come back short when the viewer cannot see everything.
func (s *PostService) ListByAuthor(ctx context.Context, viewerID, authorID string, limit, offset int) ([]*domain.Post, error) {
	limit, offset = pagination.Clamp(limit, offset, pagination.DefaultLimit, s.maxLimit)
	posts, err := s.posts.ListByAuthor(ctx, authorID, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.filterVisible(ctx, viewerID, authorID, posts)
}

// Feed returns posts from the viewer's accepted followees, newest first.
func (s *PostService) Feed(ctx context.Context, viewerID string, limit, offset int) ([]*domain.Post, error) {
	limit, offset = pagination.Clamp(limit, offset, pagination.DefaultLimit, s.maxLimit)
	return s.posts.ListFeed(ctx, viewerID, limit, offset)
}

// ListReplies returns the direct replies of a post visible to viewerID,
// oldest first. The parent itself must be visible.
func (s *PostService) ListReplies(ctx context.Context, viewerID, parentID string, limit, offset int) ([]*domain.Post, error) {
	if _, err := s.GetPost(ctx, viewerID, parentID); err != nil {
		return nil, err
	}
	limit, offset = pagination.Clamp(limit, offset, pagination.DefaultLimit, s.maxLimit)
	replies, err := s.posts.ListReplies(ctx, parentID, limit, offset)
	if err != nil {
		return nil, err
	}
	var out []*domain.Post
	for _, p := range replies {
		visible, err := s.canView(ctx, viewerID, p)
		if err != nil {
			return nil, err
		}
		if visible {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *PostService) getOwned(ctx context.Context, userID, postID string) (*domain.Post, error) {
	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPostNotFound
	}
	if p.AuthorID != userID {
		return nil, ErrNotAuthorized
	}
	return p, nil
}

// canView loads the viewer's follow of the author once and applies the
// visibility rules.
func (s *PostService) canView(ctx context.Context, viewerID string, p *domain.Post) (bool, error) {
	if p.Visibility == domain.VisibilityPublic || viewerID == p.AuthorID {
		return p.CanBeViewedBy(viewerID, nil), nil
	}
	f, err := s.follows.GetByPair(ctx, viewerID, p.AuthorID)
	if err != nil {
		return false, err
	}
	return p.CanBeViewedBy(viewerID, f), nil
}

// filterVisible drops posts viewerID may not see, reusing one follow lookup
// for the whole author page.
func (s *PostService) filterVisible(ctx context.Context, viewerID, authorID string, posts []*domain.Post) ([]*domain.Post, error) {
	if len(posts) == 0 {
		return nil, nil
	}
	var f *followdomain.Follow
	if viewerID != authorID {
		var err error
		f, err = s.follows.GetByPair(ctx, viewerID, authorID)
		if err != nil {
			return nil, err
		}
	}
	var out []*domain.Post
	for _, p := range posts {
		if p.CanBeViewedBy(viewerID, f) {
			out = append(out, p)
		}
	}
	return out, nil
}

func buildAttachment(postID string, in MediaInput) (*domain.MediaAttachment, error) {
	m, err := domain.NewMediaAttachment(uuid.New().String(), postID, in.URL, in.FileName, in.ContentType, in.FileSize)
	if err != nil {
		return nil, err
	}
	if in.AltText != "" {
		m.SetAltText(in.AltText)
	}
	if in.Width != 0 || in.Height != 0 {
		if err := m.SetDimensions(in.Width, in.Height); err != nil {
			return nil, err
		}
	}
	if in.DurationSeconds != 0 {
		if err := m.SetDuration(in.DurationSeconds); err != nil {
			return nil, err
		}
	}
	if in.ThumbnailURL != "" {
		m.SetThumbnailURL(in.ThumbnailURL)
	}
	return m, nil
}
