package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	followdomain "social-platform/backend/internal/follow/domain"
)

// PostType describes the dominant media kind of a post. It is derived from the
// attached media content types, never set directly by callers.
type PostType string

const (
	PostTypeText  PostType = "text"
	PostTypeImage PostType = "image"
	PostTypeVideo PostType = "video"
	PostTypeAudio PostType = "audio"
	PostTypeMixed PostType = "mixed"
)

// Visibility controls who may view a post.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityFollowers Visibility = "followers"
	VisibilityPrivate   Visibility = "private"
)

// ValidVisibility reports whether v is one of the known visibility values.
func ValidVisibility(v Visibility) bool {
	switch v {
	case VisibilityPublic, VisibilityFollowers, VisibilityPrivate:
		return true
	}
	return false
}

// Post is an authored piece of content, optionally a reply in a thread.
// Content and visibility are mutated only by the author (enforced by the
// service layer); the entity enforces field invariants.
type Post struct {
	ID          string
	AuthorID    string
	Content     string
	Type        PostType
	Visibility  Visibility
	IsEdited    bool
	ParentID    string // "" for top-level posts
	RootID      string // "" for top-level posts; defaults to ParentID for replies
	Attachments []*MediaAttachment
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewPost builds a top-level post without media. It starts as type Text, so
// content is required; attaching media afterwards re-derives the type and
// relaxes the content requirement for later edits.
func NewPost(id, authorID, content string, visibility Visibility) (*Post, error) {
	return newPost(id, authorID, content, visibility, "", "", false)
}

// NewMediaPost builds a top-level post with its initial attachments. The type
// is derived from the attachments, so content is required only when the
// attachment list is empty (a caption-less media post is valid).
func NewMediaPost(id, authorID, content string, visibility Visibility, attachments []*MediaAttachment) (*Post, error) {
	p, err := newPost(id, authorID, content, visibility, "", "", len(attachments) > 0)
	if err != nil {
		return nil, err
	}
	for _, m := range attachments {
		if err := p.AttachMedia(m); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// NewReply builds a reply to parentID. rootID identifies the thread root and
// defaults to parentID when empty.
func NewReply(id, authorID, content string, visibility Visibility, parentID, rootID string) (*Post, error) {
	parentID = strings.TrimSpace(parentID)
	if parentID == "" {
		return nil, errors.New("parentID is required")
	}
	rootID = strings.TrimSpace(rootID)
	if rootID == "" {
		rootID = parentID
	}
	return newPost(id, authorID, content, visibility, parentID, rootID, false)
}

func newPost(id, authorID, content string, visibility Visibility, parentID, rootID string, hasMedia bool) (*Post, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("id is required")
	}
	if strings.TrimSpace(authorID) == "" {
		return nil, errors.New("authorID is required")
	}
	content = strings.TrimSpace(content)
	if content == "" && !hasMedia {
		return nil, errors.New("content is required for a text post")
	}
	if visibility == "" {
		visibility = VisibilityPublic
	}
	if !ValidVisibility(visibility) {
		return nil, fmt.Errorf("visibility %q is not valid", visibility)
	}
	now := time.Now().UTC()
	return &Post{
		ID:         strings.TrimSpace(id),
		AuthorID:   strings.TrimSpace(authorID),
		Content:    content,
		Type:       PostTypeText,
		Visibility: visibility,
		ParentID:   parentID,
		RootID:     rootID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// IsReply reports whether the post belongs to a thread.
func (p *Post) IsReply() bool { return p.ParentID != "" }

// AttachMedia appends an attachment belonging to this post and re-derives the
// post type from the full attachment list.
func (p *Post) AttachMedia(m *MediaAttachment) error {
	if m == nil {
		return errors.New("attachment is required")
	}
	if m.PostID != p.ID {
		return fmt.Errorf("attachment belongs to post %q, not %q", m.PostID, p.ID)
	}
	p.Attachments = append(p.Attachments, m)
	p.Type = DeriveType(p.Attachments)
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdateContent replaces the content and marks the post edited. Content stays
// required while the post is type Text; media posts may have empty content.
func (p *Post) UpdateContent(content string) error {
	content = strings.TrimSpace(content)
	if content == "" && p.Type == PostTypeText {
		return errors.New("content is required for a text post")
	}
	p.Content = content
	p.IsEdited = true
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// SetVisibility changes who may view the post.
func (p *Post) SetVisibility(v Visibility) error {
	if !ValidVisibility(v) {
		return fmt.Errorf("visibility %q is not valid", v)
	}
	p.Visibility = v
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// CanBeViewedBy decides whether viewerID may see the post. viewerFollow is the
// follow record from viewer to author, or nil when none exists; the caller loads it.
// This is a pure function over already-loaded data: public posts are visible to
// everyone, authors always see their own posts, private posts only the author,
// and followers-only posts require an accepted follow; a pending follow does
// not grant access.
func (p *Post) CanBeViewedBy(viewerID string, viewerFollow *followdomain.Follow) bool {
	if p.Visibility == VisibilityPublic {
		return true
	}
	if viewerID == p.AuthorID {
		return true
	}
	if p.Visibility == VisibilityPrivate {
		return false
	}
	// VisibilityFollowers
	return viewerFollow != nil &&
		viewerFollow.FollowerID == viewerID &&
		viewerFollow.FolloweeID == p.AuthorID &&
		viewerFollow.IsAccepted
}

// DeriveType computes the post type from the attachment list: no attachments
// means Text, a single media category maps to that category's type, and more
// than one category means Mixed. Attachments outside the known categories also
// force Mixed.
func DeriveType(attachments []*MediaAttachment) PostType {
	if len(attachments) == 0 {
		return PostTypeText
	}
	categories := make(map[MediaCategory]bool)
	for _, m := range attachments {
		categories[m.Category()] = true
	}
	if len(categories) > 1 {
		return PostTypeMixed
	}
	for c := range categories {
		switch c {
		case MediaCategoryImage:
			return PostTypeImage
		case MediaCategoryVideo:
			return PostTypeVideo
		case MediaCategoryAudio:
			return PostTypeAudio
		}
	}
	return PostTypeMixed
}
