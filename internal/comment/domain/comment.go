package domain

import (
	"errors"
	"strings"
	"time"
)

// Comment is a user's comment on a post. Content is trimmed and required;
// editing marks the comment as edited.
type Comment struct {
	ID        string
	UserID    string
	PostID    string
	Content   string
	IsEdited  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewComment builds a valid comment or returns an error naming the offending parameter.
func NewComment(id, userID, postID, content string) (*Comment, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("id is required")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("userID is required")
	}
	if strings.TrimSpace(postID) == "" {
		return nil, errors.New("postID is required")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New("content is required")
	}
	now := time.Now().UTC()
	return &Comment{
		ID:        strings.TrimSpace(id),
		UserID:    strings.TrimSpace(userID),
		PostID:    strings.TrimSpace(postID),
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// UpdateContent replaces the content (trimmed, required) and marks the
// comment as edited.
func (c *Comment) UpdateContent(content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return errors.New("content is required")
	}
	c.Content = content
	c.IsEdited = true
	c.UpdatedAt = time.Now().UTC()
	return nil
}
