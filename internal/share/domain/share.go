package domain

import (
	"errors"
	"strings"
	"time"
)

// Share records a user re-sharing a post, with an optional commentary string.
type Share struct {
	ID        string
	UserID    string
	PostID    string
	Comment   *string // nil when shared without commentary
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewShare builds a valid share. comment may be nil; when set it is trimmed
// and must not be blank.
func NewShare(id, userID, postID string, comment *string) (*Share, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("id is required")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("userID is required")
	}
	if strings.TrimSpace(postID) == "" {
		return nil, errors.New("postID is required")
	}
	now := time.Now().UTC()
	s := &Share{
		ID:        strings.TrimSpace(id),
		UserID:    strings.TrimSpace(userID),
		PostID:    strings.TrimSpace(postID),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.UpdateComment(comment); err != nil {
		return nil, err
	}
	return s, nil
}

// UpdateComment replaces the commentary. nil clears it; a non-nil value is
// trimmed and must not be blank.
func (s *Share) UpdateComment(comment *string) error {
	if comment == nil {
		s.Comment = nil
		s.UpdatedAt = time.Now().UTC()
		return nil
	}
	trimmed := strings.TrimSpace(*comment)
	if trimmed == "" {
		return errors.New("comment must not be blank; pass nil to clear it")
	}
	s.Comment = &trimmed
	s.UpdatedAt = time.Now().UTC()
	return nil
}
