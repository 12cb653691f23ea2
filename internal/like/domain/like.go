package domain

import (
	"errors"
	"strings"
	"time"
)

// Like records that a user liked a post. It has no state beyond existence;
// uniqueness of the (user, post) pair is a storage constraint, surfaced to the
// service layer as a unique violation on insert.
type Like struct {
	ID        string
	UserID    string
	PostID    string
	CreatedAt time.Time
}

// NewLike builds a valid like or returns an error naming the offending parameter.
func NewLike(id, userID, postID string) (*Like, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("id is required")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("userID is required")
	}
	if strings.TrimSpace(postID) == "" {
		return nil, errors.New("postID is required")
	}
	return &Like{
		ID:        strings.TrimSpace(id),
		UserID:    strings.TrimSpace(userID),
		PostID:    strings.TrimSpace(postID),
		CreatedAt: time.Now().UTC(),
	}, nil
}
