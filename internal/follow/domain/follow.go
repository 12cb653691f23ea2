package domain

import (
	"errors"
	"strings"
	"time"
)

// Follow is a directed edge in the social graph. A follow of a private account
// starts pending (IsAccepted false) until the followee accepts it; otherwise
// it is accepted on creation. Uniqueness of (follower, followee) is a storage
// constraint.
type Follow struct {
	ID         string
	FollowerID string
	FolloweeID string
	IsAccepted bool
	AcceptedAt *time.Time // nil while pending
	CreatedAt  time.Time
}

// NewFollow builds a follow edge. When requiresApproval is false the follow is
// accepted immediately with AcceptedAt set; otherwise it is pending.
func NewFollow(id, followerID, followeeID string, requiresApproval bool) (*Follow, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("id is required")
	}
	followerID = strings.TrimSpace(followerID)
	if followerID == "" {
		return nil, errors.New("followerID is required")
	}
	followeeID = strings.TrimSpace(followeeID)
	if followeeID == "" {
		return nil, errors.New("followeeID is required")
	}
	if followerID == followeeID {
		return nil, errors.New("followerID and followeeID must differ: a user cannot follow themselves")
	}
	now := time.Now().UTC()
	f := &Follow{
		ID:         strings.TrimSpace(id),
		FollowerID: followerID,
		FolloweeID: followeeID,
		CreatedAt:  now,
	}
	if !requiresApproval {
		f.IsAccepted = true
		f.AcceptedAt = &now
	}
	return f, nil
}

// Accept moves a pending follow to accepted. Fails if already accepted.
func (f *Follow) Accept() error {
	if f.IsAccepted {
		return errors.New("follow is already accepted")
	}
	now := time.Now().UTC()
	f.IsAccepted = true
	f.AcceptedAt = &now
	return nil
}

// Reject always fails: there is no rejected state. Rejecting a pending
// request means deleting the follow record, which the service layer does.
func (f *Follow) Reject() error {
	return errors.New("rejecting a follow is not supported; delete the follow record instead")
}
