package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"social-platform/backend/internal/db"
	"social-platform/backend/internal/follow/domain"
	notifdomain "social-platform/backend/internal/notification/domain"
	notifservice "social-platform/backend/internal/notification/service"
	"social-platform/backend/internal/pagination"
	userdomain "social-platform/backend/internal/user/domain"
)

// Sentinel errors for the follow service; callers map them to transport codes.
var (
	ErrFollowNotFound   = errors.New("follow not found")
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotAuthorized    = errors.New("not authorized to act on this follow request")
	ErrUserNotFound     = errors.New("user not found")
)

// FollowRepo is the minimal follow repository needed by the follow service.
type FollowRepo interface {
	Create(ctx context.Context, f *domain.Follow) error
	GetByPair(ctx context.Context, followerID, followeeID string) (*domain.Follow, error)
	Update(ctx context.Context, f *domain.Follow) error
	Delete(ctx context.Context, id string) error
	ListFollowers(ctx context.Context, userID string, limit, offset int) ([]*domain.Follow, error)
	ListFollowing(ctx context.Context, userID string, limit, offset int) ([]*domain.Follow, error)
	ListPending(ctx context.Context, userID string, limit, offset int) ([]*domain.Follow, error)
	CountFollowers(ctx context.Context, userID string) (int, error)
	CountFollowing(ctx context.Context, userID string) (int, error)
}

// UserRepo is the minimal user repository needed by the follow service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
}

// Notifier delivers notifications; nil disables them.
type Notifier interface {
	Notify(ctx context.Context, userID string, in notifservice.CreateInput) error
}

// FollowService implements the social graph: following, approval of requests
// to private accounts, and follower listings.
type FollowService struct {
	follows  FollowRepo
	users    UserRepo
	notifier Notifier // nil disables follow notifications
	maxLimit int
}

// NewFollowService returns a FollowService with the given dependencies.
// notifier may be nil to disable follow notifications.
func NewFollowService(follows FollowRepo, users UserRepo, notifier Notifier, maxLimit int) *FollowService {
	if maxLimit <= 0 {
		maxLimit = pagination.DefaultMaxLimit
	}
	return &FollowService{follows: follows, users: users, notifier: notifier, maxLimit: maxLimit}
}

// Follow creates a follow edge from followerID to followeeID. Following a
// private account produces a pending request; a public account accepts
// immediately and notifies the followee.
func (s *FollowService) Follow(ctx context.Context, followerID, followeeID string) (*domain.Follow, error) {
	followee, err := s.users.GetByID(ctx, followeeID)
	if err != nil {
		return nil, err
	}
	if followee == nil {
		return nil, ErrUserNotFound
	}
	if existing, err := s.follows.GetByPair(ctx, followerID, followeeID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrAlreadyFollowing
	}
	f, err := domain.NewFollow(uuid.New().String(), followerID, followeeID, followee.IsPrivate)
	if err != nil {
		return nil, err
	}
	if err := s.follows.Create(ctx, f); err != nil {
		// Unique pair constraint wins a concurrent double-follow.
		if db.IsUniqueViolation(err) {
			return nil, ErrAlreadyFollowing
		}
		return nil, err
	}
	if s.notifier != nil {
		in := notifservice.CreateInput{
			Type:    notifdomain.NotificationTypeFollow,
			ActorID: followerID,
		}
		if f.IsAccepted {
			in.Title = "New follower"
			in.Message = "someone started following you"
		} else {
			in.Title = "Follow request"
			in.Message = "someone requested to follow you"
		}
		_ = s.notifier.Notify(ctx, followeeID, in)
	}
	return f, nil
}

// Accept approves a pending request. Only the followee may accept; the
// follower is notified.
func (s *FollowService) Accept(ctx context.Context, followeeID, followerID string) (*domain.Follow, error) {
	f, err := s.pendingFor(ctx, followeeID, followerID)
	if err != nil {
		return nil, err
	}
	if err := f.Accept(); err != nil {
		return nil, err
	}
	if err := s.follows.Update(ctx, f); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		_ = s.notifier.Notify(ctx, followerID, notifservice.CreateInput{
			Type:    notifdomain.NotificationTypeFollow,
			Title:   "Follow request accepted",
			Message: "your follow request was accepted",
			ActorID: followeeID,
		})
	}
	return f, nil
}

// Reject declines a pending request by deleting the edge; there is no
// rejected state. Only the followee may reject.
func (s *FollowService) Reject(ctx context.Context, followeeID, followerID string) error {
	f, err := s.pendingFor(ctx, followeeID, followerID)
	if err != nil {
		return err
	}
	return s.follows.Delete(ctx, f.ID)
}

// Unfollow removes the follower's edge to followeeID, whether accepted or
// still pending.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followeeID string) error {
	f, err := s.follows.GetByPair(ctx, followerID, followeeID)
	if err != nil {
		return err
	}
	if f == nil {
		return ErrFollowNotFound
	}
	return s.follows.Delete(ctx, f.ID)
}

// ListFollowers returns accepted edges pointing at userID, newest first.
func (s *FollowService) ListFollowers(ctx context.Context, userID string, limit, offset int) ([]*domain.Follow, error) {
	limit, offset = pagination.Clamp(limit, offset, pagination.DefaultLimit, s.maxLimit)
	return s.follows.ListFollowers(ctx, userID, limit, offset)
}

// ListFollowing returns accepted edges originating from userID, newest first.
func (s *FollowService) ListFollowing(ctx context.Context, userID string, limit, offset int) ([]*domain.Follow, error) {
	limit, offset = pagination.Clamp(limit, offset, pagination.DefaultLimit, s.maxLimit)
	return s.follows.ListFollowing(ctx, userID, limit, offset)
}

// ListPending returns requests awaiting userID's approval, oldest first.
func (s *FollowService) ListPending(ctx context.Context, userID string, limit, offset int) ([]*domain.Follow, error) {
	limit, offset = pagination.Clamp(limit, offset, pagination.DefaultLimit, s.maxLimit)
	return s.follows.ListPending(ctx, userID, limit, offset)
}

// Counts returns the accepted follower and following counts for userID.
func (s *FollowService) Counts(ctx context.Context, userID string) (followers, following int, err error) {
	followers, err = s.follows.CountFollowers(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	following, err = s.follows.CountFollowing(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}

// pendingFor loads the follower->followee edge and checks it is a pending
// request that followeeID is entitled to decide.
func (s *FollowService) pendingFor(ctx context.Context, followeeID, followerID string) (*domain.Follow, error) {
	f, err := s.follows.GetByPair(ctx, followerID, followeeID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFollowNotFound
	}
	if f.FolloweeID != followeeID {
		return nil, ErrNotAuthorized
	}
	if f.IsAccepted {
		return nil, ErrFollowNotFound
	}
	return f, nil
}
