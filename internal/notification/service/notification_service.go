package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"social-platform/backend/internal/notification/delivery"
	"social-platform/backend/internal/notification/domain"
	"social-platform/backend/internal/pagination"
)

// Sentinel errors for the notification service; callers map them to transport codes.
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotAuthorized        = errors.New("not authorized to modify this notification")
)

// CreateInput carries everything needed to build one notification. Recipients
// come separately so a single input can fan out to many users.
type CreateInput struct {
	Type       domain.NotificationType
	Title      string
	Message    string
	ActorID    string
	EntityID   string
	EntityType string
	ActionURL  string
	ExpiresAt  *time.Time
}

// NotificationRepo is the minimal notification repository needed by the service.
type NotificationRepo interface {
	Create(ctx context.Context, n *domain.Notification) error
	CreateBatch(ctx context.Context, ns []*domain.Notification) error
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	Update(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID string, status domain.NotificationStatus, limit, offset int) ([]*domain.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// NotificationService stores notifications and fans them out to recipients.
// Storage is authoritative; broker publishing is best-effort and asynchronous.
type NotificationService struct {
	repo      NotificationRepo
	publisher delivery.Publisher // nil disables delivery events
	maxLimit  int
}

// NewNotificationService returns a NotificationService with the given
// dependencies. publisher may be nil to disable delivery events.
func NewNotificationService(repo NotificationRepo, publisher delivery.Publisher, maxLimit int) *NotificationService {
	if maxLimit <= 0 {
		maxLimit = pagination.DefaultMaxLimit
	}
	return &NotificationService{repo: repo, publisher: publisher, maxLimit: maxLimit}
}

// Notify creates one notification for userID. It satisfies the Notifier
// interfaces the engagement services declare.
func (s *NotificationService) Notify(ctx context.Context, userID string, in CreateInput) error {
	_, err := s.Create(ctx, userID, in)
	return err
}

// Create stores one notification and publishes its delivery event.
func (s *NotificationService) Create(ctx context.Context, userID string, in CreateInput) (*domain.Notification, error) {
	n, err := s.build(userID, in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	delivery.PublishAsync(s.publisher, toEvent(n))
	return n, nil
}

// CreateBulk fans one input out to every recipient. An empty recipient list
// is a no-op: nothing is stored and nothing is published. Duplicate recipient
// IDs collapse to one notification each.
func (s *NotificationService) CreateBulk(ctx context.Context, userIDs []string, in CreateInput) ([]*domain.Notification, error) {
	seen := make(map[string]bool, len(userIDs))
	ns := make([]*domain.Notification, 0, len(userIDs))
	for _, userID := range userIDs {
		if userID == "" || seen[userID] {
			continue
		}
		seen[userID] = true
		n, err := s.build(userID, in)
		if err != nil {
			return nil, err
		}
		ns = append(ns, n)
	}
	if len(ns) == 0 {
		return nil, nil
	}
	if err := s.repo.CreateBatch(ctx, ns); err != nil {
		return nil, err
	}
	for _, n := range ns {
		delivery.PublishAsync(s.publisher, toEvent(n))
	}
	return ns, nil
}

// MarkAsRead marks the notification read. Only the recipient may do so.
func (s *NotificationService) MarkAsRead(ctx context.Context, userID, notificationID string) (*domain.Notification, error) {
	n, err := s.getOwned(ctx, userID, notificationID)
	if err != nil {
		return nil, err
	}
	if err := n.MarkAsRead(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Archive archives the notification. Only the recipient may do so.
func (s *NotificationService) Archive(ctx context.Context, userID, notificationID string) (*domain.Notification, error) {
	n, err := s.getOwned(ctx, userID, notificationID)
	if err != nil {
		return nil, err
	}
	n.Archive()
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// List returns the user's notifications, newest first, optionally filtered by
// status ("" means all).
func (s *NotificationService) List(ctx context.Context, userID string, status domain.NotificationStatus, limit, offset int) ([]*domain.Notification, error) {
	limit, offset = pagination.Clamp(limit, offset, pagination.DefaultLimit, s.maxLimit)
	return s.repo.ListByUser(ctx, userID, status, limit, offset)
}

// UnreadCount returns the number of unread notifications for the user.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repo.UnreadCount(ctx, userID)
}

// DeleteExpired removes notifications whose expiry has passed and returns the
// number deleted. Intended for a periodic cleanup job.
func (s *NotificationService) DeleteExpired(ctx context.Context) (int, error) {
	return s.repo.DeleteExpired(ctx, time.Now().UTC())
}

func (s *NotificationService) build(userID string, in CreateInput) (*domain.Notification, error) {
	n, err := domain.NewNotification(uuid.New().String(), userID, in.Type, in.Title, in.Message)
	if err != nil {
		return nil, err
	}
	if in.ActorID != "" {
		n.SetActor(in.ActorID)
	}
	if in.EntityID != "" {
		if err := n.SetEntity(in.EntityID, in.EntityType); err != nil {
			return nil, err
		}
	}
	if in.ActionURL != "" {
		n.SetActionURL(in.ActionURL)
	}
	if in.ExpiresAt != nil {
		n.SetExpiry(*in.ExpiresAt)
	}
	return n, nil
}

func (s *NotificationService) getOwned(ctx context.Context, userID, notificationID string) (*domain.Notification, error) {
	n, err := s.repo.GetByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrNotificationNotFound
	}
	if n.UserID != userID {
		return nil, ErrNotAuthorized
	}
	return n, nil
}

func toEvent(n *domain.Notification) *delivery.Event {
	return &delivery.Event{
		NotificationID: n.ID,
		UserID:         n.UserID,
		Type:           string(n.Type),
		Title:          n.Title,
		Message:        n.Message,
		ActorID:        n.ActorID,
		EntityID:       n.EntityID,
		EntityType:     n.EntityType,
		ActionURL:      n.ActionURL,
		CreatedAt:      n.CreatedAt,
	}
}
