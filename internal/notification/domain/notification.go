package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// NotificationType classifies what happened.
type NotificationType string

const (
	NotificationTypeLike    NotificationType = "like"
	NotificationTypeComment NotificationType = "comment"
	NotificationTypeFollow  NotificationType = "follow"
	NotificationTypeMention NotificationType = "mention"
	NotificationTypeMessage NotificationType = "message"
	NotificationTypeSystem  NotificationType = "system"
)

// ValidNotificationType reports whether t is a known notification type.
func ValidNotificationType(t NotificationType) bool {
	switch t {
	case NotificationTypeLike, NotificationTypeComment, NotificationTypeFollow,
		NotificationTypeMention, NotificationTypeMessage, NotificationTypeSystem:
		return true
	}
	return false
}

// NotificationStatus is the read-state lifecycle: unread -> read -> archived,
// with archiving also allowed straight from unread.
type NotificationStatus string

const (
	NotificationStatusUnread   NotificationStatus = "unread"
	NotificationStatusRead     NotificationStatus = "read"
	NotificationStatusArchived NotificationStatus = "archived"
)

// Notification is a single item in a user's notification inbox.
type Notification struct {
	ID      string
	UserID  string
	Type    NotificationType
	Title   string
	Message string
	Status  NotificationStatus
	// ActorID is the user who triggered the notification, empty for system
	// notifications.
	ActorID string
	// EntityID and EntityType point at the subject (post, comment, message).
	EntityID   string
	EntityType string
	// ActionURL optionally deep-links the client to the subject.
	ActionURL  string
	ReadAt     *time.Time
	ArchivedAt *time.Time
	ExpiresAt  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewNotification builds an unread notification.
func NewNotification(id, userID string, notifType NotificationType, title, message string) (*Notification, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("id is required")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("userID is required")
	}
	if !ValidNotificationType(notifType) {
		return nil, fmt.Errorf("notification type %q is not valid", notifType)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("title is required")
	}
	now := time.Now().UTC()
	return &Notification{
		ID:        strings.TrimSpace(id),
		UserID:    strings.TrimSpace(userID),
		Type:      notifType,
		Title:     title,
		Message:   strings.TrimSpace(message),
		Status:    NotificationStatusUnread,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SetActor records who triggered the notification.
func (n *Notification) SetActor(actorID string) {
	n.ActorID = strings.TrimSpace(actorID)
	n.UpdatedAt = time.Now().UTC()
}

// SetEntity points the notification at its subject record.
func (n *Notification) SetEntity(entityID, entityType string) error {
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		return errors.New("entityID is required")
	}
	entityType = strings.TrimSpace(entityType)
	if entityType == "" {
		return errors.New("entityType is required")
	}
	n.EntityID = entityID
	n.EntityType = entityType
	n.UpdatedAt = time.Now().UTC()
	return nil
}

// SetActionURL records the link a client should open for this notification.
func (n *Notification) SetActionURL(url string) {
	n.ActionURL = strings.TrimSpace(url)
	n.UpdatedAt = time.Now().UTC()
}

// SetExpiry marks the notification for expiry-based cleanup.
func (n *Notification) SetExpiry(at time.Time) {
	t := at.UTC()
	n.ExpiresAt = &t
	n.UpdatedAt = time.Now().UTC()
}

// MarkAsRead moves an unread notification to read. ReadAt is fixed on the
// first call; marking an already-read notification is a no-op. Archived
// notifications cannot go back to read.
func (n *Notification) MarkAsRead() error {
	switch n.Status {
	case NotificationStatusRead:
		return nil
	case NotificationStatusArchived:
		return errors.New("notification is archived and cannot be marked read")
	}
	now := time.Now().UTC()
	n.Status = NotificationStatusRead
	n.ReadAt = &now
	n.UpdatedAt = now
	return nil
}

// Archive moves the notification to archived from any state. Idempotent:
// ArchivedAt is fixed on the first call.
func (n *Notification) Archive() {
	if n.Status == NotificationStatusArchived {
		return
	}
	now := time.Now().UTC()
	n.Status = NotificationStatusArchived
	n.ArchivedAt = &now
	n.UpdatedAt = now
}

// IsExpired reports whether the notification has passed its expiry.
// Notifications without an expiry never expire.
func (n *Notification) IsExpired(now time.Time) bool {
	return n.ExpiresAt != nil && now.After(*n.ExpiresAt)
}
