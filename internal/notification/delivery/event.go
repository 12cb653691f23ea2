package delivery

import (
	"context"
	"time"
)

// Event is the wire form of a stored notification, published for downstream
// delivery channels (push, email digests). The notification row is the source
// of truth; events are best-effort.
type Event struct {
	NotificationID string    `json:"notification_id"`
	UserID         string    `json:"user_id"`
	Type           string    `json:"type"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	ActorID        string    `json:"actor_id,omitempty"`
	EntityID       string    `json:"entity_id,omitempty"`
	EntityType     string    `json:"entity_type,omitempty"`
	ActionURL      string    `json:"action_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Publisher sends delivery events to the broker.
type Publisher interface {
	Publish(ctx context.Context, ev *Event) error
}
