package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"social-platform/backend/internal/message/domain"
	notifdomain "social-platform/backend/internal/notification/domain"
	notifservice "social-platform/backend/internal/notification/service"
	"social-platform/backend/internal/pagination"
)

// Sentinel errors for the message service; callers map them to transport codes.
var (
	ErrMessageNotFound = errors.New("message not found")
	ErrNotAuthorized   = errors.New("not authorized to access this message")
)

// MessageRepo is the minimal message repository needed by the message service.
type MessageRepo interface {
	Create(ctx context.Context, m *domain.Message) error
	GetByID(ctx context.Context, id string) (*domain.Message, error)
	Update(ctx context.Context, m *domain.Message) error
	ListConversation(ctx context.Context, userA, userB string, limit, offset int) ([]*domain.Message, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
}

// Notifier delivers notifications; nil disables them.
type Notifier interface {
	Notify(ctx context.Context, userID string, in notifservice.CreateInput) error
}

// AttachmentInput carries optional attachment metadata for a new message.
type AttachmentInput struct {
	URL  string
	Name string
	Size int64
}

// MessageService implements direct messaging between users.
type MessageService struct {
	messages MessageRepo
	notifier Notifier // nil disables message notifications
	maxLimit int
}

// NewMessageService returns a MessageService with the given dependencies.
// notifier may be nil to disable message notifications.
func NewMessageService(messages MessageRepo, notifier Notifier, maxLimit int) *MessageService {
	if maxLimit <= 0 {
		maxLimit = pagination.DefaultMaxLimit
	}
	return &MessageService{messages: messages, notifier: notifier, maxLimit: maxLimit}
}

// Send delivers a message from senderID to recipientID and notifies the
// recipient. attachment is required for non-text message types.
func (s *MessageService) Send(ctx context.Context, senderID, recipientID, content string, msgType domain.MessageType, attachment *AttachmentInput) (*domain.Message, error) {
	m, err := domain.NewMessage(uuid.New().String(), senderID, recipientID, content, msgType)
	if err != nil {
		return nil, err
	}
	if attachment != nil {
		if err := m.SetAttachment(attachment.URL, attachment.Name, attachment.Size); err != nil {
			return nil, err
		}
	} else if m.Type != domain.MessageTypeText {
		return nil, errors.New("attachment is required for a non-text message")
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		_ = s.notifier.Notify(ctx, m.RecipientID, notifservice.CreateInput{
			Type:       notifdomain.NotificationTypeMessage,
			Title:      "New message",
			Message:    "you have a new message",
			ActorID:    m.SenderID,
			EntityID:   m.ID,
			EntityType: "message",
		})
	}
	return m, nil
}

// Conversation returns the messages exchanged between userID and otherID,
// newest first. Deleted messages are excluded.
func (s *MessageService) Conversation(ctx context.Context, userID, otherID string, limit, offset int) ([]*domain.Message, error) {
	limit, offset = pagination.Clamp(limit, offset, pagination.DefaultLimit, s.maxLimit)
	return s.messages.ListConversation(ctx, userID, otherID, limit, offset)
}

// MarkAsRead marks the message as read. Recipient only; repeated calls keep
// the original read timestamp.
func (s *MessageService) MarkAsRead(ctx context.Context, userID, messageID string) (*domain.Message, error) {
	m, err := s.getLive(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if m.RecipientID != userID {
		return nil, ErrNotAuthorized
	}
	if m.IsRead {
		return m, nil
	}
	m.MarkAsRead()
	if err := s.messages.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Edit replaces the message content. Sender only; deleted messages cannot be
// edited.
func (s *MessageService) Edit(ctx context.Context, userID, messageID, content string) (*domain.Message, error) {
	m, err := s.getLive(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if m.SenderID != userID {
		return nil, ErrNotAuthorized
	}
	if err := m.Edit(content); err != nil {
		return nil, err
	}
	if err := s.messages.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Delete soft-deletes the message. Sender only; a deleted message drops out
// of conversation listings but its row is kept.
func (s *MessageService) Delete(ctx context.Context, userID, messageID string) error {
	m, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrMessageNotFound
	}
	if m.SenderID != userID {
		return ErrNotAuthorized
	}
	if m.IsDeleted {
		return nil
	}
	m.Delete()
	return s.messages.Update(ctx, m)
}

// UnreadCount returns the number of unread messages addressed to userID.
func (s *MessageService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.messages.UnreadCount(ctx, userID)
}

// getLive loads a message, treating deleted ones as missing.
func (s *MessageService) getLive(ctx context.Context, messageID string) (*domain.Message, error) {
	m, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if m == nil || m.IsDeleted {
		return nil, ErrMessageNotFound
	}
	return m, nil
}
