package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MessageType describes the payload kind of a direct message.
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypeVideo MessageType = "video"
	MessageTypeAudio MessageType = "audio"
	MessageTypeFile  MessageType = "file"
)

// ValidMessageType reports whether t is one of the known message types.
func ValidMessageType(t MessageType) bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeVideo, MessageTypeAudio, MessageTypeFile:
		return true
	}
	return false
}

// Message is a direct message between two users. Deletion is soft: the row
// stays, IsDeleted is set, and further edits are rejected.
type Message struct {
	ID          string
	SenderID    string
	RecipientID string
	Content     string
	Type        MessageType
	IsRead      bool
	ReadAt      *time.Time
	IsEdited    bool
	IsDeleted   bool
	DeletedAt   *time.Time
	// Attachment fields are set together or not at all.
	AttachmentURL  string
	AttachmentName string
	AttachmentSize int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewMessage builds a valid message. Content is required for Text messages
// and optional otherwise. Sender and recipient must differ.
func NewMessage(id, senderID, recipientID, content string, msgType MessageType) (*Message, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("id is required")
	}
	senderID = strings.TrimSpace(senderID)
	if senderID == "" {
		return nil, errors.New("senderID is required")
	}
	recipientID = strings.TrimSpace(recipientID)
	if recipientID == "" {
		return nil, errors.New("recipientID is required")
	}
	if senderID == recipientID {
		return nil, errors.New("senderID and recipientID must differ: a user cannot message themselves")
	}
	if msgType == "" {
		msgType = MessageTypeText
	}
	if !ValidMessageType(msgType) {
		return nil, fmt.Errorf("message type %q is not valid", msgType)
	}
	content = strings.TrimSpace(content)
	if content == "" && msgType == MessageTypeText {
		return nil, errors.New("content is required for a text message")
	}
	now := time.Now().UTC()
	return &Message{
		ID:          strings.TrimSpace(id),
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		Type:        msgType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// SetAttachment records the attachment metadata. URL, name, and size are
// required together.
func (m *Message) SetAttachment(url, name string, size int64) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return errors.New("attachment url is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("attachment name is required")
	}
	if size <= 0 {
		return errors.New("attachment size must be positive")
	}
	m.AttachmentURL = url
	m.AttachmentName = name
	m.AttachmentSize = size
	m.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkAsRead sets the read flag. Idempotent: ReadAt is fixed on the first
// call and not advanced by later calls.
func (m *Message) MarkAsRead() {
	if m.IsRead {
		return
	}
	now := time.Now().UTC()
	m.IsRead = true
	m.ReadAt = &now
}

// Edit replaces the content and marks the message edited. Editing a deleted
// message fails; a Text message keeps requiring content.
func (m *Message) Edit(content string) error {
	if m.IsDeleted {
		return errors.New("message is deleted and cannot be edited")
	}
	content = strings.TrimSpace(content)
	if content == "" && m.Type == MessageTypeText {
		return errors.New("content is required for a text message")
	}
	m.Content = content
	m.IsEdited = true
	m.UpdatedAt = time.Now().UTC()
	return nil
}

// Delete soft-deletes the message. No-op when already deleted; DeletedAt is
// fixed on the first call.
func (m *Message) Delete() {
	if m.IsDeleted {
		return
	}
	now := time.Now().UTC()
	m.IsDeleted = true
	m.DeletedAt = &now
	m.UpdatedAt = now
}
