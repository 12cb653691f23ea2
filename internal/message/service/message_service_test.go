package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"social-platform/backend/internal/message/domain"
	notifservice "social-platform/backend/internal/notification/service"
)

type memMessageRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Message
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{byID: make(map[string]*domain.Message)}
}

func (r *memMessageRepo) Create(ctx context.Context, m *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m2 := *m
	r.byID[m.ID] = &m2
	return nil
}

func (r *memMessageRepo) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.byID[id]; ok {
		m2 := *m
		return &m2, nil
	}
	return nil, nil
}

func (r *memMessageRepo) Update(ctx context.Context, m *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m2 := *m
	r.byID[m.ID] = &m2
	return nil
}

func (r *memMessageRepo) ListConversation(ctx context.Context, userA, userB string, limit, offset int) ([]*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Message
	for _, m := range r.byID {
		if m.IsDeleted {
			continue
		}
		if (m.SenderID == userA && m.RecipientID == userB) || (m.SenderID == userB && m.RecipientID == userA) {
			m2 := *m
			out = append(out, &m2)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memMessageRepo) UnreadCount(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.byID {
		if m.RecipientID == userID && !m.IsRead && !m.IsDeleted {
			n++
		}
	}
	return n, nil
}

type captureNotifier struct {
	mu sync.Mutex
	to []string
}

func (n *captureNotifier) Notify(ctx context.Context, userID string, in notifservice.CreateInput) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.to = append(n.to, userID)
	return nil
}

func newMessageFixture() (*MessageService, *captureNotifier) {
	notifier := &captureNotifier{}
	return NewMessageService(newMemMessageRepo(), notifier, 100), notifier
}

func TestSend(t *testing.T) {
	svc, notifier := newMessageFixture()
	ctx := context.Background()

	m, err := svc.Send(ctx, "alice", "bob", "hello bob", domain.MessageTypeText, nil)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if m.Content != "hello bob" || m.Type != domain.MessageTypeText {
		t.Errorf("message = %+v", m)
	}
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.to) != 1 || notifier.to[0] != "bob" {
		t.Errorf("notified %v, want [bob]", notifier.to)
	}
}

func TestSend_Self(t *testing.T) {
	svc, _ := newMessageFixture()
	if _, err := svc.Send(context.Background(), "alice", "alice", "note to self", domain.MessageTypeText, nil); err == nil {
		t.Error("self-message should fail")
	}
}

func TestSend_WithAttachment(t *testing.T) {
	svc, _ := newMessageFixture()
	ctx := context.Background()

	m, err := svc.Send(ctx, "alice", "bob", "", domain.MessageTypeImage, &AttachmentInput{
		URL:  "https://cdn.example.com/photo.jpg",
		Name: "photo.jpg",
		Size: 123456,
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if m.AttachmentURL == "" || m.AttachmentName != "photo.jpg" || m.AttachmentSize != 123456 {
		t.Errorf("attachment not recorded: %+v", m)
	}
}

func TestSend_NonTextRequiresAttachment(t *testing.T) {
	svc, _ := newMessageFixture()
	if _, err := svc.Send(context.Background(), "alice", "bob", "", domain.MessageTypeImage, nil); err == nil {
		t.Error("image message without attachment should fail")
	}
}

func TestConversation(t *testing.T) {
	svc, _ := newMessageFixture()
	ctx := context.Background()

	if _, err := svc.Send(ctx, "alice", "bob", "first", domain.MessageTypeText, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Send(ctx, "bob", "alice", "second", domain.MessageTypeText, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Send(ctx, "alice", "carol", "off-thread", domain.MessageTypeText, nil); err != nil {
		t.Fatal(err)
	}

	msgs, err := svc.Conversation(ctx, "alice", "bob", 10, 0)
	if err != nil {
		t.Fatalf("Conversation: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("%d messages, want 2 (both directions, carol excluded)", len(msgs))
	}
}

func TestMarkAsRead(t *testing.T) {
	svc, _ := newMessageFixture()
	ctx := context.Background()

	m, err := svc.Send(ctx, "alice", "bob", "hello", domain.MessageTypeText, nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.MarkAsRead(ctx, "alice", m.ID); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("sender marking read: err = %v, want ErrNotAuthorized", err)
	}

	got, err := svc.MarkAsRead(ctx, "bob", m.ID)
	if err != nil {
		t.Fatalf("MarkAsRead: %v", err)
	}
	if !got.IsRead || got.ReadAt == nil {
		t.Errorf("message not marked read: %+v", got)
	}
	first := *got.ReadAt

	again, err := svc.MarkAsRead(ctx, "bob", m.ID)
	if err != nil {
		t.Fatalf("second MarkAsRead: %v", err)
	}
	if !again.ReadAt.Equal(first) {
		t.Error("ReadAt should not advance on repeated calls")
	}

	n, err := svc.UnreadCount(ctx, "bob")
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("UnreadCount = %d, want 0", n)
	}
}

func TestEdit(t *testing.T) {
	svc, _ := newMessageFixture()
	ctx := context.Background()

	m, err := svc.Send(ctx, "alice", "bob", "draft", domain.MessageTypeText, nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Edit(ctx, "bob", m.ID, "tampered"); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("recipient edit: err = %v, want ErrNotAuthorized", err)
	}

	got, err := svc.Edit(ctx, "alice", m.ID, "final")
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if got.Content != "final" || !got.IsEdited {
		t.Errorf("message after edit: %+v", got)
	}
}

func TestDelete(t *testing.T) {
	svc, _ := newMessageFixture()
	ctx := context.Background()

	m, err := svc.Send(ctx, "alice", "bob", "regret", domain.MessageTypeText, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(ctx, "bob", m.ID); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("recipient delete: err = %v, want ErrNotAuthorized", err)
	}
	if err := svc.Delete(ctx, "alice", m.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	// Idempotent.
	if err := svc.Delete(ctx, "alice", m.ID); err != nil {
		t.Errorf("second delete: %v", err)
	}

	if _, err := svc.Edit(ctx, "alice", m.ID, "too late"); !errors.Is(err, ErrMessageNotFound) {
		t.Errorf("edit after delete: err = %v, want ErrMessageNotFound", err)
	}

	msgs, err := svc.Conversation(ctx, "alice", "bob", 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 0 {
		t.Errorf("deleted message still listed: %d", len(msgs))
	}
}

func TestUnreadCount(t *testing.T) {
	svc, _ := newMessageFixture()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Send(ctx, "alice", "bob", "ping", domain.MessageTypeText, nil); err != nil {
			t.Fatal(err)
		}
	}
	n, err := svc.UnreadCount(ctx, "bob")
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("UnreadCount = %d, want 3", n)
	}
}
