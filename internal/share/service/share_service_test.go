package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	notifservice "social-platform/backend/internal/notification/service"
	postdomain "social-platform/backend/internal/post/domain"
	postservice "social-platform/backend/internal/post/service"
	"social-platform/backend/internal/share/domain"
)

type memShareRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Share
}

func newMemShareRepo() *memShareRepo {
	return &memShareRepo{byID: make(map[string]*domain.Share)}
}

func (r *memShareRepo) Create(ctx context.Context, sh *domain.Share) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s2 := *sh
	r.byID[sh.ID] = &s2
	return nil
}

func (r *memShareRepo) GetByID(ctx context.Context, id string) (*domain.Share, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sh, ok := r.byID[id]; ok {
		s2 := *sh
		return &s2, nil
	}
	return nil, nil
}

func (r *memShareRepo) Update(ctx context.Context, sh *domain.Share) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s2 := *sh
	r.byID[sh.ID] = &s2
	return nil
}

func (r *memShareRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

func (r *memShareRepo) ListByPost(ctx context.Context, postID string, limit, offset int) ([]*domain.Share, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Share
	for _, sh := range r.byID {
		if sh.PostID == postID {
			out = append(out, sh)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memShareRepo) CountByPost(ctx context.Context, postID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, sh := range r.byID {
		if sh.PostID == postID {
			n++
		}
	}
	return n, nil
}

type fakePosts struct {
	posts map[string]*postdomain.Post
}

func (f *fakePosts) GetPost(ctx context.Context, viewerID, postID string) (*postdomain.Post, error) {
	p, ok := f.posts[postID]
	if !ok || !p.CanBeViewedBy(viewerID, nil) {
		return nil, postservice.ErrPostNotFound
	}
	return p, nil
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

func strPtr(s string) *string { return &s }

func newShareFixture(t *testing.T) (*ShareService, *captureNotifier) {
	t.Helper()
	public, err := postdomain.NewPost("p1", "alice", "public post", postdomain.VisibilityPublic)
	if err != nil {
		t.Fatal(err)
	}
	hidden, err := postdomain.NewPost("p2", "alice", "private post", postdomain.VisibilityPrivate)
	if err != nil {
		t.Fatal(err)
	}
	posts := &fakePosts{posts: map[string]*postdomain.Post{"p1": public, "p2": hidden}}
	notifier := &captureNotifier{}
	return NewShareService(newMemShareRepo(), posts, notifier, 100), notifier
}

func TestShare(t *testing.T) {
	svc, notifier := newShareFixture(t)
	ctx := context.Background()

	sh, err := svc.Share(ctx, "bob", "p1", strPtr("worth a read"))
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	if sh.Comment == nil || *sh.Comment != "worth a read" {
		t.Errorf("Comment = %v", sh.Comment)
	}
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.to) != 1 || notifier.to[0] != "alice" {
		t.Errorf("notified %v, want [alice]", notifier.to)
	}
}

func TestShare_WithoutComment(t *testing.T) {
	svc, _ := newShareFixture(t)
	sh, err := svc.Share(context.Background(), "bob", "p1", nil)
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	if sh.Comment != nil {
		t.Errorf("Comment = %v, want nil", sh.Comment)
	}
}

func TestShare_InvisiblePost(t *testing.T) {
	svc, _ := newShareFixture(t)
	if _, err := svc.Share(context.Background(), "bob", "p2", nil); !errors.Is(err, postservice.ErrPostNotFound) {
		t.Errorf("err = %v, want ErrPostNotFound", err)
	}
}

func TestUpdateShareComment(t *testing.T) {
	svc, _ := newShareFixture(t)
	ctx := context.Background()

	sh, err := svc.Share(ctx, "bob", "p1", strPtr("first take"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.UpdateComment(ctx, "mallory", sh.ID, strPtr("hijack")); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("foreign update: err = %v, want ErrNotAuthorized", err)
	}

	got, err := svc.UpdateComment(ctx, "bob", sh.ID, nil)
	if err != nil {
		t.Fatalf("UpdateComment: %v", err)
	}
	if got.Comment != nil {
		t.Error("nil input should clear the comment")
	}
}

func TestDeleteShare(t *testing.T) {
	svc, _ := newShareFixture(t)
	ctx := context.Background()

	sh, err := svc.Share(ctx, "bob", "p1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteShare(ctx, "bob", sh.ID); err != nil {
		t.Fatalf("DeleteShare: %v", err)
	}
	if err := svc.DeleteShare(ctx, "bob", sh.ID); !errors.Is(err, ErrShareNotFound) {
		t.Errorf("second delete: err = %v, want ErrShareNotFound", err)
	}
}

func TestListAndCountShares(t *testing.T) {
	svc, _ := newShareFixture(t)
	ctx := context.Background()

	for _, user := range []string{"bob", "carol"} {
		if _, err := svc.Share(ctx, user, "p1", nil); err != nil {
			t.Fatal(err)
		}
	}
	shares, err := svc.ListShares(ctx, "bob", "p1", 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(shares) != 2 {
		t.Errorf("%d shares, want 2", len(shares))
	}
	n, err := svc.Count(ctx, "bob", "p1")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
}
