package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"social-platform/backend/internal/like/domain"
	notifservice "social-platform/backend/internal/notification/service"
	postdomain "social-platform/backend/internal/post/domain"
	postservice "social-platform/backend/internal/post/service"
)

type memLikeRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Like
}

func newMemLikeRepo() *memLikeRepo {
	return &memLikeRepo{byID: make(map[string]*domain.Like)}
}

func (r *memLikeRepo) Create(ctx context.Context, l *domain.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l2 := *l
	r.byID[l.ID] = &l2
	return nil
}

func (r *memLikeRepo) GetByPair(ctx context.Context, userID, postID string) (*domain.Like, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.byID {
		if l.UserID == userID && l.PostID == postID {
			l2 := *l
			return &l2, nil
		}
	}
	return nil, nil
}

func (r *memLikeRepo) DeleteByPair(ctx context.Context, userID, postID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, l := range r.byID {
		if l.UserID == userID && l.PostID == postID {
			delete(r.byID, id)
			return true, nil
		}
	}
	return false, nil
}

func (r *memLikeRepo) ListByPost(ctx context.Context, postID string, limit, offset int) ([]*domain.Like, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Like
	for _, l := range r.byID {
		if l.PostID == postID {
			out = append(out, l)
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

func (r *memLikeRepo) CountByPost(ctx context.Context, postID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, l := range r.byID {
		if l.PostID == postID {
			n++
		}
	}
	return n, nil
}

// fakePosts serves a fixed set of posts, hiding those not visible to the viewer.
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

func newLikeFixture(t *testing.T) (*LikeService, *captureNotifier) {
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
	return NewLikeService(newMemLikeRepo(), posts, notifier, 100), notifier
}

func TestLike(t *testing.T) {
	svc, notifier := newLikeFixture(t)
	ctx := context.Background()

	l, err := svc.Like(ctx, "bob", "p1")
	if err != nil {
		t.Fatalf("Like: %v", err)
	}
	if l.UserID != "bob" || l.PostID != "p1" {
		t.Errorf("like = %+v", l)
	}
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.to) != 1 || notifier.to[0] != "alice" {
		t.Errorf("notified %v, want [alice]", notifier.to)
	}
}

func TestLike_Duplicate(t *testing.T) {
	svc, _ := newLikeFixture(t)
	ctx := context.Background()

	if _, err := svc.Like(ctx, "bob", "p1"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Like(ctx, "bob", "p1"); !errors.Is(err, ErrAlreadyLiked) {
		t.Errorf("err = %v, want ErrAlreadyLiked", err)
	}
}

func TestLike_InvisiblePost(t *testing.T) {
	svc, _ := newLikeFixture(t)
	if _, err := svc.Like(context.Background(), "bob", "p2"); !errors.Is(err, postservice.ErrPostNotFound) {
		t.Errorf("err = %v, want ErrPostNotFound", err)
	}
}

func TestLike_SelfLikeNoNotification(t *testing.T) {
	svc, notifier := newLikeFixture(t)
	if _, err := svc.Like(context.Background(), "alice", "p1"); err != nil {
		t.Fatal(err)
	}
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.to) != 0 {
		t.Errorf("self-like should not notify, got %v", notifier.to)
	}
}

func TestUnlike(t *testing.T) {
	svc, _ := newLikeFixture(t)
	ctx := context.Background()

	if _, err := svc.Like(ctx, "bob", "p1"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Unlike(ctx, "bob", "p1"); err != nil {
		t.Fatalf("Unlike: %v", err)
	}
	if err := svc.Unlike(ctx, "bob", "p1"); !errors.Is(err, ErrLikeNotFound) {
		t.Errorf("second unlike: err = %v, want ErrLikeNotFound", err)
	}

	// Like again after unliking works.
	if _, err := svc.Like(ctx, "bob", "p1"); err != nil {
		t.Errorf("re-like: %v", err)
	}
}

func TestIsLiked(t *testing.T) {
	svc, _ := newLikeFixture(t)
	ctx := context.Background()

	liked, err := svc.IsLiked(ctx, "bob", "p1")
	if err != nil {
		t.Fatal(err)
	}
	if liked {
		t.Error("IsLiked before liking = true, want false")
	}
	if _, err := svc.Like(ctx, "bob", "p1"); err != nil {
		t.Fatal(err)
	}
	liked, err = svc.IsLiked(ctx, "bob", "p1")
	if err != nil {
		t.Fatal(err)
	}
	if !liked {
		t.Error("IsLiked after liking = false, want true")
	}
}

func TestCountAndList(t *testing.T) {
	svc, _ := newLikeFixture(t)
	ctx := context.Background()

	for _, user := range []string{"bob", "carol", "dave"} {
		if _, err := svc.Like(ctx, user, "p1"); err != nil {
			t.Fatal(err)
		}
	}
	n, err := svc.Count(ctx, "bob", "p1")
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("Count = %d, want 3", n)
	}
	likes, err := svc.ListLikes(ctx, "bob", "p1", 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(likes) != 2 {
		t.Errorf("page of %d likes, want 2", len(likes))
	}
}
