package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	followdomain "social-platform/backend/internal/follow/domain"
	notifservice "social-platform/backend/internal/notification/service"
	"social-platform/backend/internal/post/domain"
)

type memPostRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Post
	// follows drives ListFeed the way the SQL join does; nil means no follows.
	follows *memFollowRepo
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{byID: make(map[string]*domain.Post)}
}

func (r *memPostRepo) Create(ctx context.Context, p *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p2 := *p
	r.byID[p.ID] = &p2
	return nil
}

func (r *memPostRepo) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.byID[id]; ok {
		p2 := *p
		return &p2, nil
	}
	return nil, nil
}

func (r *memPostRepo) Update(ctx context.Context, p *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p2 := *p
	r.byID[p.ID] = &p2
	return nil
}

func (r *memPostRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *memPostRepo) CreateAttachment(ctx context.Context, m *domain.MediaAttachment) error {
	return nil
}

func (r *memPostRepo) ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Post
	for _, p := range r.byID {
		if p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	sortNewestFirst(out)
	return page(out, limit, offset), nil
}

// ListFeed mirrors the storage contract: the viewer's own posts in any
// visibility, plus accepted followees' non-private posts, newest first.
func (r *memPostRepo) ListFeed(ctx context.Context, viewerID string, limit, offset int) ([]*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Post
	for _, p := range r.byID {
		if p.AuthorID == viewerID {
			out = append(out, p)
			continue
		}
		if r.follows == nil {
			continue
		}
		f, _ := r.follows.GetByPair(ctx, viewerID, p.AuthorID)
		if f != nil && f.IsAccepted && p.Visibility != domain.VisibilityPrivate {
			out = append(out, p)
		}
	}
	sortNewestFirst(out)
	return page(out, limit, offset), nil
}

func (r *memPostRepo) ListReplies(ctx context.Context, parentID string, limit, offset int) ([]*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Post
	for _, p := range r.byID {
		if p.ParentID == parentID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func sortNewestFirst(posts []*domain.Post) {
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
}

func page(posts []*domain.Post, limit, offset int) []*domain.Post {
	if offset >= len(posts) {
		return nil
	}
	posts = posts[offset:]
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts
}

type memFollowRepo struct {
	mu sync.Mutex
	m  map[string]*followdomain.Follow // key follower|followee
}

func newMemFollowRepo() *memFollowRepo {
	return &memFollowRepo{m: make(map[string]*followdomain.Follow)}
}

func (r *memFollowRepo) GetByPair(ctx context.Context, followerID, followeeID string) (*followdomain.Follow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.m[followerID+"|"+followeeID], nil
}

func (r *memFollowRepo) add(f *followdomain.Follow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[f.FollowerID+"|"+f.FolloweeID] = f
}

type captureNotifier struct {
	mu    sync.Mutex
	calls []string // recipient user IDs
}

func (n *captureNotifier) Notify(ctx context.Context, userID string, in notifservice.CreateInput) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, userID)
	return nil
}

func newPostService(posts *memPostRepo, follows *memFollowRepo, n Notifier) *PostService {
	return NewPostService(posts, follows, n, 100)
}

func TestCreateTextPost(t *testing.T) {
	svc := newPostService(newMemPostRepo(), newMemFollowRepo(), nil)

	p, err := svc.CreateTextPost(context.Background(), "alice", "hello world", domain.VisibilityPublic)
	if err != nil {
		t.Fatalf("CreateTextPost: %v", err)
	}
	if p.Type != domain.PostTypeText {
		t.Errorf("Type = %q, want text", p.Type)
	}
}

func TestCreatePost_DerivesTypeFromMedia(t *testing.T) {
	svc := newPostService(newMemPostRepo(), newMemFollowRepo(), nil)

	p, err := svc.CreatePost(context.Background(), "alice", "vacation", domain.VisibilityPublic, []MediaInput{
		{URL: "https://cdn/a.jpg", FileName: "a.jpg", ContentType: "image/jpeg", FileSize: 1000},
		{URL: "https://cdn/b.mp4", FileName: "b.mp4", ContentType: "video/mp4", FileSize: 9000},
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if p.Type != domain.PostTypeMixed {
		t.Errorf("Type = %q, want mixed", p.Type)
	}
	if len(p.Attachments) != 2 {
		t.Errorf("%d attachments, want 2", len(p.Attachments))
	}
}

func TestCreatePost_CaptionlessMediaPost(t *testing.T) {
	svc := newPostService(newMemPostRepo(), newMemFollowRepo(), nil)

	p, err := svc.CreatePost(context.Background(), "alice", "", domain.VisibilityPublic, []MediaInput{
		{URL: "https://cdn/a.png", FileName: "a.png", ContentType: "image/png", FileSize: 2048},
	})
	if err != nil {
		t.Fatalf("CreatePost without caption: %v", err)
	}
	if p.Type != domain.PostTypeImage {
		t.Errorf("Type = %q, want image", p.Type)
	}
	if p.Content != "" {
		t.Errorf("Content = %q, want empty", p.Content)
	}

	// Without media the content requirement stays.
	if _, err := svc.CreatePost(context.Background(), "alice", "", domain.VisibilityPublic, nil); err == nil {
		t.Error("empty content with no media should fail")
	}
}

func TestFeed_IncludesOwnPosts(t *testing.T) {
	posts := newMemPostRepo()
	follows := newMemFollowRepo()
	posts.follows = follows
	svc := newPostService(posts, follows, nil)
	ctx := context.Background()

	f, err := followdomain.NewFollow("f1", "alice", "bob", false)
	if err != nil {
		t.Fatal(err)
	}
	follows.add(f)

	own, err := svc.CreateTextPost(ctx, "alice", "my own note", domain.VisibilityPrivate)
	if err != nil {
		t.Fatal(err)
	}
	followed, err := svc.CreateTextPost(ctx, "bob", "from bob", domain.VisibilityPublic)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateTextPost(ctx, "carol", "from a stranger", domain.VisibilityPublic); err != nil {
		t.Fatal(err)
	}

	feed, err := svc.Feed(ctx, "alice", 10, 0)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	got := make(map[string]bool, len(feed))
	for _, p := range feed {
		got[p.ID] = true
	}
	if !got[own.ID] {
		t.Error("feed should include the viewer's own posts")
	}
	if !got[followed.ID] {
		t.Error("feed should include accepted followees' posts")
	}
	if len(feed) != 2 {
		t.Errorf("feed has %d posts, want 2 (stranger excluded)", len(feed))
	}
}

func TestGetPost_Visibility(t *testing.T) {
	posts := newMemPostRepo()
	follows := newMemFollowRepo()
	svc := newPostService(posts, follows, nil)
	ctx := context.Background()

	pub, _ := svc.CreateTextPost(ctx, "alice", "public", domain.VisibilityPublic)
	fol, _ := svc.CreateTextPost(ctx, "alice", "followers", domain.VisibilityFollowers)
	prv, _ := svc.CreateTextPost(ctx, "alice", "private", domain.VisibilityPrivate)

	// Anyone sees public.
	if _, err := svc.GetPost(ctx, "stranger", pub.ID); err != nil {
		t.Errorf("public: %v", err)
	}
	// Stranger cannot see followers-only; reported as not found.
	if _, err := svc.GetPost(ctx, "stranger", fol.ID); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("followers-only for stranger: err = %v, want ErrPostNotFound", err)
	}
	// A pending follow does not grant access.
	pending, _ := followdomain.NewFollow("f1", "bob", "alice", true)
	follows.add(pending)
	if _, err := svc.GetPost(ctx, "bob", fol.ID); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("pending follower: err = %v, want ErrPostNotFound", err)
	}
	// An accepted follow does.
	if err := pending.Accept(); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetPost(ctx, "bob", fol.ID); err != nil {
		t.Errorf("accepted follower: %v", err)
	}
	// Private stays author-only even for followers.
	if _, err := svc.GetPost(ctx, "bob", prv.ID); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("private for follower: err = %v, want ErrPostNotFound", err)
	}
	if _, err := svc.GetPost(ctx, "alice", prv.ID); err != nil {
		t.Errorf("private for author: %v", err)
	}
}

func TestUpdateContent_AuthorOnly(t *testing.T) {
	svc := newPostService(newMemPostRepo(), newMemFollowRepo(), nil)
	ctx := context.Background()

	p, _ := svc.CreateTextPost(ctx, "alice", "original", domain.VisibilityPublic)

	if _, err := svc.UpdateContent(ctx, "mallory", p.ID, "hacked"); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("foreign update: err = %v, want ErrNotAuthorized", err)
	}
	got, err := svc.UpdateContent(ctx, "alice", p.ID, "edited")
	if err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	if got.Content != "edited" || !got.IsEdited {
		t.Errorf("post after edit: %+v", got)
	}
}

func TestDeletePost_AuthorOnly(t *testing.T) {
	svc := newPostService(newMemPostRepo(), newMemFollowRepo(), nil)
	ctx := context.Background()

	p, _ := svc.CreateTextPost(ctx, "alice", "to be deleted", domain.VisibilityPublic)

	if err := svc.DeletePost(ctx, "mallory", p.ID); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("foreign delete: err = %v, want ErrNotAuthorized", err)
	}
	if err := svc.DeletePost(ctx, "alice", p.ID); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	if _, err := svc.GetPost(ctx, "alice", p.ID); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("after delete: err = %v, want ErrPostNotFound", err)
	}
}

func TestAttachMedia(t *testing.T) {
	svc := newPostService(newMemPostRepo(), newMemFollowRepo(), nil)
	ctx := context.Background()

	p, _ := svc.CreateTextPost(ctx, "alice", "text first", domain.VisibilityPublic)
	got, err := svc.AttachMedia(ctx, "alice", p.ID, MediaInput{
		URL: "https://cdn/a.jpg", FileName: "a.jpg", ContentType: "image/jpeg", FileSize: 1000,
		Width: 800, Height: 600,
	})
	if err != nil {
		t.Fatalf("AttachMedia: %v", err)
	}
	if got.Type != domain.PostTypeImage {
		t.Errorf("Type = %q, want image after attach", got.Type)
	}

	if _, err := svc.AttachMedia(ctx, "mallory", p.ID, MediaInput{
		URL: "https://cdn/b.jpg", FileName: "b.jpg", ContentType: "image/jpeg", FileSize: 1,
	}); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("foreign attach: err = %v, want ErrNotAuthorized", err)
	}
}

func TestCreateReply(t *testing.T) {
	notifier := &captureNotifier{}
	svc := newPostService(newMemPostRepo(), newMemFollowRepo(), notifier)
	ctx := context.Background()

	parent, _ := svc.CreateTextPost(ctx, "alice", "root post", domain.VisibilityPublic)
	reply, err := svc.CreateReply(ctx, "bob", parent.ID, "nice one", domain.VisibilityPublic)
	if err != nil {
		t.Fatalf("CreateReply: %v", err)
	}
	if reply.ParentID != parent.ID || reply.RootID != parent.ID {
		t.Errorf("thread ids: parent=%q root=%q", reply.ParentID, reply.RootID)
	}

	// Reply to the reply keeps the original root.
	nested, err := svc.CreateReply(ctx, "alice", reply.ID, "thanks", domain.VisibilityPublic)
	if err != nil {
		t.Fatal(err)
	}
	if nested.RootID != parent.ID {
		t.Errorf("nested RootID = %q, want %q", nested.RootID, parent.ID)
	}

	// Bob's reply notified alice; alice's reply to bob notified bob.
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.calls) != 2 || notifier.calls[0] != "alice" || notifier.calls[1] != "bob" {
		t.Errorf("notifications = %v", notifier.calls)
	}
}

func TestCreateReply_NoSelfNotification(t *testing.T) {
	notifier := &captureNotifier{}
	svc := newPostService(newMemPostRepo(), newMemFollowRepo(), notifier)
	ctx := context.Background()

	parent, _ := svc.CreateTextPost(ctx, "alice", "root", domain.VisibilityPublic)
	if _, err := svc.CreateReply(ctx, "alice", parent.ID, "self reply", domain.VisibilityPublic); err != nil {
		t.Fatal(err)
	}
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.calls) != 0 {
		t.Errorf("self-reply should not notify, got %v", notifier.calls)
	}
}

func TestListByAuthor_FiltersInvisible(t *testing.T) {
	posts := newMemPostRepo()
	svc := newPostService(posts, newMemFollowRepo(), nil)
	ctx := context.Background()

	if _, err := svc.CreateTextPost(ctx, "alice", "public", domain.VisibilityPublic); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateTextPost(ctx, "alice", "followers", domain.VisibilityFollowers); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateTextPost(ctx, "alice", "private", domain.VisibilityPrivate); err != nil {
		t.Fatal(err)
	}

	strangerView, err := svc.ListByAuthor(ctx, "stranger", "alice", 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(strangerView) != 1 {
		t.Errorf("stranger sees %d posts, want 1", len(strangerView))
	}

	authorView, err := svc.ListByAuthor(ctx, "alice", "alice", 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(authorView) != 3 {
		t.Errorf("author sees %d posts, want 3", len(authorView))
	}
}

func TestListReplies(t *testing.T) {
	svc := newPostService(newMemPostRepo(), newMemFollowRepo(), nil)
	ctx := context.Background()

	parent, _ := svc.CreateTextPost(ctx, "alice", "root", domain.VisibilityPublic)
	for i := 0; i < 3; i++ {
		if _, err := svc.CreateReply(ctx, "bob", parent.ID, "reply", domain.VisibilityPublic); err != nil {
			t.Fatal(err)
		}
	}

	replies, err := svc.ListReplies(ctx, "stranger", parent.ID, 10, 0)
	if err != nil {
		t.Fatalf("ListReplies: %v", err)
	}
	if len(replies) != 3 {
		t.Errorf("got %d replies, want 3", len(replies))
	}

	if _, err := svc.ListReplies(ctx, "stranger", "missing", 10, 0); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("missing parent: err = %v, want ErrPostNotFound", err)
	}
}
