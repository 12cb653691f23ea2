package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"social-platform/backend/internal/security"
	"social-platform/backend/internal/user/domain"
)

type memUserRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: make(map[string]*domain.User)}
}

func (r *memUserRepo) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u2 := *u
	r.byID[u.ID] = &u2
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id], nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u2 := *u
	r.byID[u.ID] = &u2
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *memUserRepo) Search(ctx context.Context, query string, limit, offset int) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := strings.ToLower(query)
	var out []*domain.User
	for _, u := range r.byID {
		if strings.Contains(strings.ToLower(u.Username), q) ||
			strings.Contains(strings.ToLower(u.DisplayName), q) {
			out = append(out, u)
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

func newUserService(repo *memUserRepo) *UserService {
	return NewUserService(repo, security.NewHasher(4), 100)
}

func TestRegister(t *testing.T) {
	svc := newUserService(newMemUserRepo())

	u, err := svc.Register(context.Background(), "Alice@Example.com", "Alice", "Alice", "password123", nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "alice@example.com" || u.Username != "alice" {
		t.Errorf("email/username not lowercased: %q %q", u.Email, u.Username)
	}
	if u.PasswordHash == "" || u.PasswordHash == "password123" {
		t.Error("password should be hashed")
	}
}

func TestRegister_WeakPassword(t *testing.T) {
	svc := newUserService(newMemUserRepo())
	_, err := svc.Register(context.Background(), "a@example.com", "a", "A", "short", nil)
	if !errors.Is(err, ErrWeakPassword) {
		t.Errorf("err = %v, want ErrWeakPassword", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newUserService(newMemUserRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "a@example.com", "first", "First", "password123", nil); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Register(ctx, "A@EXAMPLE.COM", "second", "Second", "password123", nil)
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("err = %v, want ErrEmailTaken", err)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := newUserService(newMemUserRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "a@example.com", "taken", "First", "password123", nil); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Register(ctx, "b@example.com", "TAKEN", "Second", "password123", nil)
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("err = %v, want ErrUsernameTaken", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newUserService(newMemUserRepo())
	_, err := svc.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc := newUserService(newMemUserRepo())
	ctx := context.Background()

	u, err := svc.Register(ctx, "a@example.com", "a", "A", "password123", nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := svc.UpdateProfile(ctx, u.ID, domain.ProfileUpdate{
		DisplayName: "Alice",
		Bio:         "hello",
		Location:    "Oslo",
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if got.DisplayName != "Alice" || got.Bio != "hello" || got.Location != "Oslo" {
		t.Errorf("profile not updated: %+v", got)
	}

	// Persisted, not just mutated in memory.
	stored, err := svc.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Bio != "hello" {
		t.Error("update was not persisted")
	}
}

func TestSetPrivacyAndVerify(t *testing.T) {
	svc := newUserService(newMemUserRepo())
	ctx := context.Background()

	u, err := svc.Register(ctx, "a@example.com", "a", "A", "password123", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SetPrivacy(ctx, u.ID, true); err != nil {
		t.Fatalf("SetPrivacy: %v", err)
	}
	if _, err := svc.Verify(ctx, u.ID); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	stored, _ := svc.GetByID(ctx, u.ID)
	if !stored.IsPrivate || !stored.IsVerified {
		t.Errorf("flags not persisted: private=%v verified=%v", stored.IsPrivate, stored.IsVerified)
	}
}

func TestSearch(t *testing.T) {
	svc := newUserService(newMemUserRepo())
	ctx := context.Background()

	for _, name := range []string{"alice", "alina", "bob"} {
		if _, err := svc.Register(ctx, name+"@example.com", name, name, "password123", nil); err != nil {
			t.Fatal(err)
		}
	}

	got, err := svc.Search(ctx, "ali", 10, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d results, want 2", len(got))
	}

	// Blank query short-circuits.
	got, err = svc.Search(ctx, "   ", 10, 0)
	if err != nil || got != nil {
		t.Errorf("blank query: got %v, %v", got, err)
	}
}

func TestDelete(t *testing.T) {
	svc := newUserService(newMemUserRepo())
	ctx := context.Background()

	u, err := svc.Register(ctx, "a@example.com", "a", "A", "password123", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, u.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.GetByID(ctx, u.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound after delete", err)
	}
	if err := svc.Delete(ctx, u.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("second delete: err = %v, want ErrUserNotFound", err)
	}
}
