package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"social-platform/backend/internal/db"
	"social-platform/backend/internal/pagination"
	"social-platform/backend/internal/security"
	"social-platform/backend/internal/user/domain"
)

// Sentinel errors for the user service; callers map them to transport codes.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email is already registered")
	ErrUsernameTaken = errors.New("username is already taken")
	ErrWeakPassword  = errors.New("password must be at least 8 characters")
)

// UserRepo is the minimal user repository needed by the user service.
type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string, limit, offset int) ([]*domain.User, error)
}

// UserService implements account registration and profile management.
type UserService struct {
	repo     UserRepo
	hasher   *security.Hasher
	maxLimit int
}

// NewUserService returns a UserService with the given dependencies.
func NewUserService(repo UserRepo, hasher *security.Hasher, maxLimit int) *UserService {
	if maxLimit <= 0 {
		maxLimit = pagination.DefaultMaxLimit
	}
	return &UserService{repo: repo, hasher: hasher, maxLimit: maxLimit}
}

// Register creates an account. Email and username are unique
// case-insensitively; the password is hashed before storage and never kept.
func (s *UserService) Register(ctx context.Context, email, username, displayName, password string, birthDate *time.Time) (*domain.User, error) {
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}
	// Pre-checks give friendly errors; the unique indexes stay authoritative
	// under concurrent registration.
	if existing, err := s.repo.GetByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailTaken
	}
	if existing, err := s.repo.GetByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrUsernameTaken
	}
	hash, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, err
	}
	u, err := domain.NewUser(uuid.New().String(), email, username, displayName, hash, birthDate)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, u); err != nil {
		switch db.UniqueConstraint(err) {
		case "users_email_lower_idx":
			return nil, ErrEmailTaken
		case "users_username_lower_idx":
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return u, nil
}

// GetByID returns the user for id.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// GetByUsername returns the user with the given username, case-insensitively.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// UpdateProfile replaces the user's profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, p domain.ProfileUpdate) (*domain.User, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := u.UpdateProfile(p); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPrivacy toggles the account privacy flag.
func (s *UserService) SetPrivacy(ctx context.Context, userID string, private bool) (*domain.User, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.SetPrivate(private)
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Verify marks the account verified.
func (s *UserService) Verify(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Verify()
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Search returns users matching the query by username or display name.
// An empty query returns an empty result without hitting storage.
func (s *UserService) Search(ctx context.Context, query string, limit, offset int) ([]*domain.User, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	limit, offset = pagination.Clamp(limit, offset, pagination.DefaultLimit, s.maxLimit)
	return s.repo.Search(ctx, strings.TrimSpace(query), limit, offset)
}

// Delete removes the account and, through storage cascades, everything it owns.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	if _, err := s.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, userID)
}
