package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"social-platform/backend/internal/auth/domain"
	"social-platform/backend/internal/security"
	userdomain "social-platform/backend/internal/user/domain"
)

// Sentinel errors for the auth service; callers map them to transport codes.
var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrRefreshTokenReuse   = errors.New("refresh token reuse detected; all sessions revoked")
	ErrInvalidResetToken   = errors.New("invalid, expired, or used reset token")
	ErrWeakPassword        = errors.New("password must be at least 8 characters")
)

// LoginResult holds the outcome of Login and Refresh. RefreshToken is the raw
// opaque token, returned to the caller exactly once.
type LoginResult struct {
	UserID       string
	RefreshToken string
	ExpiresAt    time.Time
	SessionID    string
}

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	Update(ctx context.Context, u *userdomain.User) error
}

// RefreshTokenRepo is the minimal refresh token repository needed by the auth service.
type RefreshTokenRepo interface {
	Create(ctx context.Context, t *domain.RefreshToken) error
	GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	Update(ctx context.Context, t *domain.RefreshToken) error
	RevokeAllForUser(ctx context.Context, userID, ip, reason string) (int, error)
}

// ResetTokenRepo is the minimal reset token repository needed by the auth service.
type ResetTokenRepo interface {
	Create(ctx context.Context, t *domain.PasswordResetToken) error
	GetByHash(ctx context.Context, tokenHash string) (*domain.PasswordResetToken, error)
	Update(ctx context.Context, t *domain.PasswordResetToken) error
	InvalidateForUser(ctx context.Context, userID string) error
}

// SessionRepo is the minimal session repository needed by the auth service.
type SessionRepo interface {
	Create(ctx context.Context, s *domain.UserSession) error
	GetByRefreshTokenID(ctx context.Context, refreshTokenID string) (*domain.UserSession, error)
	Update(ctx context.Context, s *domain.UserSession) error
	ListActiveForUser(ctx context.Context, userID string) ([]*domain.UserSession, error)
	EndAllForUser(ctx context.Context, userID string) (int, error)
}

// AuthService implements login, opaque refresh token rotation, logout, and
// the password reset flow.
type AuthService struct {
	userRepo    UserRepo
	refreshRepo RefreshTokenRepo
	resetRepo   ResetTokenRepo
	sessionRepo SessionRepo
	hasher      *security.Hasher
	refreshTTL  time.Duration
	resetTTL    time.Duration
}

// NewAuthService returns an AuthService with the given dependencies.
func NewAuthService(
	userRepo UserRepo,
	refreshRepo RefreshTokenRepo,
	resetRepo ResetTokenRepo,
	sessionRepo SessionRepo,
	hasher *security.Hasher,
	refreshTTL, resetTTL time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		refreshRepo: refreshRepo,
		resetRepo:   resetRepo,
		sessionRepo: sessionRepo,
		hasher:      hasher,
		refreshTTL:  refreshTTL,
		resetTTL:    resetTTL,
	}
}

// Login authenticates with email and password and opens a session backed by a
// fresh refresh token. Unknown emails and wrong passwords return the same
// error so callers cannot enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, password, ip, userAgent string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.openSession(ctx, user.ID, ip, userAgent)
}

// Refresh redeems a refresh token, rotating it: the presented token is
// revoked and a successor is issued on the same session. Presenting an
// already-revoked token is treated as theft and revokes every session of the
// user.
func (s *AuthService) Refresh(ctx context.Context, refreshToken, ip string) (*LoginResult, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}
	current, err := s.refreshRepo.GetByHash(ctx, security.HashToken(refreshToken))
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrInvalidRefreshToken
	}
	now := time.Now().UTC()
	if current.IsRevoked {
		// Reuse of a rotated token means the token leaked; nothing issued to
		// this user can be trusted anymore.
		if _, err := s.refreshRepo.RevokeAllForUser(ctx, current.UserID, ip, "token reuse detected"); err != nil {
			return nil, err
		}
		if _, err := s.sessionRepo.EndAllForUser(ctx, current.UserID); err != nil {
			return nil, err
		}
		return nil, ErrRefreshTokenReuse
	}
	if current.IsExpired(now) {
		return nil, ErrInvalidRefreshToken
	}

	raw, err := security.GenerateToken()
	if err != nil {
		return nil, err
	}
	successor, err := domain.NewRefreshToken(uuid.New().String(), current.UserID, security.HashToken(raw), now.Add(s.refreshTTL))
	if err != nil {
		return nil, err
	}
	if err := s.refreshRepo.Create(ctx, successor); err != nil {
		return nil, err
	}
	current.Revoke(ip, "rotated")
	current.MarkReplaced(successor.ID)
	if err := s.refreshRepo.Update(ctx, current); err != nil {
		return nil, err
	}

	sess, err := s.sessionRepo.GetByRefreshTokenID(ctx, current.ID)
	if err != nil {
		return nil, err
	}
	sessionID := ""
	if sess != nil {
		if err := sess.Rotate(successor.ID); err != nil {
			return nil, err
		}
		if err := s.sessionRepo.Update(ctx, sess); err != nil {
			return nil, err
		}
		sessionID = sess.ID
	}
	return &LoginResult{
		UserID:       current.UserID,
		RefreshToken: raw,
		ExpiresAt:    successor.ExpiresAt,
		SessionID:    sessionID,
	}, nil
}

// Logout revokes the presented refresh token and ends its session. An unknown
// token is a no-op: logout never fails for being already logged out.
func (s *AuthService) Logout(ctx context.Context, refreshToken, ip string) error {
	if refreshToken == "" {
		return nil
	}
	current, err := s.refreshRepo.GetByHash(ctx, security.HashToken(refreshToken))
	if err != nil {
		return err
	}
	if current == nil || current.IsRevoked {
		return nil
	}
	current.Revoke(ip, "logout")
	if err := s.refreshRepo.Update(ctx, current); err != nil {
		return err
	}
	sess, err := s.sessionRepo.GetByRefreshTokenID(ctx, current.ID)
	if err != nil {
		return err
	}
	if sess != nil {
		sess.End()
		return s.sessionRepo.Update(ctx, sess)
	}
	return nil
}

// RequestPasswordReset issues a reset token for the account with the given
// email and invalidates earlier unused tokens. The raw token is returned for
// delivery; unknown emails return ("", nil) so callers cannot enumerate
// accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", nil
	}
	if err := s.resetRepo.InvalidateForUser(ctx, user.ID); err != nil {
		return "", err
	}
	raw, err := security.GenerateToken()
	if err != nil {
		return "", err
	}
	tok, err := domain.NewPasswordResetToken(uuid.New().String(), user.ID, security.HashToken(raw), time.Now().UTC().Add(s.resetTTL))
	if err != nil {
		return "", err
	}
	if err := s.resetRepo.Create(ctx, tok); err != nil {
		return "", err
	}
	return raw, nil
}

// ResetPassword redeems a reset token, replaces the password, and revokes all
// refresh tokens and sessions so stolen credentials stop working everywhere.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrWeakPassword
	}
	if resetToken == "" {
		return ErrInvalidResetToken
	}
	tok, err := s.resetRepo.GetByHash(ctx, security.HashToken(resetToken))
	if err != nil {
		return err
	}
	if tok == nil || !tok.IsRedeemable(time.Now().UTC()) {
		return ErrInvalidResetToken
	}
	user, err := s.userRepo.GetByID(ctx, tok.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidResetToken
	}
	hash, err := s.hasher.Hash([]byte(newPassword))
	if err != nil {
		return err
	}
	if err := user.SetPasswordHash(hash); err != nil {
		return err
	}
	if err := tok.MarkUsed(); err != nil {
		return ErrInvalidResetToken
	}
	if err := s.resetRepo.Update(ctx, tok); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	if _, err := s.refreshRepo.RevokeAllForUser(ctx, user.ID, "", "password reset"); err != nil {
		return err
	}
	_, err = s.sessionRepo.EndAllForUser(ctx, user.ID)
	return err
}

// ListSessions returns the user's active sessions, most recently seen first.
func (s *AuthService) ListSessions(ctx context.Context, userID string) ([]*domain.UserSession, error) {
	return s.sessionRepo.ListActiveForUser(ctx, userID)
}

func (s *AuthService) openSession(ctx context.Context, userID, ip, userAgent string) (*LoginResult, error) {
	raw, err := security.GenerateToken()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	tok, err := domain.NewRefreshToken(uuid.New().String(), userID, security.HashToken(raw), now.Add(s.refreshTTL))
	if err != nil {
		return nil, err
	}
	if err := s.refreshRepo.Create(ctx, tok); err != nil {
		return nil, err
	}
	sess, err := domain.NewUserSession(uuid.New().String(), userID, tok.ID, userAgent, ip)
	if err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Create(ctx, sess); err != nil {
		return nil, err
	}
	return &LoginResult{
		UserID:       userID,
		RefreshToken: raw,
		ExpiresAt:    tok.ExpiresAt,
		SessionID:    sess.ID,
	}, nil
}
