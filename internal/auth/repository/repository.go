package repository

import (
	"context"

	"social-platform/backend/internal/auth/domain"
)

// RefreshTokenRepository defines persistence for refresh token records.
type RefreshTokenRepository interface {
	Create(ctx context.Context, t *domain.RefreshToken) error
	// GetByHash looks a token up by its stored hash, or nil if not found.
	GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	Update(ctx context.Context, t *domain.RefreshToken) error
	// RevokeAllForUser revokes every active token of the user, recording the
	// reason, and returns the number revoked. Used on token-reuse detection
	// and password reset.
	RevokeAllForUser(ctx context.Context, userID, ip, reason string) (int, error)
}

// ResetTokenRepository defines persistence for password reset tokens.
type ResetTokenRepository interface {
	Create(ctx context.Context, t *domain.PasswordResetToken) error
	GetByHash(ctx context.Context, tokenHash string) (*domain.PasswordResetToken, error)
	Update(ctx context.Context, t *domain.PasswordResetToken) error
	// InvalidateForUser marks all of the user's unused tokens used so only
	// the most recently issued token can redeem.
	InvalidateForUser(ctx context.Context, userID string) error
}

// SessionRepository defines persistence for user sessions.
type SessionRepository interface {
	Create(ctx context.Context, s *domain.UserSession) error
	// GetByRefreshTokenID returns the session backed by the given refresh
	// token record, or nil if none exists.
	GetByRefreshTokenID(ctx context.Context, refreshTokenID string) (*domain.UserSession, error)
	Update(ctx context.Context, s *domain.UserSession) error
	// ListActiveForUser returns the user's active sessions, most recently
	// seen first.
	ListActiveForUser(ctx context.Context, userID string) ([]*domain.UserSession, error)
	// EndAllForUser ends every active session of the user and returns the
	// number ended.
	EndAllForUser(ctx context.Context, userID string) (int, error)
}
