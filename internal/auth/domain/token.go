package domain

import (
	"errors"
	"strings"
	"time"
)

// RefreshToken is a server-side record of an opaque refresh token. Only the
// SHA-256 hash of the token is stored; the raw value is returned to the
// client once and never persisted.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	IsRevoked bool
	RevokedAt *time.Time
	RevokedIP string
	// RevokeReason records why the token was revoked: rotation, logout, or
	// reuse detection.
	RevokeReason string
	// ReplacedByID links a rotated token to its successor so reuse of a
	// stale token can be traced.
	ReplacedByID string
	CreatedAt    time.Time
}

// NewRefreshToken builds an active refresh token record.
func NewRefreshToken(id, userID, tokenHash string, expiresAt time.Time) (*RefreshToken, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("id is required")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("userID is required")
	}
	if strings.TrimSpace(tokenHash) == "" {
		return nil, errors.New("tokenHash is required")
	}
	now := time.Now().UTC()
	if !expiresAt.After(now) {
		return nil, errors.New("expiresAt must be in the future")
	}
	return &RefreshToken{
		ID:        strings.TrimSpace(id),
		UserID:    strings.TrimSpace(userID),
		TokenHash: strings.TrimSpace(tokenHash),
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: now,
	}, nil
}

// Revoke marks the token revoked, recording the caller's IP and the reason.
// Revoking twice overwrites the earlier reason; callers that care check
// IsRevoked first.
func (t *RefreshToken) Revoke(ip, reason string) {
	now := time.Now().UTC()
	t.IsRevoked = true
	t.RevokedAt = &now
	t.RevokedIP = strings.TrimSpace(ip)
	t.RevokeReason = strings.TrimSpace(reason)
}

// MarkReplaced records the successor token produced by rotation.
func (t *RefreshToken) MarkReplaced(successorID string) {
	t.ReplacedByID = strings.TrimSpace(successorID)
}

// IsExpired reports whether the token has passed its expiry.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// IsActive reports whether the token can still be redeemed.
func (t *RefreshToken) IsActive(now time.Time) bool {
	return !t.IsRevoked && !t.IsExpired(now)
}

// PasswordResetToken is a single-use token for the password reset flow.
type PasswordResetToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	IsUsed    bool
	UsedAt    *time.Time
	CreatedAt time.Time
}

// NewPasswordResetToken builds an unused reset token record.
func NewPasswordResetToken(id, userID, tokenHash string, expiresAt time.Time) (*PasswordResetToken, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("id is required")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("userID is required")
	}
	if strings.TrimSpace(tokenHash) == "" {
		return nil, errors.New("tokenHash is required")
	}
	now := time.Now().UTC()
	if !expiresAt.After(now) {
		return nil, errors.New("expiresAt must be in the future")
	}
	return &PasswordResetToken{
		ID:        strings.TrimSpace(id),
		UserID:    strings.TrimSpace(userID),
		TokenHash: strings.TrimSpace(tokenHash),
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: now,
	}, nil
}

// MarkUsed consumes the token. A second call fails.
func (t *PasswordResetToken) MarkUsed() error {
	if t.IsUsed {
		return errors.New("reset token has already been used")
	}
	now := time.Now().UTC()
	t.IsUsed = true
	t.UsedAt = &now
	return nil
}

// IsExpired reports whether the token has passed its expiry.
func (t *PasswordResetToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// IsRedeemable reports whether the token can still complete a reset.
func (t *PasswordResetToken) IsRedeemable(now time.Time) bool {
	return !t.IsUsed && !t.IsExpired(now)
}
