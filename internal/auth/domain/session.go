package domain

import (
	"errors"
	"strings"
	"time"
)

// UserSession records one authenticated device. Sessions are keyed by the
// refresh token chain that backs them and carry request metadata for the
// account's active-sessions view.
type UserSession struct {
	ID             string
	UserID         string
	RefreshTokenID string
	UserAgent      string
	IPAddress      string
	IsActive       bool
	LastSeenAt     time.Time
	EndedAt        *time.Time
	CreatedAt      time.Time
}

// NewUserSession builds an active session tied to a refresh token record.
func NewUserSession(id, userID, refreshTokenID, userAgent, ipAddress string) (*UserSession, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("id is required")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("userID is required")
	}
	if strings.TrimSpace(refreshTokenID) == "" {
		return nil, errors.New("refreshTokenID is required")
	}
	now := time.Now().UTC()
	return &UserSession{
		ID:             strings.TrimSpace(id),
		UserID:         strings.TrimSpace(userID),
		RefreshTokenID: strings.TrimSpace(refreshTokenID),
		UserAgent:      strings.TrimSpace(userAgent),
		IPAddress:      strings.TrimSpace(ipAddress),
		IsActive:       true,
		LastSeenAt:     now,
		CreatedAt:      now,
	}, nil
}

// Touch advances the last-seen timestamp, typically on token refresh.
func (s *UserSession) Touch() {
	s.LastSeenAt = time.Now().UTC()
}

// Rotate repoints the session at the successor refresh token and touches it.
func (s *UserSession) Rotate(refreshTokenID string) error {
	refreshTokenID = strings.TrimSpace(refreshTokenID)
	if refreshTokenID == "" {
		return errors.New("refreshTokenID is required")
	}
	s.RefreshTokenID = refreshTokenID
	s.Touch()
	return nil
}

// End closes the session. No-op when already ended; EndedAt is fixed on the
// first call.
func (s *UserSession) End() {
	if !s.IsActive {
		return
	}
	now := time.Now().UTC()
	s.IsActive = false
	s.EndedAt = &now
}
