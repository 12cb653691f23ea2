package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"social-platform/backend/internal/auth/domain"
)

type PostgresRefreshTokenRepository struct {
	db *sql.DB
}

// NewPostgresRefreshTokenRepository returns a refresh token repository that
// uses the given db for persistence.
func NewPostgresRefreshTokenRepository(db *sql.DB) *PostgresRefreshTokenRepository {
	return &PostgresRefreshTokenRepository{db: db}
}

const refreshTokenColumns = `id, user_id, token_hash, expires_at, is_revoked,
	revoked_at, revoked_ip, revoke_reason, replaced_by_id, created_at`

// Create persists the refresh token record.
func (r *PostgresRefreshTokenRepository) Create(ctx context.Context, t *domain.RefreshToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (`+refreshTokenColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.UserID, t.TokenHash, t.ExpiresAt, t.IsRevoked,
		t.RevokedAt, t.RevokedIP, t.RevokeReason, t.ReplacedByID, t.CreatedAt)
	return err
}

// GetByHash returns the refresh token with the given hash, or nil if not found.
func (r *PostgresRefreshTokenRepository) GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+refreshTokenColumns+` FROM refresh_tokens WHERE token_hash = $1`, tokenHash)
	var t domain.RefreshToken
	err := row.Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.IsRevoked,
		&t.RevokedAt, &t.RevokedIP, &t.RevokeReason, &t.ReplacedByID, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// Update rewrites the token's revocation state. Missing rows are not an error.
func (r *PostgresRefreshTokenRepository) Update(ctx context.Context, t *domain.RefreshToken) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE refresh_tokens SET
			is_revoked = $2, revoked_at = $3, revoked_ip = $4,
			revoke_reason = $5, replaced_by_id = $6
		WHERE id = $1`,
		t.ID, t.IsRevoked, t.RevokedAt, t.RevokedIP,
		t.RevokeReason, t.ReplacedByID)
	return err
}

// RevokeAllForUser revokes every active token of the user in one statement.
func (r *PostgresRefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID, ip, reason string) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE refresh_tokens SET
			is_revoked = TRUE, revoked_at = $2, revoked_ip = $3, revoke_reason = $4
		WHERE user_id = $1 AND NOT is_revoked`,
		userID, time.Now().UTC(), ip, reason)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

type PostgresResetTokenRepository struct {
	db *sql.DB
}

// NewPostgresResetTokenRepository returns a password reset token repository
// that uses the given db for persistence.
func NewPostgresResetTokenRepository(db *sql.DB) *PostgresResetTokenRepository {
	return &PostgresResetTokenRepository{db: db}
}

const resetTokenColumns = `id, user_id, token_hash, expires_at, is_used, used_at, created_at`

// Create persists the reset token record.
func (r *PostgresResetTokenRepository) Create(ctx context.Context, t *domain.PasswordResetToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO password_reset_tokens (`+resetTokenColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.UserID, t.TokenHash, t.ExpiresAt, t.IsUsed, t.UsedAt, t.CreatedAt)
	return err
}

// GetByHash returns the reset token with the given hash, or nil if not found.
func (r *PostgresResetTokenRepository) GetByHash(ctx context.Context, tokenHash string) (*domain.PasswordResetToken, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+resetTokenColumns+` FROM password_reset_tokens WHERE token_hash = $1`, tokenHash)
	var t domain.PasswordResetToken
	err := row.Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.IsUsed, &t.UsedAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// Update rewrites the token's used state. Missing rows are not an error.
func (r *PostgresResetTokenRepository) Update(ctx context.Context, t *domain.PasswordResetToken) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE password_reset_tokens SET is_used = $2, used_at = $3 WHERE id = $1`,
		t.ID, t.IsUsed, t.UsedAt)
	return err
}

// InvalidateForUser marks all of the user's unused tokens used so only the
// most recently issued token can redeem.
func (r *PostgresResetTokenRepository) InvalidateForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE password_reset_tokens SET is_used = TRUE, used_at = $2
		WHERE user_id = $1 AND NOT is_used`,
		userID, time.Now().UTC())
	return err
}

type PostgresSessionRepository struct {
	db *sql.DB
}

// NewPostgresSessionRepository returns a session repository that uses the
// given db for persistence.
func NewPostgresSessionRepository(db *sql.DB) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db}
}

const sessionColumns = `id, user_id, refresh_token_id, user_agent, ip_address,
	is_active, last_seen_at, ended_at, created_at`

// Create persists the session.
func (r *PostgresSessionRepository) Create(ctx context.Context, s *domain.UserSession) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.UserID, s.RefreshTokenID, s.UserAgent, s.IPAddress,
		s.IsActive, s.LastSeenAt, s.EndedAt, s.CreatedAt)
	return err
}

// GetByRefreshTokenID returns the session backed by the given refresh token
// record, or nil if none exists.
func (r *PostgresSessionRepository) GetByRefreshTokenID(ctx context.Context, refreshTokenID string) (*domain.UserSession, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+` FROM user_sessions WHERE refresh_token_id = $1`, refreshTokenID)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// Update rewrites the session's mutable columns. Missing rows are not an error.
func (r *PostgresSessionRepository) Update(ctx context.Context, s *domain.UserSession) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE user_sessions SET
			refresh_token_id = $2, is_active = $3, last_seen_at = $4, ended_at = $5
		WHERE id = $1`,
		s.ID, s.RefreshTokenID, s.IsActive, s.LastSeenAt, s.EndedAt)
	return err
}

// ListActiveForUser returns the user's active sessions, most recently seen first.
func (r *PostgresSessionRepository) ListActiveForUser(ctx context.Context, userID string) ([]*domain.UserSession, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+sessionColumns+` FROM user_sessions
		WHERE user_id = $1 AND is_active
		ORDER BY last_seen_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*domain.UserSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// EndAllForUser ends every active session of the user in one statement.
func (r *PostgresSessionRepository) EndAllForUser(ctx context.Context, userID string) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE user_sessions SET is_active = FALSE, ended_at = $2
		WHERE user_id = $1 AND is_active`,
		userID, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.UserSession, error) {
	var s domain.UserSession
	err := row.Scan(&s.ID, &s.UserID, &s.RefreshTokenID, &s.UserAgent, &s.IPAddress,
		&s.IsActive, &s.LastSeenAt, &s.EndedAt, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
