package repository

import (
	"context"
	"database/sql"
	"errors"

	"social-platform/backend/internal/follow/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a follow repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const followColumns = `id, follower_id, followee_id, is_accepted, accepted_at, created_at`

// Create persists the follow edge. A duplicate (follower, followee) pair
// surfaces as a unique violation.
func (r *PostgresRepository) Create(ctx context.Context, f *domain.Follow) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO follows (`+followColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		f.ID, f.FollowerID, f.FolloweeID, f.IsAccepted, f.AcceptedAt, f.CreatedAt)
	return err
}

// GetByID returns the edge for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Follow, error) {
	return r.getBy(ctx, `id = $1`, id)
}

// GetByPair returns the follower->followee edge, or nil if none exists.
func (r *PostgresRepository) GetByPair(ctx context.Context, followerID, followeeID string) (*domain.Follow, error) {
	return r.getBy(ctx, `follower_id = $1 AND followee_id = $2`, followerID, followeeID)
}

func (r *PostgresRepository) getBy(ctx context.Context, where string, args ...any) (*domain.Follow, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+followColumns+` FROM follows WHERE `+where, args...)
	f, err := scanFollow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return f, nil
}

// Update rewrites the acceptance state. Missing rows are not an error.
func (r *PostgresRepository) Update(ctx context.Context, f *domain.Follow) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE follows SET is_accepted = $2, accepted_at = $3 WHERE id = $1`,
		f.ID, f.IsAccepted, f.AcceptedAt)
	return err
}

// Delete removes the edge, used for unfollow and for rejecting a pending request.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM follows WHERE id = $1`, id)
	return err
}

// ListFollowers returns accepted edges pointing at userID, newest first.
func (r *PostgresRepository) ListFollowers(ctx context.Context, userID string, limit, offset int) ([]*domain.Follow, error) {
	return r.list(ctx, `
		SELECT `+followColumns+` FROM follows
		WHERE followee_id = $1 AND is_accepted
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset)
}

// ListFollowing returns accepted edges originating from userID, newest first.
func (r *PostgresRepository) ListFollowing(ctx context.Context, userID string, limit, offset int) ([]*domain.Follow, error) {
	return r.list(ctx, `
		SELECT `+followColumns+` FROM follows
		WHERE follower_id = $1 AND is_accepted
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset)
}

// ListPending returns pending requests awaiting userID's approval, oldest first.
func (r *PostgresRepository) ListPending(ctx context.Context, userID string, limit, offset int) ([]*domain.Follow, error) {
	return r.list(ctx, `
		SELECT `+followColumns+` FROM follows
		WHERE followee_id = $1 AND NOT is_accepted
		ORDER BY created_at
		LIMIT $2 OFFSET $3`,
		userID, limit, offset)
}

// CountFollowers returns the number of accepted followers of userID.
func (r *PostgresRepository) CountFollowers(ctx context.Context, userID string) (int, error) {
	return r.count(ctx, `followee_id = $1 AND is_accepted`, userID)
}

// CountFollowing returns the number of accounts userID follows (accepted only).
func (r *PostgresRepository) CountFollowing(ctx context.Context, userID string) (int, error) {
	return r.count(ctx, `follower_id = $1 AND is_accepted`, userID)
}

func (r *PostgresRepository) count(ctx context.Context, where string, args ...any) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM follows WHERE `+where, args...).Scan(&n)
	return n, err
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Follow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var follows []*domain.Follow
	for rows.Next() {
		f, err := scanFollow(rows)
		if err != nil {
			return nil, err
		}
		follows = append(follows, f)
	}
	return follows, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFollow(row rowScanner) (*domain.Follow, error) {
	var f domain.Follow
	if err := row.Scan(&f.ID, &f.FollowerID, &f.FolloweeID, &f.IsAccepted, &f.AcceptedAt, &f.CreatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}
