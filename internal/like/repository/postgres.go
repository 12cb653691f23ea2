package repository

import (
	"context"
	"database/sql"
	"errors"

	"social-platform/backend/internal/like/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a like repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the like. A duplicate (user, post) pair surfaces as a
// unique violation, which the service maps to its already-liked error.
func (r *PostgresRepository) Create(ctx context.Context, l *domain.Like) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO likes (id, user_id, post_id, created_at)
		VALUES ($1, $2, $3, $4)`,
		l.ID, l.UserID, l.PostID, l.CreatedAt)
	return err
}

// GetByPair returns the user's like on the post, or nil if none exists.
func (r *PostgresRepository) GetByPair(ctx context.Context, userID, postID string) (*domain.Like, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, post_id, created_at FROM likes
		WHERE user_id = $1 AND post_id = $2`,
		userID, postID)
	var l domain.Like
	if err := row.Scan(&l.ID, &l.UserID, &l.PostID, &l.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

// DeleteByPair removes the user's like on the post and reports whether a row
// was deleted.
func (r *PostgresRepository) DeleteByPair(ctx context.Context, userID, postID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM likes WHERE user_id = $1 AND post_id = $2`,
		userID, postID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListByPost returns likes on the post, newest first.
func (r *PostgresRepository) ListByPost(ctx context.Context, postID string, limit, offset int) ([]*domain.Like, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, post_id, created_at FROM likes
		WHERE post_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		postID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var likes []*domain.Like
	for rows.Next() {
		var l domain.Like
		if err := rows.Scan(&l.ID, &l.UserID, &l.PostID, &l.CreatedAt); err != nil {
			return nil, err
		}
		likes = append(likes, &l)
	}
	return likes, rows.Err()
}

// CountByPost returns the number of likes on the post.
func (r *PostgresRepository) CountByPost(ctx context.Context, postID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM likes WHERE post_id = $1`, postID).Scan(&n)
	return n, err
}
