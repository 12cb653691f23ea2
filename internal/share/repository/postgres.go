package repository

import (
	"context"
	"database/sql"
	"errors"

	"social-platform/backend/internal/share/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a share repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const shareColumns = `id, user_id, post_id, comment, created_at, updated_at`

// Create persists the share.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Share) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO shares (`+shareColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.UserID, s.PostID, s.Comment, s.CreatedAt, s.UpdatedAt)
	return err
}

// GetByID returns the share for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Share, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+shareColumns+` FROM shares WHERE id = $1`, id)
	s, err := scanShare(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// Update rewrites the share comment. Missing rows are not an error.
func (r *PostgresRepository) Update(ctx context.Context, s *domain.Share) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE shares SET comment = $2, updated_at = $3 WHERE id = $1`,
		s.ID, s.Comment, s.UpdatedAt)
	return err
}

// Delete removes the share and reports whether a row was deleted.
func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shares WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListByPost returns shares of the post, newest first.
func (r *PostgresRepository) ListByPost(ctx context.Context, postID string, limit, offset int) ([]*domain.Share, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+shareColumns+` FROM shares
		WHERE post_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		postID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []*domain.Share
	for rows.Next() {
		s, err := scanShare(rows)
		if err != nil {
			return nil, err
		}
		shares = append(shares, s)
	}
	return shares, rows.Err()
}

// CountByPost returns the number of shares of the post.
func (r *PostgresRepository) CountByPost(ctx context.Context, postID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM shares WHERE post_id = $1`, postID).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShare(row rowScanner) (*domain.Share, error) {
	var s domain.Share
	if err := row.Scan(&s.ID, &s.UserID, &s.PostID, &s.Comment, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
