package repository

import (
	"context"
	"database/sql"
	"errors"

	"social-platform/backend/internal/comment/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a comment repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const commentColumns = `id, user_id, post_id, content, is_edited, created_at, updated_at`

// Create persists the comment.
func (r *PostgresRepository) Create(ctx context.Context, c *domain.Comment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO comments (`+commentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.UserID, c.PostID, c.Content, c.IsEdited, c.CreatedAt, c.UpdatedAt)
	return err
}

// GetByID returns the comment for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)
	c, err := scanComment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// Update rewrites the comment content. Missing rows are not an error.
func (r *PostgresRepository) Update(ctx context.Context, c *domain.Comment) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE comments SET content = $2, is_edited = $3, updated_at = $4 WHERE id = $1`,
		c.ID, c.Content, c.IsEdited, c.UpdatedAt)
	return err
}

// Delete removes the comment and reports whether a row was deleted.
func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListByPost returns comments on the post, oldest first.
func (r *PostgresRepository) ListByPost(ctx context.Context, postID string, limit, offset int) ([]*domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+commentColumns+` FROM comments
		WHERE post_id = $1
		ORDER BY created_at
		LIMIT $2 OFFSET $3`,
		postID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// CountByPost returns the number of comments on the post.
func (r *PostgresRepository) CountByPost(ctx context.Context, postID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM comments WHERE post_id = $1`, postID).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComment(row rowScanner) (*domain.Comment, error) {
	var c domain.Comment
	if err := row.Scan(&c.ID, &c.UserID, &c.PostID, &c.Content, &c.IsEdited, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
