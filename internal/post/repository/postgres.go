package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"social-platform/backend/internal/post/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a post repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const postColumns = `id, author_id, content, type, visibility, is_edited,
	parent_id, root_id, created_at, updated_at`

// Create persists the post and any attachments already on it.
func (r *PostgresRepository) Create(ctx context.Context, p *domain.Post) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO posts (`+postColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.AuthorID, p.Content, string(p.Type), string(p.Visibility), p.IsEdited,
		nullIfEmpty(p.ParentID), nullIfEmpty(p.RootID), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return err
	}
	for _, m := range p.Attachments {
		if err := r.CreateAttachment(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// GetByID returns the post with attachments loaded, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.loadAttachments(ctx, []*domain.Post{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// Update rewrites the mutable post columns. Attachments are appended through
// CreateAttachment, not rewritten here.
func (r *PostgresRepository) Update(ctx context.Context, p *domain.Post) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE posts SET
			content = $2, type = $3, visibility = $4, is_edited = $5, updated_at = $6
		WHERE id = $1`,
		p.ID, p.Content, string(p.Type), string(p.Visibility), p.IsEdited, p.UpdatedAt)
	return err
}

// Delete removes the post. Replies, attachments, likes, comments, and shares
// go with it via ON DELETE CASCADE.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	return err
}

// CreateAttachment persists one media attachment row.
func (r *PostgresRepository) CreateAttachment(ctx context.Context, m *domain.MediaAttachment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO media_attachments (id, post_id, url, file_name, content_type,
			file_size, alt_text, width, height, duration_seconds, thumbnail_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		m.ID, m.PostID, m.URL, m.FileName, m.ContentType,
		m.FileSize, m.AltText, zeroToNullInt(m.Width), zeroToNullInt(m.Height),
		zeroToNullFloat(m.DurationSeconds), m.ThumbnailURL, m.CreatedAt)
	return err
}

// ListByAuthor returns the author's posts, newest first, attachments loaded.
func (r *PostgresRepository) ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*domain.Post, error) {
	return r.list(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE author_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		authorID, limit, offset)
}

// ListFeed returns posts from the viewer's accepted followees plus the
// viewer's own, newest first. Followees' private posts never appear;
// followers-only posts are visible because the joined follow is accepted. The
// unique follow pair keeps the left join from duplicating rows.
func (r *PostgresRepository) ListFeed(ctx context.Context, viewerID string, limit, offset int) ([]*domain.Post, error) {
	return r.list(ctx, `
		SELECT p.id, p.author_id, p.content, p.type, p.visibility, p.is_edited,
			p.parent_id, p.root_id, p.created_at, p.updated_at
		FROM posts p
		LEFT JOIN follows f ON f.followee_id = p.author_id
			AND f.follower_id = $1
			AND f.is_accepted
		WHERE p.author_id = $1
			OR (f.follower_id IS NOT NULL AND p.visibility <> 'private')
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3`,
		viewerID, limit, offset)
}

// ListReplies returns direct replies to parentID, oldest first.
func (r *PostgresRepository) ListReplies(ctx context.Context, parentID string, limit, offset int) ([]*domain.Post, error) {
	return r.list(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE parent_id = $1
		ORDER BY created_at
		LIMIT $2 OFFSET $3`,
		parentID, limit, offset)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadAttachments(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// loadAttachments fills Attachments for the given posts in one query.
func (r *PostgresRepository) loadAttachments(ctx context.Context, posts []*domain.Post) error {
	if len(posts) == 0 {
		return nil
	}
	byID := make(map[string]*domain.Post, len(posts))
	placeholders := make([]string, len(posts))
	args := make([]any, len(posts))
	for i, p := range posts {
		byID[p.ID] = p
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = p.ID
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, post_id, url, file_name, content_type, file_size, alt_text,
			width, height, duration_seconds, thumbnail_url, created_at
		FROM media_attachments
		WHERE post_id IN (`+strings.Join(placeholders, ", ")+`)
		ORDER BY created_at`,
		args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var m domain.MediaAttachment
		var width, height sql.NullInt64
		var duration sql.NullFloat64
		err := rows.Scan(&m.ID, &m.PostID, &m.URL, &m.FileName, &m.ContentType,
			&m.FileSize, &m.AltText, &width, &height, &duration, &m.ThumbnailURL, &m.CreatedAt)
		if err != nil {
			return err
		}
		m.Width = int(width.Int64)
		m.Height = int(height.Int64)
		m.DurationSeconds = duration.Float64
		if p, ok := byID[m.PostID]; ok {
			p.Attachments = append(p.Attachments, &m)
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*domain.Post, error) {
	var p domain.Post
	var postType, visibility string
	var parentID, rootID sql.NullString
	err := row.Scan(&p.ID, &p.AuthorID, &p.Content, &postType, &visibility, &p.IsEdited,
		&parentID, &rootID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Type = domain.PostType(postType)
	p.Visibility = domain.Visibility(visibility)
	p.ParentID = parentID.String
	p.RootID = rootID.String
	return &p, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func zeroToNullInt(v int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(v), Valid: v != 0}
}

func zeroToNullFloat(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: v != 0}
}
