package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"social-platform/backend/internal/user/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, email, username, display_name, bio, location, website,
	profile_image_url, cover_image_url, is_private, is_verified, birth_date,
	password_hash, created_at, updated_at`

// Create persists the user. The user must have ID set; it is not assigned by
// this method. Unique violations on email or username surface to the caller.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		u.ID, u.Email, u.Username, u.DisplayName, u.Bio, u.Location, u.Website,
		u.ProfileImageURL, u.CoverImageURL, u.IsPrivate, u.IsVerified, u.BirthDate,
		u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	return err
}

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getBy(ctx, "id = $1", id)
}

// GetByEmail returns the user with the given email, or nil if not found.
// Matching is case-insensitive.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, "LOWER(email) = LOWER($1)", email)
}

// GetByUsername returns the user with the given username, or nil if not found.
// Matching is case-insensitive.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getBy(ctx, "LOWER(username) = LOWER($1)", username)
}

func (r *PostgresRepository) getBy(ctx context.Context, where string, arg any) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

// Update rewrites the existing user record. Missing rows are not an error.
func (r *PostgresRepository) Update(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET
			email = $2, username = $3, display_name = $4, bio = $5, location = $6,
			website = $7, profile_image_url = $8, cover_image_url = $9,
			is_private = $10, is_verified = $11, birth_date = $12,
			password_hash = $13, updated_at = $14
		WHERE id = $1`,
		u.ID, u.Email, u.Username, u.DisplayName, u.Bio, u.Location,
		u.Website, u.ProfileImageURL, u.CoverImageURL,
		u.IsPrivate, u.IsVerified, u.BirthDate,
		u.PasswordHash, u.UpdatedAt)
	return err
}

// Delete removes the user row. Dependent rows (posts, follows, likes, tokens)
// go with it via ON DELETE CASCADE. Missing rows are not an error.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

// Search matches query as a case-insensitive substring of username or display
// name, ordered by username for stable pagination.
func (r *PostgresRepository) Search(ctx context.Context, query string, limit, offset int) ([]*domain.User, error) {
	pattern := "%" + escapeLike(query) + "%"
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE username ILIKE $1 OR display_name ILIKE $1
		ORDER BY username
		LIMIT $2 OFFSET $3`,
		pattern, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// escapeLike neutralizes LIKE metacharacters in user-supplied search input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	return strings.ReplaceAll(s, `_`, `\_`)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.DisplayName, &u.Bio, &u.Location, &u.Website,
		&u.ProfileImageURL, &u.CoverImageURL, &u.IsPrivate, &u.IsVerified, &u.BirthDate,
		&u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
