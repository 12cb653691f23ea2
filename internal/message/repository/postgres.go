package repository

import (
	"context"
	"database/sql"
	"errors"

	"social-platform/backend/internal/message/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a message repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const messageColumns = `id, sender_id, recipient_id, content, type, is_read, read_at,
	is_edited, is_deleted, deleted_at, attachment_url, attachment_name, attachment_size,
	created_at, updated_at`

// Create persists the message.
func (r *PostgresRepository) Create(ctx context.Context, m *domain.Message) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (`+messageColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		m.ID, m.SenderID, m.RecipientID, m.Content, string(m.Type), m.IsRead, m.ReadAt,
		m.IsEdited, m.IsDeleted, m.DeletedAt, m.AttachmentURL, m.AttachmentName, m.AttachmentSize,
		m.CreatedAt, m.UpdatedAt)
	return err
}

// GetByID returns the message for id, or nil if not found. Deleted messages
// are still returned; callers decide how to treat them.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id)
	m, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

// Update rewrites the mutable message columns. Missing rows are not an error.
func (r *PostgresRepository) Update(ctx context.Context, m *domain.Message) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE messages SET
			content = $2, is_read = $3, read_at = $4, is_edited = $5,
			is_deleted = $6, deleted_at = $7, attachment_url = $8,
			attachment_name = $9, attachment_size = $10, updated_at = $11
		WHERE id = $1`,
		m.ID, m.Content, m.IsRead, m.ReadAt, m.IsEdited,
		m.IsDeleted, m.DeletedAt, m.AttachmentURL,
		m.AttachmentName, m.AttachmentSize, m.UpdatedAt)
	return err
}

// ListConversation returns messages exchanged between the two users in either
// direction, newest first, deleted messages excluded.
func (r *PostgresRepository) ListConversation(ctx context.Context, userA, userB string, limit, offset int) ([]*domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE ((sender_id = $1 AND recipient_id = $2) OR (sender_id = $2 AND recipient_id = $1))
			AND NOT is_deleted
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		userA, userB, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// UnreadCount returns the number of unread, non-deleted messages addressed to userID.
func (r *PostgresRepository) UnreadCount(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM messages
		WHERE recipient_id = $1 AND NOT is_read AND NOT is_deleted`,
		userID).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (*domain.Message, error) {
	var m domain.Message
	var msgType string
	err := row.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Content, &msgType, &m.IsRead, &m.ReadAt,
		&m.IsEdited, &m.IsDeleted, &m.DeletedAt, &m.AttachmentURL, &m.AttachmentName, &m.AttachmentSize,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.Type = domain.MessageType(msgType)
	return &m, nil
}
