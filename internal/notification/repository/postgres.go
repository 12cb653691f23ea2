package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"social-platform/backend/internal/notification/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a notification repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const notificationColumns = `id, user_id, type, title, message, status, actor_id,
	entity_id, entity_type, action_url, read_at, archived_at, expires_at, created_at, updated_at`

const insertNotification = `
	INSERT INTO notifications (` + notificationColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

// Create persists one notification.
func (r *PostgresRepository) Create(ctx context.Context, n *domain.Notification) error {
	_, err := r.db.ExecContext(ctx, insertNotification, insertArgs(n)...)
	return err
}

// CreateBatch persists a fan-out of notifications atomically: either every
// recipient gets one or none do.
func (r *PostgresRepository) CreateBatch(ctx context.Context, ns []*domain.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertNotification)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, n := range ns {
		if _, err := stmt.ExecContext(ctx, insertArgs(n)...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetByID returns the notification for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id)
	n, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return n, nil
}

// Update rewrites the notification's status fields. Missing rows are not an error.
func (r *PostgresRepository) Update(ctx context.Context, n *domain.Notification) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET status = $2, read_at = $3, archived_at = $4, expires_at = $5, updated_at = $6
		WHERE id = $1`,
		n.ID, string(n.Status), n.ReadAt, n.ArchivedAt, n.ExpiresAt, n.UpdatedAt)
	return err
}

// ListByUser returns the user's notifications, newest first. An empty status
// means all statuses.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, status domain.NotificationStatus, limit, offset int) ([]*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = $1`
	args := []any{userID}
	if status != "" {
		query += ` AND status = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`
		args = append(args, string(status), limit, offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// UnreadCount returns the number of unread notifications for userID.
func (r *PostgresRepository) UnreadCount(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND status = $2`,
		userID, string(domain.NotificationStatusUnread)).Scan(&n)
	return n, err
}

// DeleteExpired removes notifications whose expiry has passed.
func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM notifications WHERE expires_at IS NOT NULL AND expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func insertArgs(n *domain.Notification) []any {
	return []any{
		n.ID, n.UserID, string(n.Type), n.Title, n.Message, string(n.Status), n.ActorID,
		n.EntityID, n.EntityType, n.ActionURL, n.ReadAt, n.ArchivedAt, n.ExpiresAt,
		n.CreatedAt, n.UpdatedAt,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (*domain.Notification, error) {
	var n domain.Notification
	var notifType, status string
	err := row.Scan(&n.ID, &n.UserID, &notifType, &n.Title, &n.Message, &status, &n.ActorID,
		&n.EntityID, &n.EntityType, &n.ActionURL, &n.ReadAt, &n.ArchivedAt, &n.ExpiresAt,
		&n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	n.Type = domain.NotificationType(notifType)
	n.Status = domain.NotificationStatus(status)
	return &n, nil
}
