package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gestion-agents/internal/domain"
)

type NotificationRepository interface {
	Create(ctx context.Context, notif *domain.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) (*domain.Notification, error)
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	DeleteAllRead(ctx context.Context, userID uuid.UUID) error
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notif *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, kind, title, message, subject_ref)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING is_read, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		notif.ID, notif.UserID, notif.Kind, notif.Title, notif.Message, notif.SubjectRef,
	).Scan(&notif.IsRead, &notif.CreatedAt, &notif.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

// ListByUser returns notifications newest first. The secondary sort on id
// keeps the order stable when several rows share a created_at, which the
// client-side dedup relies on.
func (r *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 200
	}

	notifications := []domain.Notification{}

	if unreadOnly {
		query := `
			SELECT * FROM notifications
			WHERE user_id = $1 AND is_read = false
			ORDER BY created_at DESC, id DESC
			LIMIT $2`
		err := r.db.SelectContext(ctx, &notifications, query, userID, limit)
		return notifications, err
	}

	query := `
		SELECT * FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`
	err := r.db.SelectContext(ctx, &notifications, query, userID, limit)
	return notifications, err
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false`
	err := r.db.GetContext(ctx, &count, query, userID)
	return count, err
}

// MarkAsRead is idempotent: an already-read row keeps its original
// read_at and updated_at, and the call still succeeds. The user_id
// predicate is the ownership check; a mismatch is indistinguishable
// from a missing row.
func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID uuid.UUID) (*domain.Notification, error) {
	var notif domain.Notification
	query := `
		UPDATE notifications
		SET is_read = true,
		    read_at = COALESCE(read_at, NOW()),
		    updated_at = CASE WHEN is_read THEN updated_at ELSE NOW() END
		WHERE id = $1 AND user_id = $2
		RETURNING *`

	err := r.db.GetContext(ctx, &notif, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &notif, nil
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `
		UPDATE notifications
		SET is_read = true, read_at = NOW(), updated_at = NOW()
		WHERE user_id = $1 AND is_read = false`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *notificationRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `DELETE FROM notifications WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (r *notificationRepository) DeleteAllRead(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM notifications WHERE user_id = $1 AND is_read = true`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}
