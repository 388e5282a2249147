package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PGMA10/RRAK-Booking-Platform-sub002/internal/model"
)

// NotificationRepository stores in-app notifications using pgx.
type NotificationRepository struct {
	pool PoolInterface
}

// NewNotificationRepository creates a new NotificationRepository with the given pool.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// NewNotificationRepositoryWithPool creates a NotificationRepository with a
// custom pool interface. Primarily used for testing.
func NewNotificationRepositoryWithPool(pool PoolInterface) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Insert stores an in-app notification.
func (r *NotificationRepository) Insert(ctx context.Context, n *model.Notification) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO notifications (id, user_id, kind, subject, body)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		n.ID, n.UserID, n.Kind, n.Subject, n.Body,
	).Scan(&n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListUnread returns a user's unread notifications, newest first.
func (r *NotificationRepository) ListUnread(ctx context.Context, userID int64) ([]*model.Notification, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, kind, subject, body, read_at, created_at
		 FROM notifications WHERE user_id = $1 AND read_at IS NULL
		 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications for user %d: %w", userID, err)
	}
	defer rows.Close()

	notes := []*model.Notification{}
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Subject, &n.Body, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notes = append(notes, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return notes, nil
}
