// internal/repository/postgres/notification_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jobmatch-service/internal/domain/notification"
	xerrors "jobmatch-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepository struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification for one user.
func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	query := `
		INSERT INTO notifications (user_id, title, message, type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_read, created_at
	`

	err := r.db.QueryRow(ctx, query, n.UserID, n.Title, n.Message, n.Type).
		Scan(&n.ID, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// CreateForAllApproved fans a broadcast out to every approved user.
func (r *NotificationRepository) CreateForAllApproved(ctx context.Context, title, message string, typ notification.NotificationType) (int64, error) {
	query := `
		INSERT INTO notifications (user_id, title, message, type)
		SELECT id, $1, $2, $3 FROM users WHERE is_approved = true
	`

	tag, err := r.db.Exec(ctx, query, title, message, typ)
	if err != nil {
		return 0, fmt.Errorf("failed to broadcast notification: %w", err)
	}

	return tag.RowsAffected(), nil
}

// ListByUser retrieves a user's notifications, newest first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, filters *notification.ListFilters) ([]notification.Notification, int64, error) {
	conditions := []string{"user_id = $1"}
	args := []interface{}{userID}
	argPos := 2

	if filters.IsRead != nil {
		conditions = append(conditions, fmt.Sprintf("is_read = $%d", argPos))
		args = append(args, *filters.IsRead)
		argPos++
	}
	if filters.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argPos))
		args = append(args, *filters.Type)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM notifications WHERE ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, title, message, type, is_read, created_at, read_at
		FROM notifications
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argPos, argPos+1)
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []notification.Notification
	for rows.Next() {
		var n notification.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt, &n.ReadAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification row: %w", err)
		}
		notifications = append(notifications, n)
	}

	return notifications, total, rows.Err()
}

// Summary aggregates read/unread counts for one user.
func (r *NotificationRepository) Summary(ctx context.Context, userID string) (*notification.Summary, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE NOT is_read),
			COUNT(*) FILTER (WHERE is_read),
			COUNT(*)
		FROM notifications
		WHERE user_id = $1
	`

	var s notification.Summary
	if err := r.db.QueryRow(ctx, query, userID).Scan(&s.TotalUnread, &s.TotalRead, &s.Total); err != nil {
		return nil, fmt.Errorf("failed to summarize notifications: %w", err)
	}

	return &s, nil
}

// MarkRead marks one of the user's notifications as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID string, id int64) (*notification.Notification, error) {
	query := `
		UPDATE notifications
		SET is_read = true, read_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, title, message, type, is_read, created_at, read_at
	`

	var n notification.Notification
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt, &n.ReadAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}

	return &n, nil
}

// MarkAllRead marks every unread notification of the user as read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	query := `
		UPDATE notifications
		SET is_read = true, read_at = now()
		WHERE user_id = $1 AND NOT is_read
	`

	tag, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}

	return tag.RowsAffected(), nil
}

// Delete removes one of the user's notifications.
func (r *NotificationRepository) Delete(ctx context.Context, userID string, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
