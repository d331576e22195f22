package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"talent-nest/backend/internal/model"
)

func (s *SQLiteStore) CreateNotification(ctx context.Context, n *model.Notification) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, from_user_id, to_user_id, type, title, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.FromUserID, n.ToUserID, n.Type, n.Title, string(n.Status),
		toNanos(n.CreatedAt), toNanos(n.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetNotification(ctx context.Context, id string) (*model.Notification, error) {
	var row notificationRow
	err := s.db.GetContext(ctx, &row, "SELECT * FROM notifications WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification %s: %w", id, err)
	}
	n := row.toModel()
	return &n, nil
}

func (s *SQLiteStore) ListNotifications(ctx context.Context, userID string, limit, offset int) ([]model.Notification, error) {
	var rows []notificationRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT * FROM notifications
		WHERE to_user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for %s: %w", userID, err)
	}
	out := make([]model.Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

func (s *SQLiteStore) MarkNotificationRead(ctx context.Context, id string, at time.Time) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE notifications SET status = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		string(model.NotificationRead), toNanos(at), id, string(model.NotificationUnread),
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark notification %s read: %w", id, err)
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

func (s *SQLiteStore) MarkAllNotificationsRead(ctx context.Context, userID string, at time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE notifications SET status = ?, updated_at = ?
		WHERE to_user_id = ? AND status = ?`,
		string(model.NotificationRead), toNanos(at), userID, string(model.NotificationUnread),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read for %s: %w", userID, err)
	}
	return result.RowsAffected()
}

func (s *SQLiteStore) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM notifications WHERE to_user_id = ? AND status = ?",
		userID, string(model.NotificationUnread),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications for %s: %w", userID, err)
	}
	return count, nil
}

func (s *SQLiteStore) DeleteNotification(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM notifications WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete notification %s: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM notifications WHERE status = ? AND updated_at < ?",
		string(model.NotificationRead), toNanos(cutoff),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep read notifications: %w", err)
	}
	return result.RowsAffected()
}
