package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nhle/daybook/internal/model"
)

// RecordNotification appends a history entry. The status defaults to
// pending and the entry starts unread.
func (s *SQLiteStore) RecordNotification(ctx context.Context, n model.Notification) error {
	if n.Status == "" {
		n.Status = model.NotificationPending
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, todo_id, title, body, fire_at, category, read, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.TodoID, n.Title, n.Body, n.FireAt, n.Category, n.Read, n.Status, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("recording notification: %w", err)
	}
	return nil
}

// GetNotifications lists the history log, newest fire time first.
func (s *SQLiteStore) GetNotifications(ctx context.Context) ([]model.Notification, error) {
	out := []model.Notification{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT id, todo_id, title, body, fire_at, category, read, status, created_at
		FROM notifications ORDER BY fire_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	return out, nil
}

// GetNotificationByID retrieves a single history entry.
func (s *SQLiteStore) GetNotificationByID(ctx context.Context, id string) (*model.Notification, error) {
	var n model.Notification
	err := s.db.GetContext(ctx, &n, `
		SELECT id, todo_id, title, body, fire_at, category, read, status, created_at
		FROM notifications WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting notification %s: %w", id, err)
	}
	return &n, nil
}

// UpdateNotificationStatus transitions a history entry out of pending.
// Sent and cancelled are terminal, so the update is a no-op when the
// entry is missing or no longer pending; that is not an error.
func (s *SQLiteStore) UpdateNotificationStatus(ctx context.Context, id string, status model.NotificationStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("store: invalid notification status %q", status)
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE notifications SET status = ? WHERE id = ? AND status = ?`,
		status, id, model.NotificationPending,
	)
	if err != nil {
		return fmt.Errorf("updating notification %s: %w", id, err)
	}
	return nil
}

// CancelPendingNotifications bulk-transitions every pending entry to
// cancelled and returns how many were affected. Used when notifications
// are disabled globally.
func (s *SQLiteStore) CancelPendingNotifications(ctx context.Context) (int, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE notifications SET status = ? WHERE status = ?`,
		model.NotificationCancelled, model.NotificationPending,
	)
	if err != nil {
		return 0, fmt.Errorf("cancelling pending notifications: %w", err)
	}
	rows, _ := result.RowsAffected()
	return int(rows), nil
}

// ReassignNotificationID moves a history entry to a new scheduler
// handle. Used on startup when still-pending reminders are re-queued
// and receive fresh handles.
func (s *SQLiteStore) ReassignNotificationID(ctx context.Context, oldID, newID string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET id = ? WHERE id = ?", newID, oldID)
	if err != nil {
		return fmt.Errorf("reassigning notification %s: %w", oldID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllNotificationsRead zeroes the unread badge count.
func (s *SQLiteStore) MarkAllNotificationsRead(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "UPDATE notifications SET read = 1 WHERE read = 0"); err != nil {
		return fmt.Errorf("marking notifications read: %w", err)
	}
	return nil
}

// UnreadNotificationCount returns the unread badge count.
func (s *SQLiteStore) UnreadNotificationCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM notifications WHERE read = 0")
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return count, nil
}

// ClearNotifications wipes the history log.
func (s *SQLiteStore) ClearNotifications(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM notifications"); err != nil {
		return fmt.Errorf("clearing notifications: %w", err)
	}
	return nil
}
