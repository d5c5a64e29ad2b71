package store

import (
	"context"
	"errors"
	"time"

	"github.com/nhle/daybook/internal/model"
)

var (
	// ErrNotFound is returned when the referenced row does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrNotCompleted is returned when archiving a todo that has not
	// been completed; the row is left unchanged.
	ErrNotCompleted = errors.New("store: todo is not completed")
)

// TodoFilter controls filtering for todo queries.
type TodoFilter struct {
	State    *model.Lifecycle
	Category *string

	// Scheduled filters on whether a notification is currently
	// scheduled for the todo.
	Scheduled *bool

	Limit  int
	Offset int
}

// Store defines the persistence interface for todos, the notification
// history log, and per-day metrics.
type Store interface {
	// === Todos ===

	CreateTodo(ctx context.Context, todo model.Todo) (model.Todo, error)
	UpdateTodo(ctx context.Context, todo model.Todo) error
	DeleteTodo(ctx context.Context, id string) error
	GetTodoByID(ctx context.Context, id string) (*model.Todo, error)
	GetTodos(ctx context.Context, filter TodoFilter) ([]model.Todo, error)
	ToggleComplete(ctx context.Context, id string) (*model.Todo, error)
	ArchiveTodo(ctx context.Context, id string) error
	ArchiveAllCompleted(ctx context.Context) (int, error)
	DeleteArchived(ctx context.Context) error
	SetReminderLink(ctx context.Context, id string, remindAt *time.Time, notificationID string, state model.ReminderState) error
	ClearReminderLinks(ctx context.Context) error

	// === Notification history ===

	RecordNotification(ctx context.Context, n model.Notification) error
	GetNotifications(ctx context.Context) ([]model.Notification, error)
	GetNotificationByID(ctx context.Context, id string) (*model.Notification, error)
	UpdateNotificationStatus(ctx context.Context, id string, status model.NotificationStatus) error
	CancelPendingNotifications(ctx context.Context) (int, error)
	ReassignNotificationID(ctx context.Context, oldID, newID string) error
	MarkAllNotificationsRead(ctx context.Context) error
	UnreadNotificationCount(ctx context.Context) (int, error)
	ClearNotifications(ctx context.Context) error

	// === Day metrics ===

	SetMood(ctx context.Context, day string, mood int) error
	SetWeight(ctx context.Context, day string, weight float64) error
	SetRating(ctx context.Context, day string, rating int) error
	ResetMood(ctx context.Context, day string) error
	ResetWeight(ctx context.Context, day string) error
	ResetRating(ctx context.Context, day string) error
	GetDayData(ctx context.Context, day string) (*model.DayData, error)
	GetMonthData(ctx context.Context, year int, month time.Month) ([]model.DayData, error)
}
