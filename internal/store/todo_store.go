package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/daybook/internal/model"
)

// CreateTodo inserts a new todo. Generates a UUID if ID is empty and
// returns the stored record. The title must be non-empty; validation
// before this point is the caller's responsibility, but an empty title
// is still rejected here so the invariant can never be broken.
func (s *SQLiteStore) CreateTodo(ctx context.Context, todo model.Todo) (model.Todo, error) {
	if strings.TrimSpace(todo.Title) == "" {
		return model.Todo{}, model.ErrEmptyTitle
	}
	if todo.ID == "" {
		todo.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	todo.CreatedAt = now
	todo.UpdatedAt = now
	if todo.State == "" {
		todo.State = model.StateActive
	}
	if todo.ReminderState == "" {
		todo.ReminderState = model.ReminderNone
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO todos (
			id, title, category, state,
			created_at, updated_at, completed_at, archived_at,
			remind_at, notification_id, reminder_state
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		todo.ID, todo.Title, todo.Category, todo.State,
		todo.CreatedAt, todo.UpdatedAt, todo.CompletedAt, todo.ArchivedAt,
		todo.RemindAt, todo.NotificationID, todo.ReminderState,
	)
	if err != nil {
		return model.Todo{}, fmt.Errorf("creating todo: %w", err)
	}
	return todo, nil
}

// UpdateTodo updates a todo's user-editable fields (title, category,
// remind_at) by ID and bumps updated_at.
func (s *SQLiteStore) UpdateTodo(ctx context.Context, todo model.Todo) error {
	if strings.TrimSpace(todo.Title) == "" {
		return model.ErrEmptyTitle
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE todos SET title = ?, category = ?, remind_at = ?, updated_at = ?
		WHERE id = ?`,
		todo.Title, todo.Category, todo.RemindAt, time.Now().UTC(), todo.ID,
	)
	if err != nil {
		return fmt.Errorf("updating todo %s: %w", todo.ID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTodo removes a todo by ID.
func (s *SQLiteStore) DeleteTodo(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting todo %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// GetTodoByID retrieves a single todo by ID.
func (s *SQLiteStore) GetTodoByID(ctx context.Context, id string) (*model.Todo, error) {
	var todo model.Todo
	err := s.db.GetContext(ctx, &todo, `
		SELECT id, title, category, state,
			created_at, updated_at, completed_at, archived_at,
			remind_at, notification_id, reminder_state
		FROM todos WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting todo %s: %w", id, err)
	}
	return &todo, nil
}

// GetTodos lists todos matching the filter, newest first.
func (s *SQLiteStore) GetTodos(ctx context.Context, filter TodoFilter) ([]model.Todo, error) {
	query := `
		SELECT id, title, category, state,
			created_at, updated_at, completed_at, archived_at,
			remind_at, notification_id, reminder_state
		FROM todos`

	clauses := make([]string, 0, 3)
	args := make([]any, 0, 5)
	if filter.State != nil {
		clauses = append(clauses, "state = ?")
		args = append(args, *filter.State)
	}
	if filter.Category != nil {
		clauses = append(clauses, "category = ?")
		args = append(args, *filter.Category)
	}
	if filter.Scheduled != nil {
		if *filter.Scheduled {
			clauses = append(clauses, "reminder_state = ?")
		} else {
			clauses = append(clauses, "reminder_state != ?")
		}
		args = append(args, model.ReminderScheduled)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	todos := []model.Todo{}
	if err := s.db.SelectContext(ctx, &todos, query, args...); err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}
	return todos, nil
}

// ToggleComplete flips a todo between active and completed, stamping or
// clearing completed_at. Toggling an archived todo is a no-op; archived
// is terminal.
func (s *SQLiteStore) ToggleComplete(ctx context.Context, id string) (*model.Todo, error) {
	todo, err := s.GetTodoByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	switch todo.State {
	case model.StateActive:
		todo.State = model.StateCompleted
		todo.CompletedAt = &now
	case model.StateCompleted:
		todo.State = model.StateActive
		todo.CompletedAt = nil
	default:
		return todo, nil
	}
	todo.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		UPDATE todos SET state = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`,
		todo.State, todo.CompletedAt, todo.UpdatedAt, id,
	)
	if err != nil {
		return nil, fmt.Errorf("toggling todo %s: %w", id, err)
	}
	return todo, nil
}

// ArchiveTodo archives a completed todo. Returns ErrNotCompleted (with
// no state change) when the todo exists but is not in the completed
// state; archiving is only valid on completed, non-archived todos.
func (s *SQLiteStore) ArchiveTodo(ctx context.Context, id string) error {
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE todos SET state = ?, archived_at = ?, updated_at = ?
		WHERE id = ? AND state = ?`,
		model.StateArchived, now, now, id, model.StateCompleted,
	)
	if err != nil {
		return fmt.Errorf("archiving todo %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		if _, getErr := s.GetTodoByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrNotCompleted
	}
	return nil
}

// ArchiveAllCompleted archives every completed todo and returns how
// many were archived.
func (s *SQLiteStore) ArchiveAllCompleted(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE todos SET state = ?, archived_at = ?, updated_at = ?
		WHERE state = ?`,
		model.StateArchived, now, now, model.StateCompleted,
	)
	if err != nil {
		return 0, fmt.Errorf("archiving completed todos: %w", err)
	}
	rows, _ := result.RowsAffected()
	return int(rows), nil
}

// DeleteArchived removes every archived todo. Callers are expected to
// cancel any outstanding reminders first.
func (s *SQLiteStore) DeleteArchived(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM todos WHERE state = ?", model.StateArchived)
	if err != nil {
		return fmt.Errorf("clearing archive: %w", err)
	}
	return nil
}

// SetReminderLink writes a todo's reminder sub-state: the reminder
// time, the scheduler handle (empty when nothing is scheduled), and the
// reminder state tag.
func (s *SQLiteStore) SetReminderLink(ctx context.Context, id string, remindAt *time.Time, notificationID string, state model.ReminderState) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE todos SET remind_at = ?, notification_id = ?, reminder_state = ?, updated_at = ?
		WHERE id = ?`,
		remindAt, notificationID, state, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("linking reminder for todo %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearReminderLinks marks every scheduled reminder cancelled and drops
// its scheduler handle. remind_at is kept so the timestamps still show
// in list views. Used when notifications are disabled globally.
func (s *SQLiteStore) ClearReminderLinks(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE todos SET notification_id = '', reminder_state = ?, updated_at = ?
		WHERE reminder_state = ?`,
		model.ReminderCancelled, time.Now().UTC(), model.ReminderScheduled,
	)
	if err != nil {
		return fmt.Errorf("clearing reminder links: %w", err)
	}
	return nil
}
