// Package reminder keeps the todo store, the notification history log
// and the platform scheduler consistent with each other. It is the only
// place that decides whether a todo mutation must schedule, cancel or
// re-schedule a notification.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nhle/daybook/internal/model"
	"github.com/nhle/daybook/internal/notify"
	"github.com/nhle/daybook/internal/scheduler"
	"github.com/nhle/daybook/internal/store"
)

// Scheduler abstracts the platform notification scheduler. All calls
// are best-effort: cancelling a handle that already fired is a no-op,
// and a scheduling failure degrades to "no reminder" rather than
// failing the todo mutation.
type Scheduler interface {
	Schedule(title, body string, fireAt time.Time) (string, error)
	Cancel(handle string)
	CancelAll()
}

// Coordinator holds the mutation interfaces of the stores it keeps in
// sync. Settings are passed in explicitly; the coordinator persists
// toggle changes through them.
type Coordinator struct {
	store    store.Store
	sched    Scheduler
	settings *model.Settings
	sender   notify.Sender
	log      zerolog.Logger
}

func NewCoordinator(s store.Store, sched Scheduler, settings *model.Settings, sender notify.Sender, log zerolog.Logger) *Coordinator {
	return &Coordinator{
		store:    s,
		sched:    sched,
		settings: settings,
		sender:   sender,
		log:      log,
	}
}

// AddTodo creates a todo and, when remindAt is in the future and
// notifications are enabled for the category, schedules its
// notification and records a pending history entry. A scheduling
// failure still creates the todo, just without a linked notification.
func (c *Coordinator) AddTodo(ctx context.Context, title, category string, remindAt *time.Time) (model.Todo, error) {
	if strings.TrimSpace(title) == "" {
		return model.Todo{}, model.ErrEmptyTitle
	}

	created, err := c.store.CreateTodo(ctx, model.Todo{
		Title:    title,
		Category: category,
		RemindAt: remindAt,
	})
	if err != nil {
		return model.Todo{}, err
	}

	if err := c.scheduleReminder(ctx, &created); err != nil {
		return model.Todo{}, err
	}
	return created, nil
}

// EditTodo updates a todo's title, category and reminder time. An
// outstanding pending notification is cancelled and its history entry
// marked changed_cancelled; the new reminder is then scheduled as on
// add.
func (c *Coordinator) EditTodo(ctx context.Context, id, title, category string, remindAt *time.Time) (model.Todo, error) {
	if strings.TrimSpace(title) == "" {
		return model.Todo{}, model.ErrEmptyTitle
	}

	todo, err := c.store.GetTodoByID(ctx, id)
	if err != nil {
		return model.Todo{}, err
	}

	if todo.NotificationID != "" {
		c.sched.Cancel(todo.NotificationID)
		if err := c.store.UpdateNotificationStatus(ctx, todo.NotificationID, model.NotificationChangedCancelled); err != nil {
			return model.Todo{}, err
		}
	}

	todo.Title = title
	todo.Category = category
	todo.RemindAt = remindAt
	if err := c.store.UpdateTodo(ctx, *todo); err != nil {
		return model.Todo{}, err
	}

	todo.NotificationID = ""
	todo.ReminderState = model.ReminderNone
	if todo.State == model.StateActive {
		if err := c.scheduleReminder(ctx, todo); err != nil {
			return model.Todo{}, err
		}
	} else if err := c.store.SetReminderLink(ctx, todo.ID, remindAt, "", model.ReminderNone); err != nil {
		return model.Todo{}, err
	}

	updated, err := c.store.GetTodoByID(ctx, id)
	if err != nil {
		return model.Todo{}, err
	}
	return *updated, nil
}

// DeleteTodo cancels any pending notification for the todo, marks its
// history entry cancelled, and removes the todo. A history entry that
// was already sent is left untouched.
func (c *Coordinator) DeleteTodo(ctx context.Context, id string) error {
	todo, err := c.store.GetTodoByID(ctx, id)
	if err != nil {
		return err
	}
	if err := c.withdrawNotification(ctx, todo.NotificationID); err != nil {
		return err
	}
	return c.store.DeleteTodo(ctx, id)
}

// ToggleComplete flips a todo between active and completed. Completing
// a todo withdraws its pending notification; toggling back to active
// does not re-schedule it.
func (c *Coordinator) ToggleComplete(ctx context.Context, id string) (model.Todo, error) {
	todo, err := c.store.GetTodoByID(ctx, id)
	if err != nil {
		return model.Todo{}, err
	}

	if todo.State == model.StateActive && todo.NotificationID != "" {
		if err := c.withdrawNotification(ctx, todo.NotificationID); err != nil {
			return model.Todo{}, err
		}
		if err := c.store.SetReminderLink(ctx, id, todo.RemindAt, "", model.ReminderCancelled); err != nil {
			return model.Todo{}, err
		}
	}

	toggled, err := c.store.ToggleComplete(ctx, id)
	if err != nil {
		return model.Todo{}, err
	}
	return *toggled, nil
}

// ArchiveTodo archives a completed todo. Archiving a todo that is not
// completed is a no-op. Any notification still pending for the todo is
// withdrawn; normally completion already did that.
func (c *Coordinator) ArchiveTodo(ctx context.Context, id string) error {
	err := c.store.ArchiveTodo(ctx, id)
	if errors.Is(err, store.ErrNotCompleted) {
		return nil
	}
	if err != nil {
		return err
	}

	todo, err := c.store.GetTodoByID(ctx, id)
	if err != nil {
		return err
	}
	if todo.NotificationID != "" {
		if err := c.withdrawNotification(ctx, todo.NotificationID); err != nil {
			return err
		}
		if err := c.store.SetReminderLink(ctx, id, todo.RemindAt, "", model.ReminderCancelled); err != nil {
			return err
		}
	}
	return nil
}

// ArchiveAllCompleted archives every completed todo and returns how
// many were archived. Completion already withdrew their notifications.
func (c *Coordinator) ArchiveAllCompleted(ctx context.Context) (int, error) {
	return c.store.ArchiveAllCompleted(ctx)
}

// ClearArchive withdraws any notification still pending for an
// archived todo, then bulk-deletes the archive.
func (c *Coordinator) ClearArchive(ctx context.Context) error {
	state := model.StateArchived
	archived, err := c.store.GetTodos(ctx, store.TodoFilter{State: &state})
	if err != nil {
		return err
	}
	for _, todo := range archived {
		if err := c.withdrawNotification(ctx, todo.NotificationID); err != nil {
			return err
		}
	}
	return c.store.DeleteArchived(ctx)
}

// SetNotificationsEnabled flips the global reminder toggle. Disabling
// cancels every scheduled notification, transitions all pending history
// entries to cancelled, and marks the todos' reminders inert; their
// remind_at timestamps are kept for display. Enabling only flips the
// toggle: inert reminders are not revived.
func (c *Coordinator) SetNotificationsEnabled(ctx context.Context, enabled bool) error {
	if !enabled {
		c.sched.CancelAll()

		cancelled, err := c.store.CancelPendingNotifications(ctx)
		if err != nil {
			return err
		}
		if err := c.store.ClearReminderLinks(ctx); err != nil {
			return err
		}
		c.log.Info().Int("cancelled", cancelled).Msg("notifications disabled")
	}

	c.settings.SetNotificationsEnabled(enabled)
	if err := c.settings.Save(); err != nil {
		return fmt.Errorf("persisting notification toggle: %w", err)
	}
	return nil
}

// SetCategoryEnabled flips the reminder toggle for one category.
// Disabling cancels the notifications of active todos in that category
// through their own handles and marks those history entries cancelled.
func (c *Coordinator) SetCategoryEnabled(ctx context.Context, category string, enabled bool) error {
	if !enabled {
		state := model.StateActive
		scheduled := true
		todos, err := c.store.GetTodos(ctx, store.TodoFilter{
			State:     &state,
			Category:  &category,
			Scheduled: &scheduled,
		})
		if err != nil {
			return err
		}
		for _, todo := range todos {
			if err := c.withdrawNotification(ctx, todo.NotificationID); err != nil {
				return err
			}
			if err := c.store.SetReminderLink(ctx, todo.ID, todo.RemindAt, "", model.ReminderCancelled); err != nil {
				return err
			}
		}
		c.log.Info().Str("category", category).Int("cancelled", len(todos)).Msg("category notifications disabled")
	}

	c.settings.SetCategoryEnabled(category, enabled)
	if err := c.settings.Save(); err != nil {
		return fmt.Errorf("persisting category toggle: %w", err)
	}
	return nil
}

// Run consumes fired notifications until the context is cancelled or
// the channel closes. Each fired notification is marked sent, its todo
// tagged fired, and the delivery attempted.
func (c *Coordinator) Run(ctx context.Context, fired <-chan scheduler.Notification) {
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-fired:
			if !ok {
				return
			}
			c.handleFired(ctx, n)
		}
	}
}

// RestorePending re-queues still-future scheduled reminders after a
// restart. The engine issues fresh handles, so the history entries are
// moved to the new ids. Reminders that came due while the process was
// down are delivered immediately and marked sent.
func (c *Coordinator) RestorePending(ctx context.Context) error {
	scheduled := true
	todos, err := c.store.GetTodos(ctx, store.TodoFilter{Scheduled: &scheduled})
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, todo := range todos {
		if todo.RemindAt == nil || todo.NotificationID == "" {
			continue
		}
		if todo.RemindAt.After(now) {
			handle, schedErr := c.sched.Schedule("Task reminder", todo.Title, *todo.RemindAt)
			if schedErr != nil {
				c.log.Warn().Err(schedErr).Str("todo", todo.ID).Msg("re-scheduling reminder")
				continue
			}
			if err := c.store.ReassignNotificationID(ctx, todo.NotificationID, handle); err != nil && !errors.Is(err, store.ErrNotFound) {
				return err
			}
			if err := c.store.SetReminderLink(ctx, todo.ID, todo.RemindAt, handle, model.ReminderScheduled); err != nil {
				return err
			}
			continue
		}

		// Missed while the process was down.
		c.handleFired(ctx, scheduler.Notification{
			Handle: todo.NotificationID,
			Title:  "Task reminder",
			Body:   todo.Title,
			FireAt: *todo.RemindAt,
		})
	}
	return nil
}

// scheduleReminder applies the scheduling policy to a todo that was
// just created or edited, writing its reminder link and, on success,
// the pending history entry.
func (c *Coordinator) scheduleReminder(ctx context.Context, todo *model.Todo) error {
	if todo.RemindAt == nil {
		todo.NotificationID = ""
		todo.ReminderState = model.ReminderNone
		return c.store.SetReminderLink(ctx, todo.ID, nil, "", model.ReminderNone)
	}

	if !c.settings.NotificationsEnabledFor(todo.Category) {
		todo.ReminderState = model.ReminderCancelled
		return c.store.SetReminderLink(ctx, todo.ID, todo.RemindAt, "", model.ReminderCancelled)
	}

	if !todo.RemindAt.After(time.Now().UTC()) {
		todo.ReminderState = model.ReminderNone
		return c.store.SetReminderLink(ctx, todo.ID, todo.RemindAt, "", model.ReminderNone)
	}

	handle, err := c.sched.Schedule("Task reminder", todo.Title, *todo.RemindAt)
	if err != nil {
		// Degrade gracefully: the todo exists, it just has no reminder.
		c.log.Warn().Err(err).Str("todo", todo.ID).Msg("scheduling reminder")
		todo.ReminderState = model.ReminderNone
		return c.store.SetReminderLink(ctx, todo.ID, todo.RemindAt, "", model.ReminderNone)
	}

	if err := c.store.SetReminderLink(ctx, todo.ID, todo.RemindAt, handle, model.ReminderScheduled); err != nil {
		return err
	}
	if err := c.store.RecordNotification(ctx, model.Notification{
		ID:       handle,
		TodoID:   todo.ID,
		Title:    "Task reminder",
		Body:     todo.Title,
		FireAt:   todo.RemindAt.UTC(),
		Category: todo.Category,
	}); err != nil {
		return err
	}

	todo.NotificationID = handle
	todo.ReminderState = model.ReminderScheduled
	return nil
}

// withdrawNotification cancels a handle with the scheduler and marks
// its history entry cancelled. The status write only applies while the
// entry is still pending, so an entry that already went out stays sent.
// Cancelling a handle the scheduler no longer holds is a no-op.
func (c *Coordinator) withdrawNotification(ctx context.Context, handle string) error {
	if handle == "" {
		return nil
	}
	c.sched.Cancel(handle)
	return c.store.UpdateNotificationStatus(ctx, handle, model.NotificationCancelled)
}

func (c *Coordinator) handleFired(ctx context.Context, n scheduler.Notification) {
	if err := c.store.UpdateNotificationStatus(ctx, n.Handle, model.NotificationSent); err != nil {
		c.log.Error().Err(err).Str("handle", n.Handle).Msg("marking notification sent")
	}

	entry, err := c.store.GetNotificationByID(ctx, n.Handle)
	if err != nil {
		c.log.Error().Err(err).Str("handle", n.Handle).Msg("loading fired notification")
		entry = &model.Notification{
			ID:     n.Handle,
			Title:  n.Title,
			Body:   n.Body,
			FireAt: n.FireAt,
			Status: model.NotificationSent,
		}
	}

	if entry.TodoID != "" {
		todo, getErr := c.store.GetTodoByID(ctx, entry.TodoID)
		if getErr == nil && todo.NotificationID == n.Handle {
			if err := c.store.SetReminderLink(ctx, todo.ID, todo.RemindAt, "", model.ReminderFired); err != nil {
				c.log.Error().Err(err).Str("todo", todo.ID).Msg("marking reminder fired")
			}
		}
	}

	if err := c.sender.SendReminder(*entry); err != nil {
		c.log.Warn().Err(err).Str("handle", n.Handle).Msg("delivering reminder")
	}
}
