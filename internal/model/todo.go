package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyTitle           = errors.New("model: todo title must not be empty")
	ErrInvalidLifecycle     = errors.New("model: invalid todo lifecycle state")
	ErrInvalidReminderState = errors.New("model: invalid reminder state")
)

// Lifecycle is the tagged lifecycle state of a todo. A todo moves
// active -> completed -> archived; archiving is one-way.
type Lifecycle string

const (
	StateActive    Lifecycle = "active"
	StateCompleted Lifecycle = "completed"
	StateArchived  Lifecycle = "archived"
)

func (s Lifecycle) IsValid() bool {
	switch s {
	case StateActive, StateCompleted, StateArchived:
		return true
	default:
		return false
	}
}

// ReminderState tracks the reminder sub-state of a todo, orthogonal to
// its lifecycle state.
type ReminderState string

const (
	// ReminderNone means no notification was ever scheduled (no reminder
	// set, or the reminder was already in the past at creation time).
	ReminderNone ReminderState = "none"

	// ReminderScheduled means the scheduler currently holds a pending
	// notification identified by NotificationID.
	ReminderScheduled ReminderState = "scheduled"

	// ReminderCancelled means the notification was withdrawn (todo
	// completed, archived or deleted while pending, or notifications
	// disabled). RemindAt is kept for display but is inert.
	ReminderCancelled ReminderState = "cancelled"

	// ReminderFired means the notification was delivered.
	ReminderFired ReminderState = "fired"
)

func (r ReminderState) IsValid() bool {
	switch r {
	case ReminderNone, ReminderScheduled, ReminderCancelled, ReminderFired:
		return true
	default:
		return false
	}
}

// Todo is a local task item created and managed by the user.
type Todo struct {
	ID string `json:"id" db:"id"`

	Title string `json:"title" db:"title"`

	// Category groups todos for per-category notification preferences
	// (e.g. "shopping", "birthday").
	Category string `json:"category" db:"category"`

	State Lifecycle `json:"state" db:"state"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// CompletedAt is set only while State is completed or archived.
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`

	// ArchivedAt is set only while State is archived.
	ArchivedAt *time.Time `json:"archived_at,omitempty" db:"archived_at"`

	// RemindAt is the moment a notification should fire. It is retained
	// for display even after the notification is cancelled.
	RemindAt *time.Time `json:"remind_at,omitempty" db:"remind_at"`

	// NotificationID is the scheduler handle of the pending
	// notification; empty when nothing is currently scheduled.
	NotificationID string `json:"notification_id,omitempty" db:"notification_id"`

	ReminderState ReminderState `json:"reminder_state" db:"reminder_state"`
}

// Validate checks the structural invariants of a todo record.
func (t Todo) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: todo id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if !t.State.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidLifecycle, t.State)
	}
	if !t.ReminderState.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidReminderState, t.ReminderState)
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: todo created_at is required")
	}
	if t.State == StateActive && t.CompletedAt != nil {
		return errors.New("model: completed_at must be nil while todo is active")
	}
	if t.State != StateActive && t.CompletedAt == nil {
		return errors.New("model: completed_at is required once todo is completed")
	}
	if t.State == StateArchived && t.ArchivedAt == nil {
		return errors.New("model: archived_at is required once todo is archived")
	}
	if t.State != StateArchived && t.ArchivedAt != nil {
		return errors.New("model: archived_at must be nil before todo is archived")
	}
	if t.NotificationID != "" && t.ReminderState != ReminderScheduled {
		return errors.New("model: notification_id is only kept while a notification is scheduled")
	}
	if t.ReminderState != ReminderNone && t.RemindAt == nil {
		return errors.New("model: remind_at is required for any reminder state but none")
	}
	return nil
}

// IsCompleted reports whether the todo has been completed (archived
// todos were completed first, so they count too).
func (t Todo) IsCompleted() bool {
	return t.State == StateCompleted || t.State == StateArchived
}
