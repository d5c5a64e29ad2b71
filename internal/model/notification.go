package model

import "time"

// NotificationStatus is the lifecycle state of a history entry.
// Sent and Cancelled are terminal: once the event has happened (or the
// notification was withdrawn) the status never changes again.
type NotificationStatus string

const (
	NotificationPending   NotificationStatus = "pending"
	NotificationSent      NotificationStatus = "sent"
	NotificationCancelled NotificationStatus = "cancelled"

	// NotificationChangedCancelled marks an entry cancelled because the
	// owning todo's reminder time was edited; a fresh pending entry is
	// recorded for the new time.
	NotificationChangedCancelled NotificationStatus = "changed_cancelled"
)

func (s NotificationStatus) IsValid() bool {
	switch s {
	case NotificationPending, NotificationSent, NotificationCancelled, NotificationChangedCancelled:
		return true
	default:
		return false
	}
}

// Terminal reports whether the status permits no further transitions.
func (s NotificationStatus) Terminal() bool {
	return s != NotificationPending
}

// Notification is a locally retained record of a reminder's scheduling
// outcome, independent of whether the scheduler still holds it.
type Notification struct {
	// ID matches the scheduler handle the notification was queued under.
	ID string `json:"id" db:"id"`

	// TodoID links this entry back to the owning todo. Empty for
	// notifications not tied to a todo (e.g. daily summaries).
	TodoID string `json:"todo_id,omitempty" db:"todo_id"`

	Title string `json:"title" db:"title"`
	Body  string `json:"body" db:"body"`

	// FireAt is when the notification was (or would have been) delivered.
	FireAt time.Time `json:"fire_at" db:"fire_at"`

	// Category mirrors the owning todo's category so history can be
	// filtered without a join.
	Category string `json:"category,omitempty" db:"category"`

	// Read only affects the unread badge count, never scheduling.
	Read bool `json:"read" db:"read"`

	Status NotificationStatus `json:"status" db:"status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
