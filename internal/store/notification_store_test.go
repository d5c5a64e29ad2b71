package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/daybook/internal/model"
	"github.com/nhle/daybook/internal/store"
	"github.com/nhle/daybook/tests/testutil"
)

func recordNotification(assert *assert.Assertions, s *store.SQLiteStore, id string) {
	err := s.RecordNotification(context.Background(), model.Notification{
		ID:     id,
		Title:  "Task reminder",
		Body:   "water the plants",
		FireAt: time.Now().UTC().Add(time.Hour),
	})
	assert.Nil(err)
}

func TestRecordNotificationDefaultsPendingUnread(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	recordNotification(assert, s, "abc")

	got, err := s.GetNotificationByID(ctx, "abc")
	assert.Nil(err)
	assert.Equal(model.NotificationPending, got.Status)
	assert.False(got.Read)

	count, err := s.UnreadNotificationCount(ctx)
	assert.Nil(err)
	assert.Equal(1, count)
}

func TestUpdateNotificationStatusTerminalGuard(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	recordNotification(assert, s, "abc")

	assert.Nil(s.UpdateNotificationStatus(ctx, "abc", model.NotificationSent))

	// Sent is terminal: the cancel write is a silent no-op.
	assert.Nil(s.UpdateNotificationStatus(ctx, "abc", model.NotificationCancelled))

	got, err := s.GetNotificationByID(ctx, "abc")
	assert.Nil(err)
	assert.Equal(model.NotificationSent, got.Status)
}

func TestUpdateNotificationStatusUnknownIDIsNoop(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	s := testutil.NewTestStore(t)

	assert.Nil(s.UpdateNotificationStatus(context.Background(), "missing", model.NotificationCancelled))
}

func TestCancelPendingNotificationsLeavesSentAlone(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	recordNotification(assert, s, "pending-1")
	recordNotification(assert, s, "sent-1")
	assert.Nil(s.UpdateNotificationStatus(ctx, "sent-1", model.NotificationSent))

	cancelled, err := s.CancelPendingNotifications(ctx)
	assert.Nil(err)
	assert.Equal(1, cancelled)

	pending, err := s.GetNotificationByID(ctx, "pending-1")
	assert.Nil(err)
	assert.Equal(model.NotificationCancelled, pending.Status)

	sent, err := s.GetNotificationByID(ctx, "sent-1")
	assert.Nil(err)
	assert.Equal(model.NotificationSent, sent.Status)
}

func TestMarkAllNotificationsRead(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	recordNotification(assert, s, "a")
	recordNotification(assert, s, "b")

	assert.Nil(s.MarkAllNotificationsRead(ctx))

	count, err := s.UnreadNotificationCount(ctx)
	assert.Nil(err)
	assert.Equal(0, count)
}

func TestClearNotifications(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	recordNotification(assert, s, "a")
	recordNotification(assert, s, "b")

	assert.Nil(s.ClearNotifications(ctx))

	all, err := s.GetNotifications(ctx)
	assert.Nil(err)
	assert.Empty(all)

	count, err := s.UnreadNotificationCount(ctx)
	assert.Nil(err)
	assert.Equal(0, count)
}

func TestReassignNotificationID(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	recordNotification(assert, s, "old-handle")

	assert.Nil(s.ReassignNotificationID(ctx, "old-handle", "new-handle"))

	_, err := s.GetNotificationByID(ctx, "old-handle")
	assert.ErrorIs(err, store.ErrNotFound)

	got, err := s.GetNotificationByID(ctx, "new-handle")
	assert.Nil(err)
	assert.Equal(model.NotificationPending, got.Status)

	assert.ErrorIs(s.ReassignNotificationID(ctx, "missing", "x"), store.ErrNotFound)
}
