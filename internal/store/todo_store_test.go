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

func addTodo(assert *assert.Assertions, s *store.SQLiteStore, title string) model.Todo {
	todo, err := s.CreateTodo(context.Background(), model.Todo{Title: title})
	assert.Nil(err)
	return todo
}

func TestCreateTodoAssignsIDAndTimestamps(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	s := testutil.NewTestStore(t)

	todo := addTodo(assert, s, "buy groceries")

	assert.NotEmpty(todo.ID)
	assert.False(todo.CreatedAt.IsZero())
	assert.Equal(model.StateActive, todo.State)
	assert.Equal(model.ReminderNone, todo.ReminderState)
}

func TestCreateTodoRejectsEmptyTitle(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	s := testutil.NewTestStore(t)

	_, err := s.CreateTodo(context.Background(), model.Todo{Title: "   "})
	assert.ErrorIs(err, model.ErrEmptyTitle)
}

func TestCreateTodoIDsAreUnique(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	s := testutil.NewTestStore(t)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		todo := addTodo(assert, s, "task")
		assert.False(seen[todo.ID])
		seen[todo.ID] = true
	}
}

func TestToggleCompleteRoundTrip(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	todo := addTodo(assert, s, "water the plants")

	completed, err := s.ToggleComplete(ctx, todo.ID)
	assert.Nil(err)
	assert.Equal(model.StateCompleted, completed.State)
	assert.NotNil(completed.CompletedAt)

	reverted, err := s.ToggleComplete(ctx, todo.ID)
	assert.Nil(err)
	assert.Equal(model.StateActive, reverted.State)
	assert.Nil(reverted.CompletedAt)
}

func TestArchiveTodoRequiresCompleted(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	todo := addTodo(assert, s, "active task")

	err := s.ArchiveTodo(ctx, todo.ID)
	assert.ErrorIs(err, store.ErrNotCompleted)

	// State unchanged: archiving a non-completed todo is a no-op.
	got, err := s.GetTodoByID(ctx, todo.ID)
	assert.Nil(err)
	assert.Equal(model.StateActive, got.State)
	assert.Nil(got.ArchivedAt)
}

func TestArchiveTodo(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	todo := addTodo(assert, s, "done task")
	_, err := s.ToggleComplete(ctx, todo.ID)
	assert.Nil(err)

	assert.Nil(s.ArchiveTodo(ctx, todo.ID))

	got, err := s.GetTodoByID(ctx, todo.ID)
	assert.Nil(err)
	assert.Equal(model.StateArchived, got.State)
	assert.NotNil(got.ArchivedAt)
	assert.NotNil(got.CompletedAt)
}

func TestArchiveAllCompletedAndClearArchive(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	first := addTodo(assert, s, "first")
	second := addTodo(assert, s, "second")
	addTodo(assert, s, "still active")

	_, err := s.ToggleComplete(ctx, first.ID)
	assert.Nil(err)
	_, err = s.ToggleComplete(ctx, second.ID)
	assert.Nil(err)

	count, err := s.ArchiveAllCompleted(ctx)
	assert.Nil(err)
	assert.Equal(2, count)

	assert.Nil(s.DeleteArchived(ctx))

	remaining, err := s.GetTodos(ctx, store.TodoFilter{})
	assert.Nil(err)
	assert.Len(remaining, 1)
	assert.Equal("still active", remaining[0].Title)
}

func TestDeleteTodo(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	todo := addTodo(assert, s, "short lived")
	assert.Nil(s.DeleteTodo(ctx, todo.ID))

	_, err := s.GetTodoByID(ctx, todo.ID)
	assert.ErrorIs(err, store.ErrNotFound)

	assert.ErrorIs(s.DeleteTodo(ctx, todo.ID), store.ErrNotFound)
}

func TestGetTodosFilters(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	_, err := s.CreateTodo(ctx, model.Todo{Title: "milk", Category: "shopping"})
	assert.Nil(err)
	other, err := s.CreateTodo(ctx, model.Todo{Title: "call mom", Category: "family"})
	assert.Nil(err)
	_, err = s.ToggleComplete(ctx, other.ID)
	assert.Nil(err)

	shopping := "shopping"
	byCategory, err := s.GetTodos(ctx, store.TodoFilter{Category: &shopping})
	assert.Nil(err)
	assert.Len(byCategory, 1)
	assert.Equal("milk", byCategory[0].Title)

	active := model.StateActive
	byState, err := s.GetTodos(ctx, store.TodoFilter{State: &active})
	assert.Nil(err)
	assert.Len(byState, 1)
	assert.Equal("milk", byState[0].Title)
}

func TestSetAndClearReminderLinks(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	todo := addTodo(assert, s, "with reminder")
	remindAt := time.Now().UTC().Add(time.Hour)

	assert.Nil(s.SetReminderLink(ctx, todo.ID, &remindAt, "handle-1", model.ReminderScheduled))

	scheduled := true
	linked, err := s.GetTodos(ctx, store.TodoFilter{Scheduled: &scheduled})
	assert.Nil(err)
	assert.Len(linked, 1)
	assert.Equal("handle-1", linked[0].NotificationID)

	assert.Nil(s.ClearReminderLinks(ctx))

	got, err := s.GetTodoByID(ctx, todo.ID)
	assert.Nil(err)
	assert.Empty(got.NotificationID)
	assert.Equal(model.ReminderCancelled, got.ReminderState)
	// remind_at is kept for display.
	assert.NotNil(got.RemindAt)
}
