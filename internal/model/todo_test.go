package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/daybook/internal/model"
)

func validTodo() model.Todo {
	return model.Todo{
		ID:            "todo-1",
		Title:         "water the plants",
		State:         model.StateActive,
		ReminderState: model.ReminderNone,
		CreatedAt:     day("2024-01-01"),
		UpdatedAt:     day("2024-01-01"),
	}
}

func TestTodoValidate(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	assert.Nil(validTodo().Validate())
}

func TestTodoValidateEmptyTitle(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	todo := validTodo()
	todo.Title = "   "
	assert.ErrorIs(todo.Validate(), model.ErrEmptyTitle)
}

func TestTodoValidateInvalidEnums(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	todo := validTodo()
	todo.State = model.Lifecycle("bogus")
	assert.ErrorIs(todo.Validate(), model.ErrInvalidLifecycle)

	todo = validTodo()
	todo.ReminderState = model.ReminderState("bogus")
	assert.ErrorIs(todo.Validate(), model.ErrInvalidReminderState)
}

func TestTodoValidateCompletedNeedsTimestamp(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	todo := validTodo()
	todo.State = model.StateCompleted
	assert.NotNil(todo.Validate())

	completed := day("2024-01-02")
	todo.CompletedAt = &completed
	assert.Nil(todo.Validate())
}

func TestTodoValidateArchivedNeedsBothTimestamps(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	completed := day("2024-01-02")
	archived := day("2024-01-03")

	todo := validTodo()
	todo.State = model.StateArchived
	todo.CompletedAt = &completed
	assert.NotNil(todo.Validate())

	todo.ArchivedAt = &archived
	assert.Nil(todo.Validate())

	// archived_at without the archived state is invalid by construction.
	todo = validTodo()
	todo.ArchivedAt = &archived
	assert.NotNil(todo.Validate())
}

func TestTodoValidateNotificationIDRequiresScheduledState(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	remind := day("2024-06-01")

	todo := validTodo()
	todo.NotificationID = "handle-1"
	todo.RemindAt = &remind
	assert.NotNil(todo.Validate())

	todo.ReminderState = model.ReminderScheduled
	assert.Nil(todo.Validate())
}

func TestTodoIsCompleted(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	completed := time.Now().UTC()

	todo := validTodo()
	assert.False(todo.IsCompleted())

	todo.State = model.StateCompleted
	todo.CompletedAt = &completed
	assert.True(todo.IsCompleted())

	todo.State = model.StateArchived
	assert.True(todo.IsCompleted())
}
