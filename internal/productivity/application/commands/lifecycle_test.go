package commands

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/value_objects"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCompleteTaskHandler_Handle(t *testing.T) {
	userID := uuid.New()

	t.Run("completes and publishes", func(t *testing.T) {
		tk := storedTask(userID, "ship it")
		taskRepo := new(mockTaskRepo)
		outboxRepo := new(mockOutboxRepo)
		taskRepo.On("FindByID", mock.Anything, tk.ID()).Return(tk, nil)
		taskRepo.On("Save", mock.Anything, tk).Return(nil)
		outboxRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		err := NewCompleteTaskHandler(taskRepo, outboxRepo, committingUoW()).
			Handle(context.Background(), CompleteTaskCommand{TaskID: tk.ID(), UserID: userID})

		require.NoError(t, err)
		assert.True(t, tk.IsCompleted())
		assert.Equal(t, []string{task.RoutingKeyCompleted}, outboxRepo.routingKeys())
	})

	t.Run("already completed", func(t *testing.T) {
		tk := storedTask(userID, "done")
		require.NoError(t, tk.Complete())
		tk.PullEvents()
		taskRepo := new(mockTaskRepo)
		taskRepo.On("FindByID", mock.Anything, tk.ID()).Return(tk, nil)

		err := NewCompleteTaskHandler(taskRepo, new(mockOutboxRepo), rollingBackUoW()).
			Handle(context.Background(), CompleteTaskCommand{TaskID: tk.ID(), UserID: userID})

		assert.ErrorIs(t, err, task.ErrTaskAlreadyComplete)
	})

	t.Run("other user's task", func(t *testing.T) {
		tk := storedTask(uuid.New(), "not mine")
		taskRepo := new(mockTaskRepo)
		taskRepo.On("FindByID", mock.Anything, tk.ID()).Return(tk, nil)

		err := NewCompleteTaskHandler(taskRepo, new(mockOutboxRepo), rollingBackUoW()).
			Handle(context.Background(), CompleteTaskCommand{TaskID: tk.ID(), UserID: userID})

		assert.ErrorIs(t, err, task.ErrNotOwner)
		assert.False(t, tk.IsCompleted())
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New()
		taskRepo := new(mockTaskRepo)
		taskRepo.On("FindByID", mock.Anything, id).Return(nil, task.ErrTaskNotFound)

		err := NewCompleteTaskHandler(taskRepo, new(mockOutboxRepo), rollingBackUoW()).
			Handle(context.Background(), CompleteTaskCommand{TaskID: id, UserID: userID})

		assert.ErrorIs(t, err, task.ErrTaskNotFound)
	})
}

func TestStartTaskHandler_Handle(t *testing.T) {
	userID := uuid.New()
	tk := storedTask(userID, "begin")
	taskRepo := new(mockTaskRepo)
	outboxRepo := new(mockOutboxRepo)
	taskRepo.On("FindByID", mock.Anything, tk.ID()).Return(tk, nil)
	taskRepo.On("Save", mock.Anything, tk).Return(nil)

	err := NewStartTaskHandler(taskRepo, outboxRepo, committingUoW()).
		Handle(context.Background(), StartTaskCommand{TaskID: tk.ID(), UserID: userID})

	require.NoError(t, err)
	assert.Equal(t, task.StatusInProgress, tk.Status())
	outboxRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPostponeTaskHandler_Handle(t *testing.T) {
	userID := uuid.New()
	newDue := time.Date(2024, 3, 15, 17, 0, 0, 0, time.UTC)

	t.Run("postpone", func(t *testing.T) {
		tk := storedTask(userID, "later")
		taskRepo := new(mockTaskRepo)
		outboxRepo := new(mockOutboxRepo)
		taskRepo.On("FindByID", mock.Anything, tk.ID()).Return(tk, nil)
		taskRepo.On("Save", mock.Anything, tk).Return(nil)
		outboxRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		got, err := NewPostponeTaskHandler(taskRepo, outboxRepo, committingUoW()).
			Handle(context.Background(), PostponeTaskCommand{TaskID: tk.ID(), UserID: userID, NewDue: newDue})

		require.NoError(t, err)
		assert.Equal(t, task.StatusPostponed, got.Status())
		assert.True(t, got.DueDate().Equal(newDue))
		assert.Equal(t, []string{task.RoutingKeyPostponed}, outboxRepo.routingKeys())
	})

	t.Run("reschedule returns to pending", func(t *testing.T) {
		tk := storedTask(userID, "later")
		require.NoError(t, tk.Postpone(newDue))
		tk.PullEvents()
		taskRepo := new(mockTaskRepo)
		taskRepo.On("FindByID", mock.Anything, tk.ID()).Return(tk, nil)
		taskRepo.On("Save", mock.Anything, tk).Return(nil)
		start := newDue.Add(-48 * time.Hour)

		got, err := NewPostponeTaskHandler(taskRepo, new(mockOutboxRepo), committingUoW()).
			Handle(context.Background(), PostponeTaskCommand{TaskID: tk.ID(), UserID: userID, NewDue: newDue, NewStart: &start})

		require.NoError(t, err)
		assert.Equal(t, task.StatusPending, got.Status())
		assert.True(t, got.StartDate().Equal(start))
	})
}

func TestUpdateTaskHandler_Handle(t *testing.T) {
	userID := uuid.New()
	tk := storedTask(userID, "draft")
	taskRepo := new(mockTaskRepo)
	outboxRepo := new(mockOutboxRepo)
	taskRepo.On("FindByID", mock.Anything, tk.ID()).Return(tk, nil)
	taskRepo.On("Save", mock.Anything, tk).Return(nil)
	outboxRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	title, priority, minutes := "final", "medium", 30
	got, err := NewUpdateTaskHandler(taskRepo, outboxRepo, committingUoW()).Handle(context.Background(), UpdateTaskCommand{
		TaskID:          tk.ID(),
		UserID:          userID,
		Title:           &title,
		Priority:        &priority,
		EstimateMinutes: &minutes,
		Tags:            []string{"writing"},
	})

	require.NoError(t, err)
	assert.Equal(t, "final", got.Title())
	assert.Equal(t, value_objects.PriorityMedium, got.Priority())
	assert.Equal(t, 30, got.Estimate().Minutes())
	assert.Equal(t, []string{"writing"}, got.Tags())
	assert.Equal(t, []string{task.RoutingKeyReprioritized}, outboxRepo.routingKeys())
}

func TestDeleteTaskHandler_Handle(t *testing.T) {
	userID := uuid.New()
	tk := storedTask(userID, "gone")
	taskRepo := new(mockTaskRepo)
	taskRepo.On("FindByID", mock.Anything, tk.ID()).Return(tk, nil)
	taskRepo.On("Delete", mock.Anything, tk.ID()).Return(nil)

	err := NewDeleteTaskHandler(taskRepo, committingUoW()).
		Handle(context.Background(), DeleteTaskCommand{TaskID: tk.ID(), UserID: userID})

	require.NoError(t, err)
	taskRepo.AssertExpectations(t)
}
