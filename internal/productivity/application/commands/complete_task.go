package commands

import (
	"context"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// CompleteTaskCommand contains the data needed to complete a task.
type CompleteTaskCommand struct {
	TaskID uuid.UUID
	UserID uuid.UUID
}

// CompleteTaskHandler handles the CompleteTaskCommand.
type CompleteTaskHandler struct {
	taskWriter
}

// NewCompleteTaskHandler creates a new CompleteTaskHandler.
func NewCompleteTaskHandler(taskRepo task.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *CompleteTaskHandler {
	return &CompleteTaskHandler{taskWriter{taskRepo: taskRepo, outboxRepo: outboxRepo, uow: uow}}
}

// Handle executes the CompleteTaskCommand.
func (h *CompleteTaskHandler) Handle(ctx context.Context, cmd CompleteTaskCommand) error {
	_, err := h.mutate(ctx, cmd.TaskID, cmd.UserID, (*task.Task).Complete)
	return err
}

// StartTaskCommand moves a task to in progress.
type StartTaskCommand struct {
	TaskID uuid.UUID
	UserID uuid.UUID
}

// StartTaskHandler handles the StartTaskCommand.
type StartTaskHandler struct {
	taskWriter
}

// NewStartTaskHandler creates a new StartTaskHandler.
func NewStartTaskHandler(taskRepo task.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *StartTaskHandler {
	return &StartTaskHandler{taskWriter{taskRepo: taskRepo, outboxRepo: outboxRepo, uow: uow}}
}

// Handle executes the StartTaskCommand.
func (h *StartTaskHandler) Handle(ctx context.Context, cmd StartTaskCommand) error {
	_, err := h.mutate(ctx, cmd.TaskID, cmd.UserID, (*task.Task).Start)
	return err
}
