package queries

import (
	"context"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	"github.com/google/uuid"
)

// GetTaskQuery contains the parameters for getting a single task.
type GetTaskQuery struct {
	TaskID uuid.UUID
	UserID uuid.UUID
}

// GetTaskHandler handles the GetTaskQuery.
type GetTaskHandler struct {
	taskRepo task.Repository
}

// NewGetTaskHandler creates a new GetTaskHandler.
func NewGetTaskHandler(taskRepo task.Repository) *GetTaskHandler {
	return &GetTaskHandler{taskRepo: taskRepo}
}

// Handle executes the GetTaskQuery. Another user's task reads as not found.
func (h *GetTaskHandler) Handle(ctx context.Context, query GetTaskQuery) (*TaskDTO, error) {
	t, err := h.taskRepo.FindByID(ctx, query.TaskID)
	if err != nil {
		return nil, err
	}
	if t.UserID() != query.UserID {
		return nil, task.ErrTaskNotFound
	}
	dto := ToTaskDTO(t)
	return &dto, nil
}
