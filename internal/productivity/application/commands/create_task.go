package commands

import (
	"context"
	"errors"
	"time"

	prefsDomain "github.com/felixgeelhaar/cadence/internal/preferences/domain"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/value_objects"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// CreateTaskCommand contains the data needed to create a task.
type CreateTaskCommand struct {
	UserID      uuid.UUID
	Title       string
	Description string
	// Priority is a level name; empty uses the user's default priority.
	Priority        string
	EstimateMinutes int
	StartDate       *time.Time
	DueDate         *time.Time
	Tags            []string
	Category        string
}

// CreateTaskResult contains the result of creating a task.
type CreateTaskResult struct {
	TaskID uuid.UUID
}

// CreateTaskHandler handles the CreateTaskCommand.
type CreateTaskHandler struct {
	taskWriter
	prefsRepo prefsDomain.Repository
}

// NewCreateTaskHandler creates a new CreateTaskHandler. prefsRepo may be nil,
// in which case tasks without a priority stay low.
func NewCreateTaskHandler(
	taskRepo task.Repository,
	outboxRepo outbox.Repository,
	prefsRepo prefsDomain.Repository,
	uow sharedApplication.UnitOfWork,
) *CreateTaskHandler {
	return &CreateTaskHandler{
		taskWriter: taskWriter{taskRepo: taskRepo, outboxRepo: outboxRepo, uow: uow},
		prefsRepo:  prefsRepo,
	}
}

// Handle executes the CreateTaskCommand.
func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (*CreateTaskResult, error) {
	priority, err := h.priorityFor(ctx, cmd)
	if err != nil {
		return nil, err
	}

	return sharedApplication.Transact(ctx, h.uow, func(txCtx context.Context) (*CreateTaskResult, error) {
		t, err := task.NewTask(cmd.UserID, cmd.Title)
		if err != nil {
			return nil, err
		}
		if cmd.Description != "" {
			t.SetDescription(cmd.Description)
		}
		if err := t.SetPriority(priority); err != nil {
			return nil, err
		}
		if cmd.EstimateMinutes != 0 {
			estimate, err := value_objects.DurationFromMinutes(cmd.EstimateMinutes)
			if err != nil {
				return nil, err
			}
			if err := t.SetEstimate(estimate); err != nil {
				return nil, err
			}
		}
		if cmd.StartDate != nil || cmd.DueDate != nil {
			if err := t.SetDates(cmd.StartDate, cmd.DueDate); err != nil {
				return nil, err
			}
		}
		if len(cmd.Tags) > 0 {
			t.SetTags(cmd.Tags)
		}
		if cmd.Category != "" {
			t.SetCategory(cmd.Category)
		}

		if err := h.save(txCtx, t); err != nil {
			return nil, err
		}
		return &CreateTaskResult{TaskID: t.ID()}, nil
	})
}

func (h *CreateTaskHandler) priorityFor(ctx context.Context, cmd CreateTaskCommand) (value_objects.Priority, error) {
	if cmd.Priority != "" {
		return value_objects.ParsePriority(cmd.Priority)
	}
	if h.prefsRepo == nil {
		return value_objects.PriorityLow, nil
	}
	prefs, err := h.prefsRepo.Get(ctx, cmd.UserID)
	if errors.Is(err, prefsDomain.ErrPreferencesNotFound) {
		return value_objects.PriorityLow, nil
	}
	if err != nil {
		return value_objects.PriorityLow, err
	}
	return prefs.DefaultPriority, nil
}
