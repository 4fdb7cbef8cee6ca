package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	prefsDomain "github.com/felixgeelhaar/cadence/internal/preferences/domain"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	"github.com/felixgeelhaar/cadence/internal/scheduling/application/services"
	schedulingDomain "github.com/felixgeelhaar/cadence/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/lock"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/resilience"
	"github.com/google/uuid"
)

// ErrNoAdvisor is returned when reprioritization is requested without an
// advisor configured.
var ErrNoAdvisor = errors.New("no advisor configured")

// ErrAIDisabled is returned when the user has turned advice off in their
// preferences.
var ErrAIDisabled = errors.New("ai suggestions are disabled in preferences")

// ReprioritizeCommand asks the advisor about every active task.
type ReprioritizeCommand struct {
	UserID uuid.UUID
	// Commit promotes each suggested priority into the task. Without it
	// suggestions are only stored as advisories.
	Commit bool
}

// ReprioritizeResult lists each task with the advisory it received.
type ReprioritizeResult struct {
	Advisories []services.AnnotatedTask
	// Fallbacks counts tasks that got the identity advisory.
	Fallbacks int
	Committed int
}

// ReprioritizeHandler handles the ReprioritizeCommand.
type ReprioritizeHandler struct {
	taskRepo   task.Repository
	prefsRepo  prefsDomain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	locker     lock.Locker
	advice     *adviceCollector
	merger     *services.SuggestionMerger
	logger     *slog.Logger
	now        func() time.Time
}

// NewReprioritizeHandler creates a new ReprioritizeHandler. advisor may be
// nil, in which case Handle returns ErrNoAdvisor.
func NewReprioritizeHandler(
	taskRepo task.Repository,
	prefsRepo prefsDomain.Repository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	locker lock.Locker,
	advisor schedulingDomain.Advisor,
	guard *resilience.Guard,
	logger *slog.Logger,
) *ReprioritizeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if locker == nil {
		locker = lock.NewMemoryLocker()
	}
	merger := services.NewSuggestionMerger()
	h := &ReprioritizeHandler{
		taskRepo:   taskRepo,
		prefsRepo:  prefsRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		locker:     locker,
		merger:     merger,
		logger:     logger,
		now:        time.Now,
	}
	if advisor != nil {
		h.advice = &adviceCollector{advisor: advisor, guard: guard, merger: merger, limit: 4, logger: logger}
	}
	return h
}

// Handle executes the ReprioritizeCommand.
func (h *ReprioritizeHandler) Handle(ctx context.Context, cmd ReprioritizeCommand) (*ReprioritizeResult, error) {
	if h.advice == nil {
		return nil, ErrNoAdvisor
	}

	release, err := h.locker.Acquire(ctx, "schedule:"+cmd.UserID.String())
	if err != nil {
		return nil, err
	}
	defer release()

	prefs, err := h.prefsRepo.Get(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if !prefs.AIEnabled {
		return nil, ErrAIDisabled
	}
	tasks, err := h.taskRepo.FindActive(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	annotated, _ := h.advice.collect(ctx, tasks, schedulingDomain.NewAdvisorContext(prefs, tasks, h.now()))

	result := &ReprioritizeResult{Advisories: annotated}
	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		meta := sharedApplication.NewEventMetadata(txCtx, cmd.UserID)
		for _, a := range annotated {
			if a.Fallback {
				result.Fallbacks++
			} else if cmd.Commit {
				before := a.Task.Priority()
				if err := h.merger.Commit(a.Task); err != nil {
					return err
				}
				if a.Task.Priority() != before {
					result.Committed++
				}
			}
			if err := h.taskRepo.Save(txCtx, a.Task); err != nil {
				return err
			}
			if err := outbox.Append(txCtx, h.outboxRepo, meta, a.Task.PullEvents()...); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("tasks reprioritized",
		"user_id", cmd.UserID,
		"tasks", len(annotated),
		"fallbacks", result.Fallbacks,
		"committed", result.Committed,
	)
	return result, nil
}
