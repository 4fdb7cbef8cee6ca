package task

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	// ErrVersionConflict is returned by Save when the stored task changed
	// since it was loaded.
	ErrVersionConflict = errors.New("task was modified concurrently")
)

// Repository defines the interface for task persistence.
type Repository interface {
	Save(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*Task, error)
	// FindActive returns every task that is not completed.
	FindActive(ctx context.Context, userID uuid.UUID) ([]*Task, error)
	// FindDueBetween returns unfinished tasks with a due date in [from, to).
	FindDueBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
