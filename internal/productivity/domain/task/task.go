package task

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/value_objects"
	"github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrEmptyTitle          = errors.New("task title cannot be empty")
	ErrTaskAlreadyComplete = errors.New("task is already completed")
	ErrInvalidDateRange    = errors.New("start date must be before due date")
	ErrNoAdvisory          = errors.New("task has no advisory to commit")
	ErrInvalidStatus       = errors.New("invalid task status")
	ErrNotOwner            = errors.New("task belongs to another user")
)

// Status represents the task lifecycle state.
type Status int

const (
	StatusPending Status = iota
	StatusInProgress
	StatusCompleted
	StatusPostponed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	case StatusPostponed:
		return "postponed"
	default:
		return "unknown"
	}
}

// ParseStatus converts a stored status name back into a Status.
func ParseStatus(s string) (Status, error) {
	for _, st := range []Status{StatusPending, StatusInProgress, StatusCompleted, StatusPostponed} {
		if st.String() == s {
			return st, nil
		}
	}
	return StatusPending, ErrInvalidStatus
}

// Advisory is a non-authoritative suggestion attached to a task. It never
// changes the task's priority or dates on its own.
type Advisory struct {
	Priority      value_objects.Priority `json:"priority"`
	ScheduledTime time.Time              `json:"scheduled_time"`
	Insight       string                 `json:"insight"`
}

// Task is a unit of work owned by a user.
type Task struct {
	domain.AggregateRoot
	userID          uuid.UUID
	title           string
	description     string
	status          Status
	priority        value_objects.Priority
	estimate        value_objects.Duration
	startDate       *time.Time
	dueDate         *time.Time
	completedAt     *time.Time
	tags            []string
	category        string
	calendarEventID string
	advisory        *Advisory
}

// NewTask creates a pending, low priority task with the default one hour estimate.
func NewTask(userID uuid.UUID, title string) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	now := time.Now().UTC()
	t := &Task{
		AggregateRoot: domain.NewAggregateRoot(now),
		userID:        userID,
		title:         title,
		status:        StatusPending,
		priority:      value_objects.PriorityLow,
		estimate:      value_objects.MustNewDuration(value_objects.DefaultEstimate),
	}
	t.Record(NewTaskCreated(t.ID(), t.title, t.priority.String(), now))
	return t, nil
}

func (t *Task) UserID() uuid.UUID                { return t.userID }
func (t *Task) Title() string                    { return t.title }
func (t *Task) Description() string              { return t.description }
func (t *Task) Status() Status                   { return t.status }
func (t *Task) Priority() value_objects.Priority { return t.priority }
func (t *Task) Estimate() value_objects.Duration { return t.estimate }
func (t *Task) StartDate() *time.Time            { return t.startDate }
func (t *Task) DueDate() *time.Time              { return t.dueDate }
func (t *Task) CompletedAt() *time.Time          { return t.completedAt }
func (t *Task) Tags() []string                   { return slices.Clone(t.tags) }
func (t *Task) Category() string                 { return t.category }
func (t *Task) CalendarEventID() string          { return t.calendarEventID }
func (t *Task) IsCompleted() bool                { return t.status == StatusCompleted }

// Advisory returns a copy of the attached advisory, or nil.
func (t *Task) Advisory() *Advisory {
	if t.advisory == nil {
		return nil
	}
	a := *t.advisory
	return &a
}

// IsOverdue reports an unfinished task whose due date has passed.
func (t *Task) IsOverdue(now time.Time) bool {
	return !t.IsCompleted() && t.dueDate != nil && t.dueDate.Before(now)
}

// SetTitle updates the task title.
func (t *Task) SetTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	t.title = title
	t.Touch(time.Now())
	return nil
}

// SetDescription updates the task description.
func (t *Task) SetDescription(description string) {
	t.description = strings.TrimSpace(description)
	t.Touch(time.Now())
}

// SetPriority changes the canonical priority.
func (t *Task) SetPriority(priority value_objects.Priority) error {
	if !priority.IsValid() {
		return value_objects.ErrInvalidPriority
	}
	if priority == t.priority {
		return nil
	}
	previous := t.priority
	t.priority = priority
	now := time.Now()
	t.Touch(now)
	t.Record(NewTaskReprioritized(t.ID(), previous.String(), priority.String(), now))
	return nil
}

// SetEstimate replaces the estimated duration.
func (t *Task) SetEstimate(estimate value_objects.Duration) error {
	if estimate.IsZero() {
		return value_objects.ErrInvalidDuration
	}
	t.estimate = estimate
	t.Touch(time.Now())
	return nil
}

// SetDates sets the optional start and due dates. When both are present
// start must precede due.
func (t *Task) SetDates(start, due *time.Time) error {
	if start != nil && due != nil && !start.Before(*due) {
		return ErrInvalidDateRange
	}
	t.startDate = cloneTime(start)
	t.dueDate = cloneTime(due)
	t.Touch(time.Now())
	return nil
}

// SetTags replaces the tag list, dropping blanks and duplicates.
func (t *Task) SetTags(tags []string) {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" && !slices.Contains(cleaned, tag) {
			cleaned = append(cleaned, tag)
		}
	}
	t.tags = cleaned
	t.Touch(time.Now())
}

// SetCategory sets the free-form category.
func (t *Task) SetCategory(category string) {
	t.category = strings.TrimSpace(category)
	t.Touch(time.Now())
}

// LinkCalendarEvent records the external calendar event mirroring this task.
func (t *Task) LinkCalendarEvent(eventID string) {
	t.calendarEventID = eventID
	t.Touch(time.Now())
}

// Start marks the task as in progress.
func (t *Task) Start() error {
	if t.IsCompleted() {
		return ErrTaskAlreadyComplete
	}
	if t.status == StatusInProgress {
		return nil
	}
	t.status = StatusInProgress
	t.Touch(time.Now())
	return nil
}

// Complete marks the task as completed.
func (t *Task) Complete() error {
	if t.IsCompleted() {
		return ErrTaskAlreadyComplete
	}
	now := time.Now().UTC()
	t.status = StatusCompleted
	t.completedAt = &now
	t.Touch(now)
	t.Record(NewTaskCompleted(t.ID(), now))
	return nil
}

// Postpone pushes the due date out and marks the task postponed.
func (t *Task) Postpone(newDue time.Time) error {
	if t.IsCompleted() {
		return ErrTaskAlreadyComplete
	}
	if t.startDate != nil && !t.startDate.Before(newDue) {
		return ErrInvalidDateRange
	}
	newDue = newDue.UTC()
	t.dueDate = &newDue
	t.status = StatusPostponed
	now := time.Now()
	t.Touch(now)
	t.Record(NewTaskPostponed(t.ID(), newDue, now))
	return nil
}

// Reschedule moves both dates and returns a postponed task to pending.
func (t *Task) Reschedule(start, due time.Time) error {
	if t.IsCompleted() {
		return ErrTaskAlreadyComplete
	}
	if err := t.SetDates(&start, &due); err != nil {
		return err
	}
	if t.status == StatusPostponed {
		t.status = StatusPending
	}
	return nil
}

// Annotate attaches an advisory. Priority and dates are left alone.
func (t *Task) Annotate(advisory Advisory) {
	t.advisory = &advisory
}

// CommitAdvisory promotes the advisory priority into the canonical priority.
func (t *Task) CommitAdvisory() error {
	if t.advisory == nil {
		return ErrNoAdvisory
	}
	return t.SetPriority(t.advisory.Priority)
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := v.UTC()
	return &c
}
