package services

import (
	"time"

	prefsDomain "github.com/felixgeelhaar/cadence/internal/preferences/domain"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/value_objects"
	schedulingDomain "github.com/felixgeelhaar/cadence/internal/scheduling/domain"
	"github.com/google/uuid"
)

var (
	testUser = uuid.MustParse("6f1c2b1e-6a51-4d2e-9a55-3f2f0f5b9c11")
	// monday is 2024-03-04, a Monday.
	monday = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	// planningNow is when tests pretend the plan is computed.
	planningNow = monday.Add(7 * time.Hour)
)

func clock(h, m int) time.Time {
	return monday.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func span(h1, m1, h2, m2 int) schedulingDomain.Interval {
	return schedulingDomain.NewInterval(clock(h1, m1), clock(h2, m2))
}

type taskSpec struct {
	title    string
	priority value_objects.Priority
	estimate time.Duration
	due      *time.Time
	start    *time.Time
	created  time.Time
	status   task.Status
}

func makeTask(s taskSpec) *task.Task {
	if s.created.IsZero() {
		s.created = monday.Add(-24 * time.Hour)
	}
	if s.estimate == 0 {
		s.estimate = time.Hour
	}
	return task.Restore(task.Snapshot{
		ID:              uuid.New(),
		UserID:          testUser,
		Title:           s.title,
		Status:          s.status,
		Priority:        s.priority,
		EstimateMinutes: int(s.estimate / time.Minute),
		StartDate:       s.start,
		DueDate:         s.due,
		CreatedAt:       s.created,
		UpdatedAt:       s.created,
	})
}

func ptr(t time.Time) *time.Time { return &t }

// workdayPrefs returns 09:00-17:00 on weekdays with breaks disabled.
func workdayPrefs() *prefsDomain.Preferences {
	p := prefsDomain.DefaultPreferences(testUser)
	p.ClearHours(time.Saturday)
	p.ClearHours(time.Sunday)
	p.BreakPolicy = prefsDomain.BreakPolicy{}
	return p
}

func titles(tasks []*task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title()
	}
	return out
}

func slotTitles(slots []schedulingDomain.ScheduledSlot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Title
	}
	return out
}
