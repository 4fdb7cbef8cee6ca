package services

import (
	"time"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	schedulingDomain "github.com/felixgeelhaar/cadence/internal/scheduling/domain"
)

// FallbackInsight is attached when no usable suggestion is available.
const FallbackInsight = "Unable to generate AI insights at this time."

// AnnotatedTask is a task after a suggestion has been merged into it.
type AnnotatedTask struct {
	Task     *task.Task
	Advisory task.Advisory
	// Fallback is set when the identity advisory was used.
	Fallback bool
}

// SuggestionMerger attaches advisor output to tasks without touching their
// canonical priority or dates.
type SuggestionMerger struct {
	now func() time.Time
}

// NewSuggestionMerger creates a merger using the wall clock.
func NewSuggestionMerger() *SuggestionMerger {
	return &SuggestionMerger{now: time.Now}
}

// WithClock replaces the clock used for the fallback scheduled time.
func (m *SuggestionMerger) WithClock(now func() time.Time) *SuggestionMerger {
	m.now = now
	return m
}

// Merge attaches s to t. A nil or malformed suggestion is replaced by the
// identity advisory: the task's own priority, its start date or now, and
// the neutral insight.
func (m *SuggestionMerger) Merge(t *task.Task, s *schedulingDomain.Suggestion) AnnotatedTask {
	if s != nil && s.Valid() {
		p, _ := s.ParsedPriority()
		advisory := task.Advisory{
			Priority:      p,
			ScheduledTime: s.ScheduledTime,
			Insight:       s.Insight,
		}
		t.Annotate(advisory)
		return AnnotatedTask{Task: t, Advisory: advisory}
	}

	advisory := m.Identity(t)
	t.Annotate(advisory)
	return AnnotatedTask{Task: t, Advisory: advisory, Fallback: true}
}

// Identity returns the advisory used when the advisor is unavailable.
func (m *SuggestionMerger) Identity(t *task.Task) task.Advisory {
	scheduled := m.now().UTC()
	if start := t.StartDate(); start != nil {
		scheduled = *start
	}
	return task.Advisory{
		Priority:      t.Priority(),
		ScheduledTime: scheduled,
		Insight:       FallbackInsight,
	}
}

// Commit promotes the attached advisory priority into the task.
func (m *SuggestionMerger) Commit(t *task.Task) error {
	return t.CommitAdvisory()
}
