package services

import (
	"slices"
	"time"

	prefsDomain "github.com/felixgeelhaar/cadence/internal/preferences/domain"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	schedulingDomain "github.com/felixgeelhaar/cadence/internal/scheduling/domain"
)

// Allocation is the outcome of placing ranked tasks into free time.
type Allocation struct {
	// Slots are in chronological order.
	Slots []schedulingDomain.ScheduledSlot
	// Unscheduled keeps rank order.
	Unscheduled []*task.Task
}

// SlotAllocator places tasks greedily, first fit, in strict rank order.
//
// Each free interval keeps its own cursor. A task goes into the earliest
// interval with room for it and is deferred to later intervals otherwise,
// so a lower-ranked task may fill a gap that was too short for a higher
// one, but never starts before a higher-ranked task placed in the same
// interval. After every EveryNTasks placements a break follows the latest
// slot end on the timeline: no cursor may resume before that end plus the
// break length, each clamped to its interval end.
type SlotAllocator struct{}

// NewSlotAllocator creates an allocator.
func NewSlotAllocator() *SlotAllocator {
	return &SlotAllocator{}
}

type cursor struct {
	at  time.Time
	end time.Time
}

func (c *cursor) fits(d time.Duration) bool {
	return !c.at.Add(d).After(c.end)
}

// Allocate places ranked tasks into free. Tasks without an estimate use
// fallback. free may be unsorted; it is normalized first.
func (a *SlotAllocator) Allocate(
	ranked []*task.Task,
	free []schedulingDomain.Interval,
	policy prefsDomain.BreakPolicy,
	fallback time.Duration,
) Allocation {
	intervals := schedulingDomain.Normalize(free)
	cursors := make([]cursor, len(intervals))
	for i, iv := range intervals {
		cursors[i] = cursor{at: iv.Start, end: iv.End}
	}

	out := Allocation{
		Slots:       make([]schedulingDomain.ScheduledSlot, 0, len(ranked)),
		Unscheduled: make([]*task.Task, 0),
	}
	placed := 0
	var latest time.Time

	for _, t := range ranked {
		d := t.Estimate().Or(fallback)
		idx := -1
		if d > 0 {
			for i := range cursors {
				if cursors[i].fits(d) {
					idx = i
					break
				}
			}
		}
		if idx < 0 {
			out.Unscheduled = append(out.Unscheduled, t)
			continue
		}

		c := &cursors[idx]
		out.Slots = append(out.Slots, schedulingDomain.ScheduledSlot{
			TaskID:   t.ID(),
			Title:    t.Title(),
			Priority: t.Priority(),
			Start:    c.at,
			End:      c.at.Add(d),
		})
		c.at = c.at.Add(d)
		if c.at.After(latest) {
			latest = c.at
		}
		placed++

		if policy.Enabled() && placed%policy.EveryNTasks == 0 {
			resume := latest.Add(policy.Duration)
			for i := range cursors {
				if cursors[i].at.Before(resume) {
					cursors[i].at = resume
					if cursors[i].at.After(cursors[i].end) {
						cursors[i].at = cursors[i].end
					}
				}
			}
		}
	}

	slices.SortStableFunc(out.Slots, func(x, y schedulingDomain.ScheduledSlot) int {
		return x.Start.Compare(y.Start)
	})
	return out
}
