package services

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	prefsDomain "github.com/felixgeelhaar/cadence/internal/preferences/domain"
	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	"github.com/google/uuid"
)

// UrgencyHorizon is how far ahead a due date starts to raise urgency.
const UrgencyHorizon = 14 * 24 * time.Hour

// RankSignals carries optional per-task inputs for the effort and
// dependency terms. Values are clamped to [0,1]; missing signals count as 0.
type RankSignals struct {
	Effort       float64
	Dependencies float64
}

// ScoreBreakdown holds the normalized terms before weighting.
type ScoreBreakdown struct {
	Importance   float64
	Urgency      float64
	Effort       float64
	Dependencies float64
}

// RankedTask is a task with its computed score.
type RankedTask struct {
	Task      *task.Task
	Score     float64
	Breakdown ScoreBreakdown
}

// PriorityRanker orders tasks by a weighted sum of normalized terms.
type PriorityRanker struct {
	horizon time.Duration
}

// NewPriorityRanker creates a ranker with the standard horizon.
func NewPriorityRanker() *PriorityRanker {
	return &PriorityRanker{horizon: UrgencyHorizon}
}

// Rank returns tasks in scheduling order. The input slice is not modified
// and ranking an already ranked list yields the same order.
func (r *PriorityRanker) Rank(tasks []*task.Task, weights prefsDomain.PriorityWeights, now time.Time) []*task.Task {
	ranked := r.RankWithSignals(tasks, weights, now, nil)
	out := make([]*task.Task, len(ranked))
	for i, rt := range ranked {
		out[i] = rt.Task
	}
	return out
}

// RankWithSignals is Rank with optional effort and dependency inputs, and
// keeps the scores.
func (r *PriorityRanker) RankWithSignals(
	tasks []*task.Task,
	weights prefsDomain.PriorityWeights,
	now time.Time,
	signals map[uuid.UUID]RankSignals,
) []RankedTask {
	ranked := make([]RankedTask, 0, len(tasks))
	for _, t := range tasks {
		b := r.breakdown(t, now, signals[t.ID()])
		ranked = append(ranked, RankedTask{
			Task:      t,
			Score:     weigh(b, weights),
			Breakdown: b,
		})
	}
	slices.SortStableFunc(ranked, compareRanked)
	return ranked
}

// Explain renders the weighted contribution of each term.
func (r *PriorityRanker) Explain(rt RankedTask, weights prefsDomain.PriorityWeights) string {
	b := rt.Breakdown
	return fmt.Sprintf(
		"score=%.3f importance=%.3f urgency=%.3f effort=%.3f dependencies=%.3f",
		rt.Score,
		b.Importance*weights.Importance,
		b.Urgency*weights.Deadline,
		b.Effort*weights.Effort,
		b.Dependencies*weights.Dependencies,
	)
}

func (r *PriorityRanker) breakdown(t *task.Task, now time.Time, s RankSignals) ScoreBreakdown {
	return ScoreBreakdown{
		Importance:   t.Priority().Level(),
		Urgency:      r.urgency(t.DueDate(), now),
		Effort:       clamp01(s.Effort),
		Dependencies: clamp01(s.Dependencies),
	}
}

// urgency is 1 at or past the due date and falls linearly to 0 at the horizon.
func (r *PriorityRanker) urgency(due *time.Time, now time.Time) float64 {
	if due == nil {
		return 0
	}
	remaining := due.Sub(now)
	return clamp01(1 - float64(remaining)/float64(r.horizon))
}

func weigh(b ScoreBreakdown, w prefsDomain.PriorityWeights) float64 {
	return w.Importance*b.Importance +
		w.Deadline*b.Urgency +
		w.Effort*b.Effort +
		w.Dependencies*b.Dependencies
}

// compareRanked is a total order: score desc, due date asc with undated
// tasks last, createdAt asc, then ID.
func compareRanked(a, b RankedTask) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	if c := compareDue(a.Task.DueDate(), b.Task.DueDate()); c != 0 {
		return c
	}
	if c := a.Task.CreatedAt().Compare(b.Task.CreatedAt()); c != 0 {
		return c
	}
	return cmp.Compare(a.Task.ID().String(), b.Task.ID().String())
}

func compareDue(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(*b)
	}
}

func clamp01(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
