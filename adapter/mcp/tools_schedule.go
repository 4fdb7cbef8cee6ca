package mcp

import (
	"context"
	"time"

	"github.com/felixgeelhaar/cadence/internal/productivity/application/queries"
	"github.com/felixgeelhaar/cadence/internal/scheduling/application/commands"
	schedulingQueries "github.com/felixgeelhaar/cadence/internal/scheduling/application/queries"
	"github.com/felixgeelhaar/cadence/internal/scheduling/application/services"
	"github.com/felixgeelhaar/mcp-go"
	"github.com/google/uuid"
)

type planInput struct {
	Date       string `json:"date,omitempty"`
	WithAdvice bool   `json:"with_advice,omitempty"`
	FromNow    bool   `json:"from_now,omitempty"`
}

type freeTimeInput struct {
	Date       string `json:"date,omitempty"`
	MinMinutes int    `json:"min_minutes,omitempty"`
}

type suggestInput struct {
	Commit bool `json:"commit,omitempty"`
}

type slotOutput struct {
	TaskID      uuid.UUID `json:"task_id"`
	Title       string    `json:"title"`
	Priority    string    `json:"priority"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	DurationMin int       `json:"duration_min"`
}

type unscheduledOutput struct {
	TaskID      uuid.UUID `json:"task_id"`
	Title       string    `json:"title"`
	EstimateMin int       `json:"estimate_min"`
}

type suggestionOutput struct {
	TaskID          uuid.UUID `json:"task_id"`
	Title           string    `json:"title"`
	CurrentPriority string    `json:"current_priority"`
	Priority        string    `json:"priority"`
	ScheduledTime   time.Time `json:"scheduled_time"`
	Insight         string    `json:"insight,omitempty"`
	Fallback        bool      `json:"fallback"`
}

type planOutput struct {
	Day            string              `json:"day"`
	Slots          []slotOutput        `json:"slots"`
	Unscheduled    []unscheduledOutput `json:"unscheduled"`
	Suggestions    []suggestionOutput  `json:"suggestions,omitempty"`
	Note           string              `json:"note,omitempty"`
	Degraded       []string            `json:"degraded,omitempty"`
	UtilizationPct float64             `json:"utilization_pct"`
}

type suggestOutput struct {
	Suggestions []suggestionOutput `json:"suggestions"`
	Fallbacks   int                `json:"fallbacks"`
	Committed   int                `json:"committed"`
}

func registerScheduleTools(srv *mcp.Server, ts *toolset) {
	srv.Tool("schedule.plan").
		Description("Build the plan for a day (YYYY-MM-DD, today or tomorrow). with_advice asks the advisor for suggestions first; they are reported but never change the plan.").
		Handler(ts.planDay)
	srv.Tool("schedule.free").
		Description("List free stretches of a day's working hours, skipping calendar busy time").
		Handler(ts.freeTime)
	srv.Tool("priority.suggest").
		Description("Ask the advisor for a priority on every open task and store the suggestions. commit applies them.").
		Handler(ts.suggestPriorities)
	srv.Tool("priority.commit").
		Description("Accept the stored advisor suggestion for one task").
		Handler(ts.commitSuggestion)
}

func (ts *toolset) planDay(ctx context.Context, input planInput) (*planOutput, error) {
	date, err := ts.parseDate(input.Date)
	if err != nil {
		return nil, err
	}
	result, err := ts.app.ScheduleDayHandler.Handle(ctx, commands.ScheduleDayCommand{
		UserID:     ts.app.CurrentUserID,
		Date:       date,
		WithAdvice: input.WithAdvice,
		FromNow:    input.FromNow,
	})
	if err != nil {
		return nil, err
	}

	sched := result.Schedule
	out := &planOutput{
		Day:            sched.Day.Format(time.DateOnly),
		Slots:          make([]slotOutput, 0, len(sched.Slots)),
		Unscheduled:    make([]unscheduledOutput, 0, len(sched.Unscheduled)),
		Suggestions:    toSuggestions(result.Advisories),
		Note:           sched.Note,
		Degraded:       sched.Degraded,
		UtilizationPct: sched.Utilization() * 100,
	}
	for _, s := range sched.Slots {
		out.Slots = append(out.Slots, slotOutput{
			TaskID:      s.TaskID,
			Title:       s.Title,
			Priority:    s.Priority.String(),
			Start:       s.Start,
			End:         s.End,
			DurationMin: int(s.Duration().Minutes()),
		})
	}
	for _, t := range sched.Unscheduled {
		out.Unscheduled = append(out.Unscheduled, unscheduledOutput{
			TaskID:      t.ID(),
			Title:       t.Title(),
			EstimateMin: t.Estimate().Minutes(),
		})
	}
	return out, nil
}

func (ts *toolset) freeTime(ctx context.Context, input freeTimeInput) (*schedulingQueries.FindFreeTimeResult, error) {
	date, err := ts.parseDate(input.Date)
	if err != nil {
		return nil, err
	}
	return ts.app.FindFreeTimeHandler.Handle(ctx, schedulingQueries.FindFreeTimeQuery{
		UserID:      ts.app.CurrentUserID,
		Date:        date,
		MinDuration: time.Duration(input.MinMinutes) * time.Minute,
	})
}

func (ts *toolset) suggestPriorities(ctx context.Context, input suggestInput) (*suggestOutput, error) {
	result, err := ts.app.ReprioritizeHandler.Handle(ctx, commands.ReprioritizeCommand{
		UserID: ts.app.CurrentUserID,
		Commit: input.Commit,
	})
	if err != nil {
		return nil, err
	}
	suggestions := toSuggestions(result.Advisories)
	if suggestions == nil {
		suggestions = []suggestionOutput{}
	}
	return &suggestOutput{
		Suggestions: suggestions,
		Fallbacks:   result.Fallbacks,
		Committed:   result.Committed,
	}, nil
}

func (ts *toolset) commitSuggestion(ctx context.Context, input taskIDInput) (*queries.TaskDTO, error) {
	taskID, err := parseUUID(input.TaskID)
	if err != nil {
		return nil, err
	}
	t, err := ts.app.CommitSuggestionHandler.Handle(ctx, commands.CommitSuggestionCommand{
		TaskID: taskID,
		UserID: ts.app.CurrentUserID,
	})
	if err != nil {
		return nil, err
	}
	dto := queries.ToTaskDTO(t)
	return &dto, nil
}

func toSuggestions(annotated []services.AnnotatedTask) []suggestionOutput {
	if len(annotated) == 0 {
		return nil
	}
	out := make([]suggestionOutput, 0, len(annotated))
	for _, a := range annotated {
		out = append(out, suggestionOutput{
			TaskID:          a.Task.ID(),
			Title:           a.Task.Title(),
			CurrentPriority: a.Task.Priority().String(),
			Priority:        a.Advisory.Priority.String(),
			ScheduledTime:   a.Advisory.ScheduledTime,
			Insight:         a.Advisory.Insight,
			Fallback:        a.Fallback,
		})
	}
	return out
}
