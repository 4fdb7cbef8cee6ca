package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/cadence/internal/productivity/application/commands"
	"github.com/felixgeelhaar/cadence/internal/productivity/application/queries"
	"github.com/felixgeelhaar/mcp-go"
	"github.com/google/uuid"
)

type taskCreateInput struct {
	Title           string   `json:"title" jsonschema:"required"`
	Description     string   `json:"description,omitempty"`
	Priority        string   `json:"priority,omitempty"`
	EstimateMinutes int      `json:"estimate_minutes,omitempty"`
	DueDate         string   `json:"due_date,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	Category        string   `json:"category,omitempty"`
}

type taskListInput struct {
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`
	Tag      string `json:"tag,omitempty"`
	SortBy   string `json:"sort_by,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type taskIDInput struct {
	TaskID string `json:"task_id" jsonschema:"required"`
}

type taskPostponeInput struct {
	TaskID    string `json:"task_id" jsonschema:"required"`
	DueDate   string `json:"due_date" jsonschema:"required"`
	StartDate string `json:"start_date,omitempty"`
}

type taskUpdateInput struct {
	TaskID          string   `json:"task_id" jsonschema:"required"`
	Title           *string  `json:"title,omitempty"`
	Description     *string  `json:"description,omitempty"`
	Priority        *string  `json:"priority,omitempty"`
	EstimateMinutes *int     `json:"estimate_minutes,omitempty"`
	DueDate         string   `json:"due_date,omitempty"`
	ClearDueDate    bool     `json:"clear_due_date,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	Category        *string  `json:"category,omitempty"`
}

type upcomingInput struct {
	Days int `json:"days,omitempty"`
}

type statsInput struct {
	Days int `json:"days,omitempty"`
}

type taskChanged struct {
	TaskID uuid.UUID `json:"task_id"`
	Status string    `json:"status"`
}

func registerTaskTools(srv *mcp.Server, ts *toolset) {
	srv.Tool("task.create").
		Description("Create a new task. Without a priority the user's default priority is used.").
		Handler(ts.createTask)
	srv.Tool("task.list").
		Description("List tasks. status is active (default), all, or a status name; sort_by is priority, due_date or created_at.").
		Handler(ts.listTasks)
	srv.Tool("task.get").
		Description("Get one task, including any stored advisor suggestion").
		Handler(ts.getTask)
	srv.Tool("task.start").
		Description("Mark a task as in progress").
		Handler(ts.startTask)
	srv.Tool("task.complete").
		Description("Mark a task as complete").
		Handler(ts.completeTask)
	srv.Tool("task.postpone").
		Description("Move a task's due date, optionally with a new start date").
		Handler(ts.postponeTask)
	srv.Tool("task.update").
		Description("Change a task's properties. Only the fields present are changed.").
		Handler(ts.updateTask)
	srv.Tool("task.delete").
		Description("Delete a task").
		Handler(ts.deleteTask)
	srv.Tool("task.overdue").
		Description("List unfinished tasks past their due date").
		Handler(ts.overdueTasks)
	srv.Tool("task.upcoming").
		Description("List unfinished tasks due within the next days (default 7)").
		Handler(ts.upcomingTasks)
	srv.Tool("task.stats").
		Description("Summarize the tasks created within the last days (default 30)").
		Handler(ts.taskStats)
}

func (ts *toolset) createTask(ctx context.Context, input taskCreateInput) (*commands.CreateTaskResult, error) {
	if input.Title == "" {
		return nil, errors.New("title is required")
	}
	due, err := ts.parseOptionalDue(input.DueDate)
	if err != nil {
		return nil, err
	}
	return ts.app.CreateTaskHandler.Handle(ctx, commands.CreateTaskCommand{
		UserID:          ts.app.CurrentUserID,
		Title:           input.Title,
		Description:     input.Description,
		Priority:        input.Priority,
		EstimateMinutes: input.EstimateMinutes,
		DueDate:         due,
		Tags:            input.Tags,
		Category:        input.Category,
	})
}

func (ts *toolset) listTasks(ctx context.Context, input taskListInput) ([]queries.TaskDTO, error) {
	return ts.app.ListTasksHandler.Handle(ctx, queries.ListTasksQuery{
		UserID:   ts.app.CurrentUserID,
		Status:   input.Status,
		Priority: input.Priority,
		Tag:      input.Tag,
		SortBy:   input.SortBy,
		Limit:    input.Limit,
	})
}

func (ts *toolset) getTask(ctx context.Context, input taskIDInput) (*queries.TaskDTO, error) {
	taskID, err := parseUUID(input.TaskID)
	if err != nil {
		return nil, err
	}
	return ts.app.GetTaskHandler.Handle(ctx, queries.GetTaskQuery{TaskID: taskID, UserID: ts.app.CurrentUserID})
}

func (ts *toolset) startTask(ctx context.Context, input taskIDInput) (*taskChanged, error) {
	taskID, err := parseUUID(input.TaskID)
	if err != nil {
		return nil, err
	}
	if err := ts.app.StartTaskHandler.Handle(ctx, commands.StartTaskCommand{
		TaskID: taskID,
		UserID: ts.app.CurrentUserID,
	}); err != nil {
		return nil, err
	}
	return &taskChanged{TaskID: taskID, Status: "in_progress"}, nil
}

func (ts *toolset) completeTask(ctx context.Context, input taskIDInput) (*taskChanged, error) {
	taskID, err := parseUUID(input.TaskID)
	if err != nil {
		return nil, err
	}
	if err := ts.app.CompleteTaskHandler.Handle(ctx, commands.CompleteTaskCommand{
		TaskID: taskID,
		UserID: ts.app.CurrentUserID,
	}); err != nil {
		return nil, err
	}
	return &taskChanged{TaskID: taskID, Status: "completed"}, nil
}

func (ts *toolset) postponeTask(ctx context.Context, input taskPostponeInput) (*queries.TaskDTO, error) {
	taskID, err := parseUUID(input.TaskID)
	if err != nil {
		return nil, err
	}
	due, err := ts.parseOptionalDue(input.DueDate)
	if err != nil {
		return nil, err
	}
	if due == nil {
		return nil, errors.New("due_date is required")
	}
	cmd := commands.PostponeTaskCommand{TaskID: taskID, UserID: ts.app.CurrentUserID, NewDue: *due}
	if input.StartDate != "" {
		start, err := ts.parseDate(input.StartDate)
		if err != nil {
			return nil, err
		}
		cmd.NewStart = &start
	}
	t, err := ts.app.PostponeTaskHandler.Handle(ctx, cmd)
	if err != nil {
		return nil, err
	}
	dto := queries.ToTaskDTO(t)
	return &dto, nil
}

func (ts *toolset) updateTask(ctx context.Context, input taskUpdateInput) (*queries.TaskDTO, error) {
	taskID, err := parseUUID(input.TaskID)
	if err != nil {
		return nil, err
	}
	due, err := ts.parseOptionalDue(input.DueDate)
	if err != nil {
		return nil, err
	}
	t, err := ts.app.UpdateTaskHandler.Handle(ctx, commands.UpdateTaskCommand{
		TaskID:          taskID,
		UserID:          ts.app.CurrentUserID,
		Title:           input.Title,
		Description:     input.Description,
		Priority:        input.Priority,
		EstimateMinutes: input.EstimateMinutes,
		DueDate:         due,
		ClearDueDate:    input.ClearDueDate,
		Tags:            input.Tags,
		Category:        input.Category,
	})
	if err != nil {
		return nil, err
	}
	dto := queries.ToTaskDTO(t)
	return &dto, nil
}

func (ts *toolset) deleteTask(ctx context.Context, input taskIDInput) (*taskChanged, error) {
	taskID, err := parseUUID(input.TaskID)
	if err != nil {
		return nil, err
	}
	if err := ts.app.DeleteTaskHandler.Handle(ctx, commands.DeleteTaskCommand{
		TaskID: taskID,
		UserID: ts.app.CurrentUserID,
	}); err != nil {
		return nil, err
	}
	return &taskChanged{TaskID: taskID, Status: "deleted"}, nil
}

func (ts *toolset) overdueTasks(ctx context.Context, _ struct{}) ([]queries.TaskDTO, error) {
	return ts.app.ListOverdueHandler.Handle(ctx, queries.ListOverdueQuery{
		UserID: ts.app.CurrentUserID,
		Now:    ts.now(),
	})
}

func (ts *toolset) upcomingTasks(ctx context.Context, input upcomingInput) ([]queries.TaskDTO, error) {
	days := input.Days
	if days <= 0 {
		days = 7
	}
	return ts.app.ListUpcomingHandler.Handle(ctx, queries.ListUpcomingQuery{
		UserID: ts.app.CurrentUserID,
		Days:   days,
		Now:    ts.now(),
	})
}

func (ts *toolset) taskStats(ctx context.Context, input statsInput) (*queries.ProductivityStats, error) {
	days := input.Days
	if days <= 0 {
		days = 30
	}
	end := ts.now()
	return ts.app.StatsHandler.Handle(ctx, queries.ProductivityStatsQuery{
		UserID: ts.app.CurrentUserID,
		Start:  end.AddDate(0, 0, -days),
		End:    end,
	})
}
