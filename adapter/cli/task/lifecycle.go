package task

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/productivity/application/commands"
	"github.com/felixgeelhaar/cadence/internal/productivity/application/queries"
	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:     "done [task-id]",
	Short:   "Mark a task as completed",
	Aliases: []string{"complete", "finish"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		taskID, err := parseTaskID(args[0])
		if err != nil {
			return err
		}

		if err := app.CompleteTaskHandler.Handle(cmd.Context(), commands.CompleteTaskCommand{
			TaskID: taskID,
			UserID: app.CurrentUserID,
		}); err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Task completed: %s\n", taskID)
		return nil
	},
}

var startCmd = &cobra.Command{
	Use:   "start [task-id]",
	Short: "Mark a task as in progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		taskID, err := parseTaskID(args[0])
		if err != nil {
			return err
		}

		if err := app.StartTaskHandler.Handle(cmd.Context(), commands.StartTaskCommand{
			TaskID: taskID,
			UserID: app.CurrentUserID,
		}); err != nil {
			return fmt.Errorf("failed to start task: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Task started: %s\n", taskID)
		return nil
	},
}

var (
	postponeDue   string
	postponeStart string
)

var postponeCmd = &cobra.Command{
	Use:   "postpone [task-id]",
	Short: "Push a task to a later date",
	Long: `Postpone a task. Without flags the due date moves one day later.
A start date keeps the task out of plans before that day.

Examples:
  cadence task postpone 3f2a...
  cadence task postpone 3f2a... --due 2025-03-10 --start 2025-03-08`,
	Aliases: []string{"defer"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		taskID, err := parseTaskID(args[0])
		if err != nil {
			return err
		}

		now := time.Now()
		var due time.Time
		if postponeDue != "" {
			day, err := cli.ParseDate(postponeDue, now, time.Local)
			if err != nil {
				return err
			}
			due = day.AddDate(0, 0, 1).Add(-time.Minute)
		} else {
			current, err := app.GetTaskHandler.Handle(cmd.Context(), queries.GetTaskQuery{
				TaskID: taskID,
				UserID: app.CurrentUserID,
			})
			if err != nil {
				return fmt.Errorf("failed to get task: %w", err)
			}
			due = nextDue(current.DueDate, now)
		}

		postpone := commands.PostponeTaskCommand{TaskID: taskID, UserID: app.CurrentUserID, NewDue: due}
		if postponeStart != "" {
			start, err := cli.ParseDate(postponeStart, now, time.Local)
			if err != nil {
				return err
			}
			postpone.NewStart = &start
		}

		t, err := app.PostponeTaskHandler.Handle(cmd.Context(), postpone)
		if err != nil {
			return fmt.Errorf("failed to postpone task: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Task postponed: %s\n", t.ID())
		if d := t.DueDate(); d != nil {
			fmt.Fprintf(out, "  due: %s\n", d.Format("2006-01-02 15:04"))
		}
		if s := t.StartDate(); s != nil {
			fmt.Fprintf(out, "  start: %s\n", s.Format(cli.DateLayout))
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete [task-id]",
	Short:   "Delete a task",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		taskID, err := parseTaskID(args[0])
		if err != nil {
			return err
		}

		if err := app.DeleteTaskHandler.Handle(cmd.Context(), commands.DeleteTaskCommand{
			TaskID: taskID,
			UserID: app.CurrentUserID,
		}); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Task deleted: %s\n", taskID)
		return nil
	},
}

// nextDue moves a due date one day out, or to the end of tomorrow when the
// task has none.
func nextDue(current *time.Time, now time.Time) time.Time {
	if current != nil {
		return current.AddDate(0, 0, 1)
	}
	local := now.In(time.Local)
	return time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 0, 0, time.Local).AddDate(0, 0, 1)
}

func init() {
	postponeCmd.Flags().StringVar(&postponeDue, "due", "", "new due date (YYYY-MM-DD, today, tomorrow)")
	postponeCmd.Flags().StringVar(&postponeStart, "start", "", "do not plan the task before this date")
}
