package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/felixgeelhaar/cadence/internal/productivity/application/commands"
	"github.com/felixgeelhaar/cadence/internal/productivity/application/queries"
	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done [id-prefix]",
	Short: "Complete a task by the first characters of its ID",
	Long: `Mark a task complete using just the start of its ID, as shown in
listings. Without an argument, the open tasks are listed.

Examples:
  cadence done          # Show open tasks
  cadence done a1b2     # Complete the task whose ID starts with a1b2`,
	Aliases: []string{"finish", "x"},
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}

		open, err := openTasks(cmd.Context(), app)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			if len(open) == 0 {
				fmt.Fprintln(out, "Nothing left to do.")
				return nil
			}
			for _, t := range open {
				fmt.Fprintf(out, "  [%s] %s\n", ShortID(t.ID), t.Title)
			}
			return nil
		}

		prefix := strings.ToLower(args[0])
		var matches []queries.TaskDTO
		for _, t := range open {
			if strings.HasPrefix(t.ID.String(), prefix) {
				matches = append(matches, t)
			}
		}

		switch len(matches) {
		case 0:
			return fmt.Errorf("no open task matches %q", prefix)
		case 1:
			return completeTask(cmd.Context(), out, app, matches[0])
		default:
			fmt.Fprintln(out, "Multiple tasks match. Be more specific:")
			for _, t := range matches {
				fmt.Fprintf(out, "  [%s] %s\n", ShortID(t.ID), t.Title)
			}
			return fmt.Errorf("%d tasks match %q", len(matches), prefix)
		}
	},
}

// openTasks lists tasks that can still be completed.
func openTasks(ctx context.Context, app *App) ([]queries.TaskDTO, error) {
	tasks, err := app.ListTasksHandler.Handle(ctx, queries.ListTasksQuery{
		UserID: app.CurrentUserID,
		Status: "active",
		SortBy: "priority",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func completeTask(ctx context.Context, out io.Writer, app *App, t queries.TaskDTO) error {
	err := app.CompleteTaskHandler.Handle(ctx, commands.CompleteTaskCommand{
		TaskID: t.ID,
		UserID: app.CurrentUserID,
	})
	if err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}
	fmt.Fprintf(out, "Task completed: %s\n", t.Title)
	return nil
}

func init() {
	rootCmd.AddCommand(doneCmd)
}
