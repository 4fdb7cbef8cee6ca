package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/productivity/application/commands"
	"github.com/spf13/cobra"
)

var (
	priority    string
	estimate    int
	description string
	dueDate     string
	tags        []string
	category    string
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Create a new task",
	Long: `Create a new task with a title and optional properties. Without
--priority the default priority from your preferences is used.

Examples:
  cadence task add "Complete project report"
  cadence task add "Review PR" -p high -e 30
  cadence task add "Write docs" --due 2025-03-01 --tag docs`,
	Aliases: []string{"create", "new"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		createCmd := commands.CreateTaskCommand{
			UserID:          app.CurrentUserID,
			Title:           args[0],
			Description:     description,
			Priority:        priority,
			EstimateMinutes: estimate,
			Tags:            tags,
			Category:        category,
		}
		if dueDate != "" {
			due, err := cli.ParseDate(dueDate, time.Now(), time.Local)
			if err != nil {
				return err
			}
			// A due date means the end of that day.
			due = due.AddDate(0, 0, 1).Add(-time.Minute)
			createCmd.DueDate = &due
		}

		result, err := app.CreateTaskHandler.Handle(cmd.Context(), createCmd)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Task created: %s\n", result.TaskID)
		fmt.Fprintf(out, "  title: %s\n", args[0])
		if priority != "" {
			fmt.Fprintf(out, "  priority: %s\n", strings.ToLower(priority))
		}
		if estimate > 0 {
			fmt.Fprintf(out, "  estimate: %d minutes\n", estimate)
		}
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&priority, "priority", "p", "", "task priority (low, medium, high)")
	addCmd.Flags().IntVarP(&estimate, "estimate", "e", 0, "estimated duration in minutes")
	addCmd.Flags().StringVar(&description, "description", "", "task description")
	addCmd.Flags().StringVar(&dueDate, "due", "", "due date (YYYY-MM-DD, today, tomorrow)")
	addCmd.Flags().StringSliceVar(&tags, "tag", nil, "tag (repeatable)")
	addCmd.Flags().StringVar(&category, "category", "", "task category")
}
