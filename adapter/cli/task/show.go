package task

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/productivity/application/queries"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:     "show [task-id]",
	Short:   "Show task details",
	Aliases: []string{"get", "view"},
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

		t, err := app.GetTaskHandler.Handle(cmd.Context(), queries.GetTaskQuery{
			TaskID: taskID,
			UserID: app.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to get task: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Task: %s\n", t.ID)
		fmt.Fprintf(out, "  Title:       %s\n", t.Title)
		fmt.Fprintf(out, "  Status:      %s\n", t.Status)
		fmt.Fprintf(out, "  Priority:    %s\n", t.Priority)
		fmt.Fprintf(out, "  Estimate:    %d min\n", t.EstimateMinutes)
		if t.Description != "" {
			fmt.Fprintf(out, "  Description: %s\n", t.Description)
		}
		if t.StartDate != nil {
			fmt.Fprintf(out, "  Start:       %s\n", t.StartDate.Format("2006-01-02 15:04"))
		}
		if t.DueDate != nil {
			fmt.Fprintf(out, "  Due:         %s\n", t.DueDate.Format("2006-01-02 15:04"))
		}
		if len(t.Tags) > 0 {
			fmt.Fprintf(out, "  Tags:        %s\n", strings.Join(t.Tags, ", "))
		}
		if t.Category != "" {
			fmt.Fprintf(out, "  Category:    %s\n", t.Category)
		}
		if t.CompletedAt != nil {
			fmt.Fprintf(out, "  Completed:   %s\n", t.CompletedAt.Format("2006-01-02 15:04"))
		}
		fmt.Fprintf(out, "  Created:     %s\n", t.CreatedAt.Format("2006-01-02 15:04"))
		if a := t.Advisory; a != nil {
			fmt.Fprintln(out, "  Advisory:")
			fmt.Fprintf(out, "    Priority:  %s\n", a.Priority)
			fmt.Fprintf(out, "    Start at:  %s\n", a.ScheduledTime.Format("2006-01-02 15:04"))
			fmt.Fprintf(out, "    Insight:   %s\n", a.Insight)
		}
		return nil
	},
}
