package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/productivity/application/queries"
	"github.com/spf13/cobra"
)

var (
	showAll        bool
	status         string
	filterPriority string
	filterTag      string
	sortBy         string
	limit          int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List tasks with optional filtering and sorting.

Filter Options:
  --status      Filter by status (pending, in_progress, completed, postponed)
  --priority    Filter by priority (high, medium, low)
  --tag         Filter by tag

Sort Options:
  --sort        Sort by field (priority, due_date, created_at)

Examples:
  cadence task list                     # Unfinished tasks
  cadence task list --all               # Everything, including completed
  cadence task list --sort priority -n 5`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		query := queries.ListTasksQuery{
			UserID:   app.CurrentUserID,
			Status:   status,
			Priority: filterPriority,
			Tag:      filterTag,
			SortBy:   sortBy,
			Limit:    limit,
		}
		if showAll {
			query.Status = "all"
		}

		tasks, err := app.ListTasksHandler.Handle(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
		printTasks(cmd, "Tasks", tasks)
		return nil
	},
}

func printTasks(cmd *cobra.Command, heading string, tasks []queries.TaskDTO) {
	out := cmd.OutOrStdout()
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks found.")
		return
	}
	fmt.Fprintf(out, "%s (%d):\n", heading, len(tasks))
	fmt.Fprintln(out, strings.Repeat("-", 60))
	now := time.Now()
	for _, t := range tasks {
		cli.PrintTaskLine(out, t, now)
		fmt.Fprintln(out)
	}
}

func init() {
	listCmd.Flags().BoolVarP(&showAll, "all", "a", false, "show all tasks including completed")
	listCmd.Flags().StringVarP(&status, "status", "s", "", "filter by status")
	listCmd.Flags().StringVarP(&filterPriority, "priority", "p", "", "filter by priority (high, medium, low)")
	listCmd.Flags().StringVar(&filterTag, "tag", "", "filter by tag")
	listCmd.Flags().StringVar(&sortBy, "sort", "", "sort by field (priority, due_date, created_at)")
	listCmd.Flags().IntVarP(&limit, "limit", "n", 0, "max number of tasks to show (0 = no limit)")
}
