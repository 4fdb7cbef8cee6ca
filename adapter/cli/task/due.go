package task

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/productivity/application/queries"
	"github.com/spf13/cobra"
)

var overdueCmd = &cobra.Command{
	Use:   "overdue",
	Short: "List unfinished tasks past their due date",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		tasks, err := app.ListOverdueHandler.Handle(cmd.Context(), queries.ListOverdueQuery{
			UserID: app.CurrentUserID,
			Now:    time.Now(),
		})
		if err != nil {
			return fmt.Errorf("failed to list overdue tasks: %w", err)
		}
		printTasks(cmd, "Overdue", tasks)
		return nil
	},
}

var upcomingDays int

var upcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "List tasks due in the next few days",
	Long: `List unfinished tasks due within the given number of days.

Examples:
  cadence task upcoming
  cadence task upcoming --days 14`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		tasks, err := app.ListUpcomingHandler.Handle(cmd.Context(), queries.ListUpcomingQuery{
			UserID: app.CurrentUserID,
			Days:   upcomingDays,
			Now:    time.Now(),
		})
		if err != nil {
			return fmt.Errorf("failed to list upcoming tasks: %w", err)
		}
		printTasks(cmd, fmt.Sprintf("Due in the next %d days", upcomingDays), tasks)
		return nil
	},
}

func init() {
	upcomingCmd.Flags().IntVarP(&upcomingDays, "days", "d", 7, "look-ahead window in days")
}
