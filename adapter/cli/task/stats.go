package task

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/productivity/application/queries"
	"github.com/spf13/cobra"
)

var statsDays int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task statistics",
	Long: `Summarize the tasks created in the last few days: how many were
completed, how long completion took on average and how many are overdue.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		end := time.Now()
		stats, err := app.StatsHandler.Handle(cmd.Context(), queries.ProductivityStatsQuery{
			UserID: app.CurrentUserID,
			Start:  end.AddDate(0, 0, -statsDays),
			End:    end,
		})
		if err != nil {
			return fmt.Errorf("failed to compute stats: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Last %d days\n", statsDays)
		fmt.Fprintf(out, "  Tasks:           %d\n", stats.Total)
		fmt.Fprintf(out, "  Completed:       %d (%.0f%%)\n", stats.Completed, stats.CompletionRate*100)
		fmt.Fprintf(out, "  Overdue:         %d\n", stats.Overdue)
		if stats.AvgCompletionTime > 0 {
			fmt.Fprintf(out, "  Avg completion:  %s\n", stats.AvgCompletionTime.Round(time.Minute))
		}
		for _, s := range []string{"pending", "in_progress", "postponed"} {
			if n := stats.ByStatus[s]; n > 0 {
				fmt.Fprintf(out, "  %-16s %d\n", s+":", n)
			}
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().IntVarP(&statsDays, "days", "d", 30, "window in days")
}
