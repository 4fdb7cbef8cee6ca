package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/scheduling/application/queries"
	"github.com/spf13/cobra"
)

var minMinutes int

var freeCmd = &cobra.Command{
	Use:   "free [date]",
	Short: "Show free time in a day's working hours",
	Long: `List the stretches of a day's working hours that are not blocked
by your calendar.

Examples:
  cadence schedule free
  cadence schedule free tomorrow --min 30`,
	Aliases: []string{"available", "slots"},
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		date, err := cli.ParseDate(dayArg(args), time.Now(), time.Local)
		if err != nil {
			return err
		}

		result, err := app.FindFreeTimeHandler.Handle(cmd.Context(), queries.FindFreeTimeQuery{
			UserID:      app.CurrentUserID,
			Date:        date,
			MinDuration: time.Duration(minMinutes) * time.Minute,
		})
		if err != nil {
			return fmt.Errorf("failed to find free time: %w", err)
		}

		out := cmd.OutOrStdout()
		loc := result.Day.Location()
		fmt.Fprintf(out, "Free time on %s\n", result.Day.Format("Monday, January 2, 2006"))
		fmt.Fprintln(out, strings.Repeat("=", 60))

		if len(result.Slots) == 0 {
			note := result.Note
			if note == "" {
				note = "no free time"
			}
			fmt.Fprintf(out, "\n  %s\n", note)
		}
		var total int
		for _, slot := range result.Slots {
			fmt.Fprintf(out, "  %s - %s  (%dm)\n", clock(slot.Start, loc), clock(slot.End, loc), slot.DurationMin)
			total += slot.DurationMin
		}
		if total > 0 {
			fmt.Fprintf(out, "\nTotal: %s\n", time.Duration(total)*time.Minute)
		}
		if result.Degraded {
			fmt.Fprintln(out, "\nWarning: calendar unavailable, busy time not included")
		}
		return nil
	},
}

func init() {
	freeCmd.Flags().IntVarP(&minMinutes, "min", "m", 0, "hide gaps shorter than this many minutes")
}
