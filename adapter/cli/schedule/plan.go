package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/scheduling/application/commands"
	"github.com/spf13/cobra"
)

var (
	withAdvice bool
	fromNow    bool
)

var planCmd = &cobra.Command{
	Use:   "plan [date]",
	Short: "Build the schedule for a day",
	Long: `Rank your open tasks and place them into the free stretches of the
day's working hours, with breaks after every few tasks. Busy time from
your calendar is left alone when calendar sync is on.

With --advice the advisor is asked for a priority and start time for
each task first. Suggestions are shown and stored on the task, but the
plan itself always uses your own priorities.

Examples:
  cadence schedule plan
  cadence schedule plan tomorrow
  cadence schedule plan 2025-03-04 --advice
  cadence schedule plan --from-now`,
	Aliases: []string{"today", "day"},
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

		result, err := app.ScheduleDayHandler.Handle(cmd.Context(), commands.ScheduleDayCommand{
			UserID:     app.CurrentUserID,
			Date:       date,
			WithAdvice: withAdvice,
			FromNow:    fromNow,
		})
		if err != nil {
			return fmt.Errorf("failed to build schedule: %w", err)
		}

		out := cmd.OutOrStdout()
		sched := result.Schedule
		loc := sched.Day.Location()
		fmt.Fprintf(out, "Schedule for %s\n", sched.Day.Format("Monday, January 2, 2006"))
		fmt.Fprintln(out, strings.Repeat("=", 60))

		if sched.Note != "" {
			fmt.Fprintf(out, "\n  %s\n", sched.Note)
		}

		for _, slot := range sched.Slots {
			fmt.Fprintf(out, "\n%s - %s  %s %s (%dm)\n",
				clock(slot.Start, loc),
				clock(slot.End, loc),
				slot.Title,
				cli.PriorityBadge(slot.Priority.String()),
				int(slot.Duration().Minutes()),
			)
			fmt.Fprintf(out, "   ID: %s\n", slot.TaskID)
		}

		if len(sched.Slots) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, strings.Repeat("-", 60))
			fmt.Fprintf(out, "Scheduled: %s  Utilization: %.0f%%\n",
				sched.ScheduledTime().Round(time.Minute), sched.Utilization()*100)
		}

		if len(sched.Unscheduled) > 0 {
			fmt.Fprintf(out, "\nDid not fit (%d):\n", len(sched.Unscheduled))
			for _, t := range sched.Unscheduled {
				fmt.Fprintf(out, "  - %s (%dm) %s\n", t.Title(), t.Estimate().Minutes(), cli.ShortID(t.ID()))
			}
		}

		if len(result.Advisories) > 0 {
			fmt.Fprintln(out, "\nSuggestions:")
			for _, a := range result.Advisories {
				source := "advisor"
				if a.Fallback {
					source = "fallback"
				}
				fmt.Fprintf(out, "  - %s: %s at %s [%s]\n",
					a.Task.Title(), a.Advisory.Priority, clock(a.Advisory.ScheduledTime, loc), source)
				if a.Advisory.Insight != "" {
					fmt.Fprintf(out, "      %s\n", a.Advisory.Insight)
				}
			}
			fmt.Fprintln(out, "\n  Use 'cadence priority commit <task-id>' to accept a suggestion.")
		}

		if len(sched.Degraded) > 0 {
			fmt.Fprintf(out, "\nWarning: unavailable: %s\n", strings.Join(sched.Degraded, ", "))
		}
		return nil
	},
}

func init() {
	planCmd.Flags().BoolVar(&withAdvice, "advice", false, "ask the advisor for suggestions first")
	planCmd.Flags().BoolVar(&fromNow, "from-now", false, "skip the part of today that has passed")
}
