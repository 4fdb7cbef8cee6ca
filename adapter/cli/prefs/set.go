package prefs

import (
	"fmt"
	"strconv"
	"time"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/preferences/domain"
	"github.com/spf13/cobra"
)

var hoursOff bool

var hoursCmd = &cobra.Command{
	Use:   "hours <day> [start end]",
	Short: "Set working hours for a weekday",
	Long: `Set the working window for one weekday, or mark it as a day off.

Examples:
  cadence prefs hours monday 08:30 16:30
  cadence prefs hours sat --off`,
	Args: cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		day, err := parseWeekday(args[0])
		if err != nil {
			return err
		}

		if hoursOff {
			if _, err := app.PreferencesService.ClearWorkingHours(cmd.Context(), app.CurrentUserID, day); err != nil {
				return fmt.Errorf("failed to update working hours: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now a day off.\n", day)
			return nil
		}
		if len(args) != 3 {
			return fmt.Errorf("need start and end times, or --off")
		}
		if _, err := app.PreferencesService.SetWorkingHours(cmd.Context(), app.CurrentUserID, day, args[1], args[2]); err != nil {
			return fmt.Errorf("failed to update working hours: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Working hours for %s: %s - %s\n", day, args[1], args[2])
		return nil
	},
}

var (
	breakEvery   int
	breakMinutes int
)

var breaksCmd = &cobra.Command{
	Use:   "breaks",
	Short: "Set the break policy",
	Long: `Insert a break after every N scheduled tasks. Use --every 0 to turn breaks off.

Examples:
  cadence prefs breaks --every 2 --minutes 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		p, err := app.PreferencesService.SetBreakPolicy(cmd.Context(), app.CurrentUserID, breakEvery, time.Duration(breakMinutes)*time.Minute)
		if err != nil {
			return fmt.Errorf("failed to update break policy: %w", err)
		}
		if !p.BreakPolicy.Enabled() {
			fmt.Fprintln(cmd.OutOrStdout(), "Breaks turned off.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Breaks: %s every %d tasks\n", p.BreakPolicy.Duration, p.BreakPolicy.EveryNTasks)
		return nil
	},
}

var weights domain.PriorityWeights

var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Set the ranking weights",
	Long: `Set how much each term counts when tasks are ranked. Weights must be
non-negative.

Examples:
  cadence prefs weights --deadline 0.5 --importance 0.3 --effort 0.1 --dependencies 0.1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		if _, err := app.PreferencesService.SetWeights(cmd.Context(), app.CurrentUserID, weights); err != nil {
			return fmt.Errorf("failed to update weights: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Weights saved.")
		return nil
	},
}

var timezoneCmd = &cobra.Command{
	Use:     "timezone <iana-name>",
	Short:   "Set the timezone working hours are read in",
	Aliases: []string{"tz"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		if _, err := app.PreferencesService.SetTimezone(cmd.Context(), app.CurrentUserID, args[0]); err != nil {
			return fmt.Errorf("failed to update timezone: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Timezone: %s\n", args[0])
		return nil
	},
}

var durationCmd = &cobra.Command{
	Use:   "duration <minutes|duration>",
	Short: "Set the duration used for tasks without an estimate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		d, err := parseDuration(args[0])
		if err != nil {
			return err
		}
		if _, err := app.PreferencesService.SetDefaultEventDuration(cmd.Context(), app.CurrentUserID, d); err != nil {
			return fmt.Errorf("failed to update default duration: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Default duration: %s\n", d)
		return nil
	},
}

// parseDuration accepts a bare number of minutes or a Go duration.
func parseDuration(s string) (time.Duration, error) {
	if minutes, err := strconv.Atoi(s); err == nil {
		return time.Duration(minutes) * time.Minute, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return d, nil
}

var calendarCmd = &cobra.Command{
	Use:   "calendar <on|off>",
	Short: "Toggle reading busy time from the calendar",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		enabled, err := parseSwitch(args[0])
		if err != nil {
			return err
		}
		if _, err := app.PreferencesService.SetCalendarSync(cmd.Context(), app.CurrentUserID, enabled); err != nil {
			return fmt.Errorf("failed to update calendar sync: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Calendar sync: %s\n", onOff(enabled))
		return nil
	},
}

var aiCmd = &cobra.Command{
	Use:     "ai <on|off>",
	Short:   "Toggle advisor suggestions",
	Aliases: []string{"advisor"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		enabled, err := parseSwitch(args[0])
		if err != nil {
			return err
		}
		if _, err := app.PreferencesService.SetAIEnabled(cmd.Context(), app.CurrentUserID, enabled); err != nil {
			return fmt.Errorf("failed to update advisor setting: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Advisor: %s\n", onOff(enabled))
		return nil
	},
}

func init() {
	hoursCmd.Flags().BoolVar(&hoursOff, "off", false, "mark the day as a day off")

	breaksCmd.Flags().IntVar(&breakEvery, "every", 3, "break after this many tasks (0 = off)")
	breaksCmd.Flags().IntVar(&breakMinutes, "minutes", 15, "break length in minutes")

	defaults := domain.DefaultPriorityWeights()
	weightsCmd.Flags().Float64Var(&weights.Deadline, "deadline", defaults.Deadline, "weight of due date urgency")
	weightsCmd.Flags().Float64Var(&weights.Importance, "importance", defaults.Importance, "weight of task priority")
	weightsCmd.Flags().Float64Var(&weights.Effort, "effort", defaults.Effort, "weight of effort")
	weightsCmd.Flags().Float64Var(&weights.Dependencies, "dependencies", defaults.Dependencies, "weight of dependencies")
}
