package prefs

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/preferences/domain"
	"github.com/spf13/cobra"
)

// Cmd is the preferences command group
var Cmd = &cobra.Command{
	Use:     "prefs",
	Short:   "Manage scheduling preferences",
	Long:    `View and change the working hours, breaks, weights and integrations the planner uses.`,
	Aliases: []string{"settings", "preferences"},
}

var prefsJSON bool

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		p, err := app.PreferencesService.Get(cmd.Context(), app.CurrentUserID)
		if err != nil {
			return fmt.Errorf("failed to load preferences: %w", err)
		}
		if prefsJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		}
		printPreferences(cmd.OutOrStdout(), p)
		return nil
	},
}

func printPreferences(out io.Writer, p *domain.Preferences) {
	fmt.Fprintln(out, "Preferences")
	fmt.Fprintln(out, strings.Repeat("=", 40))
	fmt.Fprintf(out, "Timezone:          %s\n", p.Timezone)
	fmt.Fprintln(out, "Working hours:")
	for _, day := range weekdays {
		hours, ok := p.HoursFor(day)
		if !ok {
			fmt.Fprintf(out, "  %-10s off\n", day)
			continue
		}
		fmt.Fprintf(out, "  %-10s %s - %s\n", day, hours.Start, hours.End)
	}
	if p.BreakPolicy.Enabled() {
		fmt.Fprintf(out, "Breaks:            %s every %d tasks\n", p.BreakPolicy.Duration, p.BreakPolicy.EveryNTasks)
	} else {
		fmt.Fprintln(out, "Breaks:            off")
	}
	w := p.PriorityWeights
	fmt.Fprintf(out, "Weights:           deadline=%.2f importance=%.2f effort=%.2f dependencies=%.2f\n",
		w.Deadline, w.Importance, w.Effort, w.Dependencies)
	fmt.Fprintf(out, "Default duration:  %s\n", p.DefaultEventDuration)
	fmt.Fprintf(out, "Default priority:  %s\n", p.DefaultPriority)
	fmt.Fprintf(out, "Calendar sync:     %s\n", onOff(p.CalendarSyncEnabled))
	fmt.Fprintf(out, "Advisor:           %s\n", onOff(p.AIEnabled))
}

// weekdays lists days Monday first.
var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func parseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, d := range weekdays {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}

func init() {
	showCmd.Flags().BoolVar(&prefsJSON, "json", false, "output as JSON")

	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(hoursCmd)
	Cmd.AddCommand(breaksCmd)
	Cmd.AddCommand(weightsCmd)
	Cmd.AddCommand(timezoneCmd)
	Cmd.AddCommand(durationCmd)
	Cmd.AddCommand(calendarCmd)
	Cmd.AddCommand(aiCmd)
}
