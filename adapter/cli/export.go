package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/emersion/go-ical"
	scheduleCommands "github.com/felixgeelhaar/cadence/internal/scheduling/application/commands"
	schedulingDomain "github.com/felixgeelhaar/cadence/internal/scheduling/domain"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export [date]",
	Short: "Export a day's plan as iCalendar",
	Long: `Plan the day and write every placed task as an event in iCalendar
format, ready to import into Google Calendar, Outlook or Apple Calendar.

Examples:
  cadence export                      # Today's plan to stdout
  cadence export tomorrow -o day.ics  # Tomorrow's plan to a file`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}

		arg := ""
		if len(args) == 1 {
			arg = args[0]
		}
		day, err := ParseDate(arg, time.Now(), time.Local)
		if err != nil {
			return err
		}

		result, err := app.ScheduleDayHandler.Handle(cmd.Context(), scheduleCommands.ScheduleDayCommand{
			UserID: app.CurrentUserID,
			Date:   day,
		})
		if err != nil {
			return fmt.Errorf("failed to plan day: %w", err)
		}
		plan := result.Schedule
		if len(plan.Slots) == 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "Nothing scheduled on %s.\n", day.Format(DateLayout))
			return nil
		}

		if exportOutput == "" {
			return WriteICS(cmd.OutOrStdout(), plan, time.Now())
		}
		f, err := os.OpenFile(exportOutput, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open output: %w", err)
		}
		defer f.Close()
		if err := WriteICS(f, plan, time.Now()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d events to %s\n", len(plan.Slots), exportOutput)
		return nil
	},
}

// WriteICS encodes the placed slots of plan as one VEVENT each. UIDs are
// stable per task and day so re-imports replace earlier exports.
func WriteICS(w io.Writer, plan *schedulingDomain.ScheduleResult, stamp time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//Cadence//Daily Plan//EN")

	for _, slot := range plan.Slots {
		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, fmt.Sprintf("%s-%s@cadence", slot.TaskID, plan.Day.Format("20060102")))
		event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
		event.Props.SetDateTime(ical.PropDateTimeStart, slot.Start.UTC())
		event.Props.SetDateTime(ical.PropDateTimeEnd, slot.End.UTC())
		event.Props.SetText(ical.PropSummary, slot.Title)
		event.Props.SetText(ical.PropDescription, fmt.Sprintf("Priority: %s", slot.Priority))
		event.Props.SetText(ical.PropStatus, "TENTATIVE")
		cal.Children = append(cal.Children, event.Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	rootCmd.AddCommand(exportCmd)
}
