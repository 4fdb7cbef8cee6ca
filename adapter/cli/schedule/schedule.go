package schedule

import (
	"time"

	"github.com/spf13/cobra"
)

// Cmd is the schedule command group
var Cmd = &cobra.Command{
	Use:   "schedule",
	Short: "Plan your day",
	Long:  `Build a plan for a day from your tasks and see where you are free.`,
}

func init() {
	Cmd.AddCommand(planCmd)
	Cmd.AddCommand(freeCmd)
}

func dayArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func clock(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("15:04")
}
