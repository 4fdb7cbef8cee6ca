package task

import (
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/productivity/application/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var errNothingToUpdate = errors.New("nothing to update: pass at least one flag")

var (
	updateTitle       string
	updateDescription string
	updatePriority    string
	updateEstimate    int
	updateDue         string
	updateClearDue    bool
	updateTags        []string
	updateCategory    string
)

var updateCmd = &cobra.Command{
	Use:   "update [task-id]",
	Short: "Edit a task",
	Long: `Change the properties of a task. Only the flags you pass are changed.

Examples:
  cadence task update 3f2a... --title "Ship report" -p high
  cadence task update 3f2a... --clear-due`,
	Aliases: []string{"edit"},
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

		update := commands.UpdateTaskCommand{
			TaskID:       taskID,
			UserID:       app.CurrentUserID,
			ClearDueDate: updateClearDue,
		}
		flags := cmd.Flags()
		changed := updateClearDue
		if flags.Changed("title") {
			update.Title = &updateTitle
			changed = true
		}
		if flags.Changed("description") {
			update.Description = &updateDescription
			changed = true
		}
		if flags.Changed("priority") {
			update.Priority = &updatePriority
			changed = true
		}
		if flags.Changed("estimate") {
			update.EstimateMinutes = &updateEstimate
			changed = true
		}
		if flags.Changed("tag") {
			update.Tags = updateTags
			changed = true
		}
		if flags.Changed("category") {
			update.Category = &updateCategory
			changed = true
		}
		if updateDue != "" {
			day, err := cli.ParseDate(updateDue, time.Now(), time.Local)
			if err != nil {
				return err
			}
			due := day.AddDate(0, 0, 1).Add(-time.Minute)
			update.DueDate = &due
			changed = true
		}
		if !changed {
			return errNothingToUpdate
		}

		t, err := app.UpdateTaskHandler.Handle(cmd.Context(), update)
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Task updated: %s\n", t.ID())
		fmt.Fprintf(out, "  title: %s\n", t.Title())
		fmt.Fprintf(out, "  priority: %s\n", t.Priority())
		fmt.Fprintf(out, "  estimate: %d minutes\n", t.Estimate().Minutes())
		return nil
	},
}

func registerUpdateFlags(fs *pflag.FlagSet) {
	fs.StringVar(&updateTitle, "title", "", "new title")
	fs.StringVar(&updateDescription, "description", "", "new description")
	fs.StringVarP(&updatePriority, "priority", "p", "", "new priority (low, medium, high)")
	fs.IntVarP(&updateEstimate, "estimate", "e", 0, "new estimate in minutes")
	fs.StringVar(&updateDue, "due", "", "new due date (YYYY-MM-DD, today, tomorrow)")
	fs.BoolVar(&updateClearDue, "clear-due", false, "remove the due date")
	fs.StringSliceVar(&updateTags, "tag", nil, "replace tags (repeatable)")
	fs.StringVar(&updateCategory, "category", "", "new category")
}

func init() {
	registerUpdateFlags(updateCmd.Flags())
}
