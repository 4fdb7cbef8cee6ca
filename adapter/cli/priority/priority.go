package priority

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/scheduling/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Cmd is the priority command group.
var Cmd = &cobra.Command{
	Use:   "priority",
	Short: "Advisor priority suggestions",
	Long: `Ask the advisor for priority suggestions and accept the ones you agree
with. Suggestions are stored next to a task and never change it until
committed.`,
}

var commitAll bool

var reprioritizeCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Ask the advisor about every open task",
	Long: `Ask the advisor for a priority and start time for each open task and
store the answers as suggestions. With --commit the suggested priorities
are applied right away.

Examples:
  cadence priority suggest
  cadence priority suggest --commit`,
	Aliases: []string{"reprioritize", "advise"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		result, err := app.ReprioritizeHandler.Handle(cmd.Context(), commands.ReprioritizeCommand{
			UserID: app.CurrentUserID,
			Commit: commitAll,
		})
		if errors.Is(err, commands.ErrNoAdvisor) {
			return fmt.Errorf("%w: set ADVISOR_URL to enable suggestions", err)
		}
		if errors.Is(err, commands.ErrAIDisabled) {
			return fmt.Errorf("%w: run 'cadence prefs ai on' to enable them", err)
		}
		if err != nil {
			return fmt.Errorf("failed to collect suggestions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(result.Advisories) == 0 {
			fmt.Fprintln(out, "No open tasks.")
			return nil
		}
		for _, a := range result.Advisories {
			marker := ""
			if a.Fallback {
				marker = " (advisor unavailable, kept current)"
			}
			fmt.Fprintf(out, "%s %s: %s -> %s at %s%s\n",
				cli.ShortID(a.Task.ID()),
				a.Task.Title(),
				a.Task.Priority(),
				a.Advisory.Priority,
				a.Advisory.ScheduledTime.Local().Format("2006-01-02 15:04"),
				marker,
			)
			if a.Advisory.Insight != "" {
				fmt.Fprintf(out, "    %s\n", a.Advisory.Insight)
			}
		}
		fmt.Fprintf(out, "\n%d suggestions, %d fallbacks", len(result.Advisories), result.Fallbacks)
		if commitAll {
			fmt.Fprintf(out, ", %d priorities changed", result.Committed)
		}
		fmt.Fprintln(out)
		return nil
	},
}

var commitCmd = &cobra.Command{
	Use:   "commit [task-id]",
	Short: "Accept the stored suggestion for a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		taskID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid task ID: %w", err)
		}

		t, err := app.CommitSuggestionHandler.Handle(cmd.Context(), commands.CommitSuggestionCommand{
			TaskID: taskID,
			UserID: app.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to commit suggestion: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Priority of %q is now %s\n", t.Title(), t.Priority())
		return nil
	},
}

func init() {
	reprioritizeCmd.Flags().BoolVar(&commitAll, "commit", false, "apply suggested priorities immediately")

	Cmd.AddCommand(reprioritizeCmd)
	Cmd.AddCommand(commitCmd)
}
