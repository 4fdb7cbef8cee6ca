package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var outboxCmd = &cobra.Command{
	Use:   "outbox",
	Short: "Inspect and deliver queued events",
}

var outboxDrainCmd = &cobra.Command{
	Use:   "drain",
	Short: "Deliver every pending event now",
	Long: `Publish all pending outbox events once and exit. The worker does this
continuously; drain is for local mode and scripts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		if app.OutboxProcessor == nil {
			return fmt.Errorf("outbox processor not configured")
		}

		before := app.OutboxProcessor.Stats()
		if err := app.OutboxProcessor.Drain(cmd.Context()); err != nil {
			return fmt.Errorf("failed to drain outbox: %w", err)
		}
		after := app.OutboxProcessor.Stats()

		fmt.Fprintf(cmd.OutOrStdout(), "Published %d, failed %d, dead-lettered %d\n",
			after.Published-before.Published,
			after.Failed-before.Failed,
			after.Dead-before.Dead,
		)
		return nil
	},
}

func init() {
	outboxCmd.AddCommand(outboxDrainCmd)
	rootCmd.AddCommand(outboxCmd)
}
