package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/autodev/autodev/internal/api"
	"github.com/autodev/autodev/internal/ui"
	"github.com/autodev/autodev/pkg/config"
)

// NewStopCmd creates a stop command
func NewStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running job",
		Long: `Ask the deployment engine to stop the current job.

The engine marks the job STOPPED; a dashboard polling it will show the change
on its next poll.

Example:
  autodev stop
  autodev stop --api-url http://engine.internal:8000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, err := config.GetConfigFromContext(cmd)
			if err != nil {
				return ui.NewValidationError(fmt.Errorf("failed to get config: %w", err))
			}

			client, err := api.NewClient(cfg)
			if err != nil {
				return ui.NewConfigurationError(fmt.Errorf("failed to create API client: %w", err))
			}

			return runStop(cmd, client)
		},
	}
}

func runStop(cmd *cobra.Command, client api.Client) error {
	spinner := ui.NewSimpleSpinner(os.Stderr, "Stopping job...")
	spinner.Start()
	err := client.Stop(cmd.Context())
	spinner.Stop()

	if err != nil {
		return ui.NewAPIError(fmt.Errorf("failed to stop job: %w", err))
	}

	//nolint:errcheck // Writing to stdout, error not actionable
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Stop signal sent")
	return nil
}
