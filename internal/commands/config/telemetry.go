package config

import (
	"fmt"

	"github.com/autodev/autodev/internal/ui"
	"github.com/autodev/autodev/pkg/config"
	"github.com/spf13/cobra"
)

func newTelemetryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "telemetry",
		Short: "Manage telemetry settings",
		Long: `Manage error reporting for the autodev CLI.

Reporting can also be switched off for a single shell with:
  export AUTODEV_TELEMETRY_DISABLED=true`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "enable",
		Short: "Enable telemetry and error reporting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return setTelemetry(cmd, true)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "disable",
		Short: "Disable telemetry and error reporting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return setTelemetry(cmd, false)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show current telemetry status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cfg, err := config.Load()
			if err != nil {
				return ui.NewConfigurationError(fmt.Errorf("failed to load config: %w", err))
			}
			state := "disabled"
			if cfg.IsTelemetryEnabled() {
				state = "enabled"
			}
			//nolint:errcheck // Writing to stdout, error not actionable
			fmt.Fprintf(cmd.OutOrStdout(), "Telemetry: %s\n", state)
			return nil
		},
	})

	return cmd
}

func setTelemetry(cmd *cobra.Command, enabled bool) error {
	cmd.SilenceUsage = true

	cfg, err := config.Load()
	if err != nil {
		return ui.NewConfigurationError(fmt.Errorf("failed to load config: %w", err))
	}
	cfg.TelemetryEnabled = &enabled

	if err := config.Save(cfg); err != nil {
		return ui.NewFileSystemError(fmt.Errorf("failed to save config: %w", err))
	}

	word := "disabled"
	if enabled {
		word = "enabled"
	}
	//nolint:errcheck // Writing to stdout, error not actionable
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Telemetry %s\n", word)
	return nil
}
