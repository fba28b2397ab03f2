package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	configCmd "github.com/autodev/autodev/internal/commands/config"
	"github.com/autodev/autodev/internal/ui"
	"github.com/autodev/autodev/internal/version"
	"github.com/autodev/autodev/pkg/bugsnag"
	"github.com/autodev/autodev/pkg/config"
	"github.com/autodev/autodev/pkg/logrium"
)

// commands that never trigger the update check
var skipVersionCheck = map[string]bool{
	"version": true,
	"config":  true,
	"serve":   true,
}

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "autodev",
		Short: "autodev CLI",
		Long:  "Deployment control panel: deploy a repository, follow its logs and stop it",
		// Silence errors - we handle them in main.go
		// Note: SilenceUsage is NOT set here so unknown commands show usage.
		// Individual commands set cmd.SilenceUsage = true to hide usage on errors.
		SilenceErrors: true,
		// Load config once and store in context for all subcommands
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")

			displayOpts, err := ui.NewDisplayConfig(cmd, verbose)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error getting display options: %v\n", err)
				os.Exit(1)
			}

			// Config is needed for the log level, so it loads before the logger
			cfg, err := config.Load()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
				os.Exit(1)
			}

			if apiURL, _ := cmd.Flags().GetString("api-url"); apiURL != "" {
				cfg.SetAPIURLOverride(apiURL)
			}

			if verbose {
				logFile, err := logrium.Setup(displayOpts.IsInteractive, cfg.GetLogLevel())
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error setting up logger: %v\n", err)
					os.Exit(1)
				}
				if logFile != "" {
					fmt.Fprintf(os.Stderr, "Debug logs: %s\n", logFile)
				}
			} else {
				logrium.Disable()
			}

			slog.Debug("Config loaded successfully", "api_url", cfg.GetAPIURL())

			bugsnag.SetCommandContext(cmd.Name(), args)

			ctx := context.WithValue(cmd.Context(), config.GetContextKey(), cfg)
			ctx = context.WithValue(ctx, ui.GetDisplayConfigContextKey(), displayOpts)
			cmd.SetContext(ctx)

			if !skipVersionCheck[cmd.Name()] {
				version.PrintUpdateNotification(cmd.Context(), os.Stderr, cfg.SkipVersionCheck)
			}
		},
	}

	// Global flags (persistent flags are inherited by all subcommands)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output and animations")
	rootCmd.PersistentFlags().Bool("no-ansi", false, "Disable colored output and animations (equivalent to --no-color)")
	rootCmd.PersistentFlags().String("api-url", "", "Deployment engine address (default "+config.DefaultAPIURL+")")

	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewDeployCmd())
	rootCmd.AddCommand(NewStatusCmd())
	rootCmd.AddCommand(NewStopCmd())
	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewVersionCmd())
	rootCmd.AddCommand(configCmd.NewConfigCmd())

	return rootCmd
}
