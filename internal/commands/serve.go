package commands

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/autodev/autodev/internal/jobserver"
	"github.com/autodev/autodev/internal/ui"
	"github.com/autodev/autodev/pkg/config"
)

type serveOptions struct {
	addr      string
	stepDelay time.Duration
}

// NewServeCmd creates a serve command
func NewServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local simulated deployment engine",
		Long: `Run an in-memory deployment engine that answers /deploy, /status and /stop.

Jobs walk a scripted pipeline (clone, build, launch, run) with --step-delay
between steps and end in SUCCESS. Repository URLs containing "broken" crash
and end in FAILED. Use it to try the dashboard without a real engine.

Example:
  autodev serve
  autodev serve --addr 127.0.0.1:9000 --step-delay 250ms
  autodev deploy --api-url http://127.0.0.1:9000 --repo https://github.com/acme/app`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8000", "Address to listen on")
	cmd.Flags().DurationVar(&opts.stepDelay, "step-delay", time.Second, "Delay between pipeline steps")

	return cmd
}

func runServe(cmd *cobra.Command, opts serveOptions) error {
	cmd.SilenceUsage = true

	if opts.stepDelay < 0 {
		return ui.NewValidationError(fmt.Errorf("--step-delay must not be negative"))
	}

	level := slog.LevelInfo
	if cfg, err := config.GetConfigFromContext(cmd); err == nil {
		level = cfg.GetLogLevel()
	}

	// Server logs always go to stderr, independent of --verbose
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine := jobserver.NewEngine(opts.stepDelay, logger)
	server := jobserver.NewServer(engine, logger)

	if err := server.ListenAndServe(ctx, opts.addr); err != nil {
		return ui.NewInternalError(err)
	}
	return nil
}
