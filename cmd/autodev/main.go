package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/autodev/autodev/internal/commands"
	"github.com/autodev/autodev/internal/ui"
	autodev_bugsnag "github.com/autodev/autodev/pkg/bugsnag"
)

func main() {
	// Initialize Bugsnag error tracking
	if err := autodev_bugsnag.Initialize(); err != nil {
		// Don't fail if Bugsnag initialization fails, just log it
		fmt.Fprintf(os.Stderr, "Warning: Failed to initialize error tracking: %v\n", err)
	}

	// Recover from panics and report them to Bugsnag
	defer autodev_bugsnag.NotifyOnPanic(context.Background())

	rootCmd := commands.NewRootCmd()
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	uiErr, isUIErr := ui.AsUIError(err)

	errMsg := err.Error()
	switch {
	case strings.HasPrefix(errMsg, "unknown command"):
		// Unknown command - we've suppressed usage for commands, so we need to manually do this
		_ = rootCmd.Usage()
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, err)
	case isUIErr && uiErr.SilentExit:
		// Already rendered by the command
	default:
		// Unknown flags land here too; Cobra already showed usage for them
		fmt.Fprintln(os.Stderr, "Error:", err)
	}

	if isUIErr {
		os.Exit(uiErr.ExitCode())
	}
	os.Exit(1)
}
