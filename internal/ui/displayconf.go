package ui

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// DisplayConfigContextKey is the key used to store DisplayConfig in context
type DisplayConfigContextKey struct{}

// GetDisplayConfigContextKey returns the key used to store DisplayConfig in context
func GetDisplayConfigContextKey() DisplayConfigContextKey {
	return DisplayConfigContextKey{}
}

// DisplayConfig decides between the full-screen dashboard and line output.
type DisplayConfig struct {
	DisableAnimation bool
	IsInteractive    bool
}

// SimpleOutput reports whether commands should print plain lines instead of running a TUI.
func (d DisplayConfig) SimpleOutput() bool {
	return !d.IsInteractive || d.DisableAnimation
}

// terminalFacts is what the environment tells us about stdout and stderr.
type terminalFacts struct {
	stdoutIsTTY        bool
	stderrSameAsStdout bool
}

// displayFlags are the user's display-related persistent flags.
type displayFlags struct {
	noColor          bool
	noAnsi           bool
	disableAnimation bool
	verbose          bool
}

// resolveDisplay combines flags and terminal facts.
//
// The dashboard needs stdout to be a terminal and animations enabled. Verbose
// logs go to stderr, so they only force line output when stderr and stdout
// share a device (otherwise `--verbose 2>debug.log` keeps the dashboard).
func resolveDisplay(flags displayFlags, facts terminalFacts) DisplayConfig {
	disableAnimation := flags.noColor || flags.noAnsi || flags.disableAnimation
	verboseForcesSimple := flags.verbose && facts.stderrSameAsStdout

	return DisplayConfig{
		DisableAnimation: disableAnimation,
		IsInteractive:    facts.stdoutIsTTY && !disableAnimation && !verboseForcesSimple,
	}
}

// NewDisplayConfig extracts display options from persistent flags and TTY detection
func NewDisplayConfig(cmd *cobra.Command, verbose bool) (DisplayConfig, error) {
	flags := displayFlags{verbose: verbose}
	flags.noColor, _ = cmd.Flags().GetBool("no-color")
	flags.noAnsi, _ = cmd.Flags().GetBool("no-ansi")
	flags.disableAnimation, _ = cmd.Flags().GetBool("disable-animation")

	facts := terminalFacts{stdoutIsTTY: isatty.IsTerminal(os.Stdout.Fd())}
	if stdoutStat, err := os.Stdout.Stat(); err == nil {
		if stderrStat, err := os.Stderr.Stat(); err == nil {
			facts.stderrSameAsStdout = os.SameFile(stdoutStat, stderrStat)
		}
	}

	opts := resolveDisplay(flags, facts)

	slog.Debug("Display options determined",
		"command", cmd.Name(),
		"no-color-flag", flags.noColor,
		"no-ansi-flag", flags.noAnsi,
		"disable-animation-flag", flags.disableAnimation,
		"verbose-flag", verbose,
		"stdout-is-tty", facts.stdoutIsTTY,
		"stderr-same-as-stdout", facts.stderrSameAsStdout,
		"is-interactive", opts.IsInteractive,
		"simple-output", opts.SimpleOutput(),
	)

	return opts, nil
}

// GetDisplayConfigFromContext retrieves DisplayConfig from the command context
func GetDisplayConfigFromContext(cmd *cobra.Command) (DisplayConfig, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return DisplayConfig{}, fmt.Errorf("command context is nil")
	}

	opts, ok := ctx.Value(GetDisplayConfigContextKey()).(DisplayConfig)
	if !ok {
		return DisplayConfig{}, fmt.Errorf("display options not found in context")
	}

	return opts, nil
}
