package config

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/autodev/autodev/internal/ui"
	"github.com/autodev/autodev/pkg/config"
	"github.com/autodev/autodev/pkg/projectconfig"
)

type editOptions struct {
	project     bool
	projectPath string
}

func newEditCmd() *cobra.Command {
	var opts editOptions

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Open config file in editor",
		Long: `Open the configuration file in your default editor and check it once the
editor exits.

With --project the autodev.toml project file is opened instead.

The editor is determined by (in order):
  1. $EDITOR environment variable (may include arguments, e.g. "code --wait")
  2. $VISUAL environment variable
  3. Falls back to 'vi' on Unix, 'notepad' on Windows

Example:
  autodev config edit
  autodev config edit --project
  EDITOR=nano autodev config edit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.project, "project", false, "Edit the project file instead of the user config")
	cmd.Flags().StringVar(&opts.projectPath, "config-file", "./"+projectconfig.DefaultFileName, "Project file opened by --project")

	return cmd
}

func runEdit(cmd *cobra.Command, opts editOptions) error {
	cmd.SilenceUsage = true

	path, check := userConfigTarget()
	if opts.project {
		path, check = projectTarget(opts.projectPath)
	}
	if path == "" {
		return ui.NewConfigurationError(fmt.Errorf("config file not found"))
	}
	if _, err := os.Stat(path); err != nil {
		return ui.NewFileSystemError(fmt.Errorf("cannot open %s: %w", path, err))
	}

	editor := editorCommand()

	//nolint:errcheck // Writing to stdout, error not actionable
	fmt.Fprintf(cmd.OutOrStdout(), "Opening %s with %s...\n", path, strings.Join(editor, " "))

	args := append(editor[1:], path)
	editorCmd := exec.CommandContext(cmd.Context(), editor[0], args...) //nolint:gosec // Editor from user's environment variable
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return ui.NewInternalError(fmt.Errorf("failed to open editor: %w", err))
	}

	if err := check(); err != nil {
		return ui.NewValidationError(fmt.Errorf("%s has problems, run edit again to fix them: %w", path, err))
	}

	//nolint:errcheck // Writing to stdout, error not actionable
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid\n", path)
	return nil
}

func userConfigTarget() (string, func() error) {
	return viper.ConfigFileUsed(), func() error {
		_, err := config.Load()
		return err
	}
}

func projectTarget(path string) (string, func() error) {
	return path, func() error {
		_, err := projectconfig.Load(path)
		return err
	}
}

// editorCommand splits $EDITOR or $VISUAL into a program and its arguments.
func editorCommand() []string {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			return fields
		}
	}
	if runtime.GOOS == "windows" {
		return []string{"notepad"}
	}
	return []string{"vi"}
}
