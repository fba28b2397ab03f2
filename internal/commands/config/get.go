package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autodev/autodev/internal/ui"
	"github.com/autodev/autodev/pkg/config"
)

func newGetCmd() *cobra.Command {
	var showSource bool

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Print the value the CLI uses for a configuration key.

Unset keys print their default. AUTODEV_API_URL overrides api-url.

Examples:
  autodev config get api-url
  autodev config get poll-interval --source`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, args[0], showSource)
		},
	}

	cmd.Flags().BoolVar(&showSource, "source", false, "Also print where the value comes from")

	return cmd
}

func runGet(cmd *cobra.Command, given string, showSource bool) error {
	cmd.SilenceUsage = true

	key := normalizeKey(given)
	if !config.IsValidUserFacingKey(key) {
		return ui.NewValidationError(fmt.Errorf("'%s' is not a recognized configuration key. Run 'autodev config set --help' for valid keys", given))
	}

	value, source := effectiveValue(key)

	out := cmd.OutOrStdout()
	if showSource {
		//nolint:errcheck // Writing to stdout, error not actionable
		fmt.Fprintf(out, "%v (%s)\n", value, source)
		return nil
	}
	//nolint:errcheck // Writing to stdout, error not actionable
	fmt.Fprintln(out, value)
	return nil
}
