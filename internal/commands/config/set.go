package config

import (
	"fmt"
	"sort"
	"time"

	"github.com/autodev/autodev/internal/ui"
	"github.com/autodev/autodev/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value in ~/.autodev/config.yaml

Examples:
  autodev config set api-url http://localhost:8000
  autodev config set poll-interval 500ms
  autodev config set skip-version-check true`,
		Args: cobra.ExactArgs(2),
		RunE: runSet,
	}
}

func runSet(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	key := normalizeKey(args[0])
	if !config.IsValidUserFacingKey(key) {
		printValidKeys(cmd, args[0])
		return ui.NewValidationError(fmt.Errorf("invalid configuration key"))
	}

	value := parseValue(args[1])
	if key == "pollinterval" {
		interval, err := time.ParseDuration(args[1])
		if err != nil || interval <= 0 {
			return ui.NewValidationError(fmt.Errorf("poll-interval must be a positive duration such as 1s or 500ms"))
		}
	}

	viper.Set(key, value)
	if err := viper.WriteConfig(); err != nil {
		return ui.NewFileSystemError(fmt.Errorf("failed to save config: %w", err))
	}

	//nolint:errcheck // Writing to stdout, error not actionable
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Set %s = %v\n", displayKey(key), value)
	return nil
}

func printValidKeys(cmd *cobra.Command, given string) {
	errOut := cmd.ErrOrStderr()
	//nolint:errcheck // Writing to stderr, error not actionable
	fmt.Fprintf(errOut, "Error: '%s' is not a recognized configuration key\n\nValid configuration keys:\n", given)

	keys := make([]string, 0, len(config.ValidUserFacingConfigKeys))
	for key := range config.ValidUserFacingConfigKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		//nolint:errcheck // Writing to stderr, error not actionable
		fmt.Fprintf(errOut, "  %s - %s\n", displayKey(key), config.GetConfigKeyDescription(key))
	}
}
