package config

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/autodev/autodev/pkg/config"
)

func newListCmd() *cobra.Command {
	var setOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all configuration",
		Long: `List every configuration key with the value in effect and its source:
config (~/.autodev/config.yaml), env (an environment override) or default.

Example:
  autodev config list
  autodev config list --set    # Only keys stored in the config file`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, setOnly)
		},
	}

	cmd.Flags().BoolVar(&setOnly, "set", false, "Only list keys stored in the config file")

	return cmd
}

func runList(cmd *cobra.Command, setOnly bool) error {
	cmd.SilenceUsage = true

	keys := make([]string, 0, len(config.ValidUserFacingConfigKeys))
	for key := range config.ValidUserFacingConfigKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := cmd.OutOrStdout()
	printed := 0
	for _, key := range keys {
		value, source := effectiveValue(key)
		if setOnly && source != sourceConfig {
			continue
		}
		//nolint:errcheck // Writing to stdout, error not actionable
		fmt.Fprintf(out, "%s: %v (%s)\n", displayKey(key), value, source)
		printed++
	}

	if printed == 0 {
		//nolint:errcheck // Writing to stdout, error not actionable
		fmt.Fprintln(out, "No configuration found")
	}
	return nil
}
