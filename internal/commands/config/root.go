package config

import (
	"strings"

	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command group
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long: `Manage CLI configuration settings.

Configuration is stored in ~/.autodev/config.yaml

Available subcommands:
  set        - Set a configuration value
  get        - Get a configuration value
  list       - List all configuration
  edit       - Open config file in editor
  telemetry  - Enable, disable or inspect error reporting`,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newEditCmd())
	cmd.AddCommand(newTelemetryCmd())

	return cmd
}

// normalizeKey turns "api-url" or "API_URL" into the stored "apiurl" form.
func normalizeKey(key string) string {
	key = strings.ReplaceAll(key, "-", "")
	key = strings.ReplaceAll(key, "_", "")
	return strings.ToLower(key)
}

// displayKey renders a stored key in the kebab-case form shown to users.
func displayKey(key string) string {
	switch key {
	case "apiurl":
		return "api-url"
	case "pollinterval":
		return "poll-interval"
	case "skipversioncheck":
		return "skip-version-check"
	case "loglevel":
		return "log-level"
	default:
		return key
	}
}

// parseValue converts "true"/"false" into booleans and leaves everything else as a string.
func parseValue(value string) any {
	switch strings.ToLower(value) {
	case "true":
		return true
	case "false":
		return false
	default:
		return value
	}
}
