package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	DefaultConfigDir  = ".autodev"
	DefaultConfigFile = "config.yaml"

	// DefaultAPIURL is the address of a locally running deployment engine.
	DefaultAPIURL = "http://localhost:8000"

	// DefaultPollInterval is how often the dashboard asks the backend for status.
	DefaultPollInterval = time.Second
)

// Config holds the CLI configuration
type Config struct {
	APIURL           string
	PollInterval     time.Duration
	SkipVersionCheck bool
	LogLevel         string
	TelemetryEnabled *bool // Pointer to distinguish between unset (nil) and explicitly set (true/false)

	// apiURLOverride comes from --api-url and is never saved.
	apiURLOverride string
}

// ValidUserFacingConfigKeys lists config keys that users should interact with
var ValidUserFacingConfigKeys = map[string]bool{
	"apiurl":           true,
	"pollinterval":     true,
	"skipversioncheck": true,
	"loglevel":         true,
	"telemetry":        true,
}

// IsValidUserFacingKey checks if a config key is a recognized user-facing key
func IsValidUserFacingKey(key string) bool {
	return ValidUserFacingConfigKeys[key]
}

// GetConfigKeyDescription returns a description for a config key
func GetConfigKeyDescription(key string) string {
	descriptions := map[string]string{
		"apiurl":           "Base URL of the deployment engine (default: " + DefaultAPIURL + ")",
		"pollinterval":     "How often to poll for status while a deploy runs (e.g. 1s, 500ms)",
		"skipversioncheck": "Disable automatic version update checks (true/false)",
		"loglevel":         "Logging level (debug/info/warn/error, default: info)",
		"telemetry":        "Enable error telemetry and crash reporting (true/false, default: true)",
	}
	return descriptions[key]
}

// Load reads the configuration from ~/.autodev/config.yaml
func Load() (*Config, error) {
	configPath := getConfigPath()
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	// Create config file if it doesn't exist
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := ensureConfigDir(); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := viper.WriteConfig(); err != nil {
			return nil, fmt.Errorf("failed to create config file: %w", err)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := &Config{
		APIURL:           viper.GetString("apiurl"),
		SkipVersionCheck: viper.GetBool("skipversioncheck"),
		LogLevel:         viper.GetString("loglevel"),
	}

	if raw := viper.GetString("pollinterval"); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid pollinterval %q: %w", raw, err)
		}
		config.PollInterval = interval
	}

	if viper.IsSet("telemetry") {
		telemetryEnabled := viper.GetBool("telemetry")
		config.TelemetryEnabled = &telemetryEnabled
	}

	return config, nil
}

// IsTelemetryEnabled returns whether telemetry is enabled.
// Returns true by default if not explicitly set (opt-out model).
func (c *Config) IsTelemetryEnabled() bool {
	if envVal := os.Getenv("AUTODEV_TELEMETRY_DISABLED"); envVal != "" {
		return envVal != "true" && envVal != "1"
	}

	if c.TelemetryEnabled != nil {
		return *c.TelemetryEnabled
	}

	return true
}

// SetAPIURLOverride makes GetAPIURL return url for the rest of the process.
func (c *Config) SetAPIURLOverride(url string) {
	c.apiURLOverride = url
}

// GetAPIURL returns the deployment engine address.
// --api-url wins over AUTODEV_API_URL, which wins over the config file;
// all fall back to DefaultAPIURL.
func (c *Config) GetAPIURL() string {
	if c.apiURLOverride != "" {
		return strings.TrimRight(c.apiURLOverride, "/")
	}
	if envVal := os.Getenv("AUTODEV_API_URL"); envVal != "" {
		return strings.TrimRight(envVal, "/")
	}
	if c.APIURL != "" {
		return strings.TrimRight(c.APIURL, "/")
	}
	return DefaultAPIURL
}

// GetPollInterval returns the status poll interval, never zero or negative.
func (c *Config) GetPollInterval() time.Duration {
	if c.PollInterval <= 0 {
		return DefaultPollInterval
	}
	return c.PollInterval
}

// Save writes the current configuration to disk
func Save(config *Config) error {
	viper.Set("apiurl", config.APIURL)
	viper.Set("skipversioncheck", config.SkipVersionCheck)
	viper.Set("loglevel", config.LogLevel)
	if config.PollInterval > 0 {
		viper.Set("pollinterval", config.PollInterval.String())
	}

	if config.TelemetryEnabled != nil {
		viper.Set("telemetry", *config.TelemetryEnabled)
	}

	if err := viper.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// getConfigPath returns the full path to the config file
func getConfigPath() string {
	if path := os.Getenv("AUTODEV_CONFIG_PATH"); path != "" {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", DefaultConfigDir, DefaultConfigFile)
	}

	return filepath.Join(homeDir, DefaultConfigDir, DefaultConfigFile)
}

// Context key for storing config
type contextKey string

const configContextKey contextKey = "config"

// GetConfigFromContext retrieves the config from the command context
func GetConfigFromContext(cmd *cobra.Command) (*Config, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, fmt.Errorf("no context available")
	}

	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("config not found in context")
	}

	return cfg, nil
}

// GetContextKey returns the context key used for storing config
// This is needed by root.go to store the config in context
func GetContextKey() interface{} {
	return configContextKey
}

// ensureConfigDir ensures the config directory exists
func ensureConfigDir() error {
	configDir := filepath.Dir(getConfigPath())
	return os.MkdirAll(configDir, 0755) //nolint:gosec // Config directory needs standard permissions
}

// GetLogLevel returns the configured log level as slog.Level
// Defaults to Info if not set or invalid
func (c *Config) GetLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
