package projectconfig

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

const (
	// DefaultFileName is the project file looked up in the working directory.
	DefaultFileName = "autodev.toml"

	// DefaultTokenEnv is the variable read for the GitHub token when token_env is unset.
	DefaultTokenEnv = "GITHUB_TOKEN"
)

// ErrNotFound is returned by Load when the project file does not exist.
var ErrNotFound = errors.New("project file not found")

// Load reads and validates an autodev.toml project file
func Load(configPath string) (*ProjectConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s. Run `autodev init` to create one", ErrNotFound, configPath)
	}

	// Create new viper instance for project config
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}

	if !v.IsSet("deployment") {
		return nil, fmt.Errorf("'deployment' section not found in %s", configPath)
	}

	var config ProjectConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse project file: %w", err)
	}

	applyDefaults(&config)

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("invalid project file %s: %w", configPath, err)
	}

	return &config, nil
}

func applyDefaults(config *ProjectConfig) {
	if config.Deployment.TokenEnv == "" {
		config.Deployment.TokenEnv = DefaultTokenEnv
	}
}
