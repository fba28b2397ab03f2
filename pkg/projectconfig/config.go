package projectconfig

import (
	"os"
	"time"
)

// ProjectConfig represents the autodev.toml project file
type ProjectConfig struct {
	Deployment DeploymentConfig `mapstructure:"deployment" toml:"deployment"`
	Polling    PollingConfig    `mapstructure:"polling" toml:"polling,omitempty"`
}

// DeploymentConfig is the [deployment] section
type DeploymentConfig struct {
	// RepoURL is the repository the dashboard deploys by default.
	RepoURL string `mapstructure:"repo_url" toml:"repo_url" validate:"omitempty,url"`

	// TokenEnv names the environment variable holding the GitHub token.
	// The token itself never goes in the project file.
	TokenEnv string `mapstructure:"token_env" toml:"token_env"`
}

// PollingConfig is the optional [polling] section
type PollingConfig struct {
	// Interval overrides the poll interval for this project, e.g. "500ms".
	Interval string `mapstructure:"interval" toml:"interval,omitempty"`
}

// Token reads the GitHub token from the configured environment variable.
func (pc *ProjectConfig) Token() string {
	name := pc.Deployment.TokenEnv
	if name == "" {
		name = DefaultTokenEnv
	}
	return os.Getenv(name)
}

// PollInterval returns the project's poll interval, or zero when unset.
// Validate has already checked the value parses.
func (pc *ProjectConfig) PollInterval() time.Duration {
	if pc.Polling.Interval == "" {
		return 0
	}
	d, err := time.ParseDuration(pc.Polling.Interval)
	if err != nil {
		return 0
	}
	return d
}
