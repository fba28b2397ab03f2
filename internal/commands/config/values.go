package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/autodev/autodev/pkg/config"
)

// Where a value shown by get and list comes from.
const (
	sourceConfig  = "config"
	sourceDefault = "default"
	sourceEnv     = "env"
)

// keyDefaults are the values in effect when a key is unset.
var keyDefaults = map[string]any{
	"apiurl":           config.DefaultAPIURL,
	"pollinterval":     config.DefaultPollInterval.String(),
	"loglevel":         "info",
	"skipversioncheck": false,
	"telemetry":        true,
}

// keyEnvOverrides name the environment variables that win over the config file.
var keyEnvOverrides = map[string]string{
	"apiurl": "AUTODEV_API_URL",
}

// effectiveValue returns the value the CLI will use for key and its source.
func effectiveValue(key string) (any, string) {
	if env, ok := keyEnvOverrides[key]; ok {
		if v := os.Getenv(env); v != "" {
			return v, sourceEnv + " " + env
		}
	}
	if key == "telemetry" {
		if v := os.Getenv("AUTODEV_TELEMETRY_DISABLED"); v != "" {
			return v != "true" && v != "1", sourceEnv + " AUTODEV_TELEMETRY_DISABLED"
		}
	}
	if viper.IsSet(key) {
		return viper.Get(key), sourceConfig
	}
	return keyDefaults[key], sourceDefault
}
