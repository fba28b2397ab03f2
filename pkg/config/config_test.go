package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_CreatesMissingFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	t.Setenv("AUTODEV_CONFIG_PATH", path)
	t.Setenv("AUTODEV_API_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	require.NoError(t, statErr)
	assert.Equal(t, DefaultAPIURL, cfg.GetAPIURL())
	assert.Equal(t, DefaultPollInterval, cfg.GetPollInterval())
	assert.True(t, cfg.IsTelemetryEnabled())
}

func TestLoad_ReadsValues(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "apiurl: http://engine:9000/\npollinterval: 250ms\nloglevel: debug\ntelemetry: false\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("AUTODEV_CONFIG_PATH", path)
	t.Setenv("AUTODEV_API_URL", "")
	t.Setenv("AUTODEV_TELEMETRY_DISABLED", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://engine:9000", cfg.GetAPIURL())
	assert.Equal(t, 250*time.Millisecond, cfg.GetPollInterval())
	assert.Equal(t, slog.LevelDebug, cfg.GetLogLevel())
	assert.False(t, cfg.IsTelemetryEnabled())
}

func TestLoad_InvalidPollInterval(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pollinterval: often\n"), 0o600))
	t.Setenv("AUTODEV_CONFIG_PATH", path)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pollinterval")
}

func TestGetAPIURL_EnvOverride(t *testing.T) {
	t.Setenv("AUTODEV_API_URL", "http://override:1234/")

	cfg := &Config{APIURL: "http://configured:8000"}
	assert.Equal(t, "http://override:1234", cfg.GetAPIURL())
}

func TestGetAPIURL_FlagOverride(t *testing.T) {
	t.Setenv("AUTODEV_API_URL", "http://env:1234")

	cfg := &Config{APIURL: "http://configured:8000"}
	cfg.SetAPIURLOverride("http://flag:5555/")
	assert.Equal(t, "http://flag:5555", cfg.GetAPIURL())
}

func TestIsTelemetryEnabled_EnvWins(t *testing.T) {
	enabled := true
	cfg := &Config{TelemetryEnabled: &enabled}

	t.Setenv("AUTODEV_TELEMETRY_DISABLED", "1")
	assert.False(t, cfg.IsTelemetryEnabled())
}

func TestGetLogLevel(t *testing.T) {
	tcs := []struct {
		level string
		want  slog.Level
	}{
		{"", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
	}

	for _, tc := range tcs {
		t.Run(tc.level, func(t *testing.T) {
			assert.Equal(t, tc.want, (&Config{LogLevel: tc.level}).GetLogLevel())
		})
	}
}
