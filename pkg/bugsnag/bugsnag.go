// Package bugsnag reports autodev CLI failures and panics to Bugsnag.
//
// Reporting is off unless an API key was compiled in (or BUGSNAG_API_KEY is
// set), and users can opt out with `autodev config telemetry disable` or
// AUTODEV_TELEMETRY_DISABLED=true.
package bugsnag

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/bugsnag/bugsnag-go/v2"

	"github.com/autodev/autodev/internal/version"
	"github.com/autodev/autodev/pkg/config"
)

// Build-time variables that can be set via ldflags
// Example: go build -ldflags "-X github.com/autodev/autodev/pkg/bugsnag.BugsnagAPIKey=your-key"
var (
	// BugsnagAPIKey is the API key for error reporting, injected at compile time.
	BugsnagAPIKey = ""

	// DefaultReleaseStage can be overridden at compile time or with AUTODEV_ENV.
	DefaultReleaseStage = "prod"
)

var (
	initOnce sync.Once
	enabled  bool
)

// Initialize configures the Bugsnag client. It is safe to call more than once;
// only the first call has any effect.
func Initialize() error {
	initOnce.Do(func() {
		cfg, _ := config.Load() // Ignore error - proceed with default behavior if config unavailable
		enabled = configure(cfg)
	})
	return nil
}

// configure applies the Bugsnag configuration and reports whether reporting is on.
func configure(cfg *config.Config) bool {
	if cfg != nil && !cfg.IsTelemetryEnabled() {
		return false
	}

	apiKey := BugsnagAPIKey
	if envKey := os.Getenv("BUGSNAG_API_KEY"); envKey != "" {
		apiKey = envKey
	}
	if apiKey == "" {
		return false
	}

	releaseStage := os.Getenv("AUTODEV_ENV")
	if releaseStage == "" {
		releaseStage = DefaultReleaseStage
	}

	bugsnag.Configure(bugsnag.Configuration{
		APIKey:              apiKey,
		ReleaseStage:        releaseStage,
		AppVersion:          version.Version,
		AppType:             "cli",
		ProjectPackages:     []string{"main", "github.com/autodev/autodev*"},
		NotifyReleaseStages: []string{"prod", "dev", "local"},
		PanicHandler:        func() {}, // Panics are reported by NotifyOnPanic
		Synchronous:         false,
	})

	addSystemMetadata(cfg)
	return true
}

// IsEnabled returns whether Bugsnag error reporting is active.
func IsEnabled() bool {
	return enabled
}

func addSystemMetadata(cfg *config.Config) {
	systemInfo := bugsnag.MetaData{
		"system": {
			"os_type":    runtime.GOOS,
			"os_arch":    runtime.GOARCH,
			"go_version": runtime.Version(),
			"num_cpu":    runtime.NumCPU(),
		},
	}
	if cfg != nil {
		// The engine address tells local simulator runs apart from real engines.
		systemInfo.Add("engine", "api_url", cfg.GetAPIURL())
	}

	bugsnag.OnBeforeNotify(func(event *bugsnag.Event, _ *bugsnag.Configuration) error {
		for tab, data := range systemInfo {
			for key, value := range data {
				event.MetaData.Add(tab, key, value)
			}
		}
		return nil
	})
}

// NotifyError reports an error with error severity.
func NotifyError(ctx context.Context, err error) {
	Notify(ctx, err, bugsnag.SeverityError)
}

// NotifyWarning reports a recoverable problem.
func NotifyWarning(ctx context.Context, err error) {
	Notify(ctx, err, bugsnag.SeverityWarning)
}

// Notify reports an error with a custom severity. User cancellations are never reported.
func Notify(ctx context.Context, err error, severity any) {
	NotifyWithMetadata(ctx, err, severity, nil)
}

// NotifyWithMetadata reports an error with extra metadata tabs.
func NotifyWithMetadata(ctx context.Context, err error, severity any, metadata bugsnag.MetaData) {
	_ = Initialize()

	if !enabled || err == nil || IsUserCancellation(err) {
		return
	}

	rawData := []any{ctx, severity}
	if metadata != nil {
		rawData = append(rawData, metadata)
	}
	_ = bugsnag.Notify(err, rawData...)
}

// ReportDeployFailure is the dashboard's hook for rejected deploy submissions.
func ReportDeployFailure(ctx context.Context, err error) {
	NotifyWithMetadata(ctx, err, bugsnag.SeverityWarning, bugsnag.MetaData{
		"deploy": {"stage": "submit"},
	})
}

// ReportDeployStatus reports a headless run that ended without success.
func ReportDeployStatus(ctx context.Context, status string) {
	NotifyWithMetadata(ctx, fmt.Errorf("deployment ended with status %s", status), bugsnag.SeverityInfo, bugsnag.MetaData{
		"deploy": {"stage": "poll", "status": status},
	})
}

// NotifyOnPanic reports a panic and re-panics. Defer it at the top of main.
func NotifyOnPanic(ctx context.Context) {
	if r := recover(); r != nil {
		var err error
		switch x := r.(type) {
		case string:
			err = fmt.Errorf("panic: %s", x)
		case error:
			err = fmt.Errorf("panic: %w", x)
		default:
			err = fmt.Errorf("panic: %v", r)
		}

		NotifyError(ctx, err)

		panic(r)
	}
}

// SetCommandContext tags every later report with the running command.
func SetCommandContext(command string, args []string) {
	_ = Initialize()
	if !enabled {
		return
	}

	bugsnag.OnBeforeNotify(func(event *bugsnag.Event, _ *bugsnag.Configuration) error {
		event.MetaData.Add("command", "name", command)
		if len(args) > 0 {
			event.MetaData.Add("command", "args", strings.Join(args, " "))
		}
		return nil
	})
}

// IsUserCancellation identifies errors caused by the user interrupting the CLI.
func IsUserCancellation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return true
	}

	errStr := err.Error()
	return strings.Contains(errStr, "context canceled") ||
		strings.Contains(errStr, "cancelled by user")
}
