// Package logrium wires the process-wide slog logger for the autodev CLI.
//
// The dashboard owns the terminal while it runs, so diagnostic output has to
// go somewhere that does not tear the TUI: a timestamped file in the temp dir.
// Headless runs log to stderr so shell redirection keeps working.
package logrium

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mattn/go-isatty"
)

// LogFilePrefix names the debug files written during interactive sessions.
const LogFilePrefix = "autodev-debug"

// Setup configures the global slog logger.
//
//   - isInteractive=true and stderr is a terminal: logs go to a file in os.TempDir()
//   - otherwise: logs go to stderr
//
// Returns the log file path, or "" when logging to stderr.
func Setup(isInteractive bool, level slog.Level) (string, error) {
	if !isInteractive || !isatty.IsTerminal(os.Stderr.Fd()) {
		install(os.Stderr, level)
		return "", nil
	}

	logFilePath := filepath.Join(os.TempDir(),
		fmt.Sprintf("%s-%s.log", LogFilePrefix, time.Now().Format("2006-01-02T15-04-05")))

	logFile, err := os.OpenFile(logFilePath, //nolint:gosec // Log file in temp directory
		os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return "", err
	}

	install(logFile, level)
	return logFilePath, nil
}

// Disable discards all log output. Used when --verbose is not set.
func Disable() {
	install(io.Discard, slog.LevelError+1)
}

// SetupForTesting sends slog output to w until the test finishes.
//
//	var buf bytes.Buffer
//	logrium.SetupForTesting(t, &buf, slog.LevelDebug)
//	controller.OnPollTick(...)
//	assert.Contains(t, buf.String(), "status poll failed")
func SetupForTesting(t *testing.T, w io.Writer, level slog.Level) {
	original := slog.Default()
	install(w, level)
	t.Cleanup(func() {
		slog.SetDefault(original)
	})
}

func install(w io.Writer, level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
