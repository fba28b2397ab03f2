package ui

import (
	"fmt"
	"strings"
)

// ColorizeStatus colors a job status without changing its text. The engine
// may report statuses this CLI has never seen; those render bold.
func ColorizeStatus(status string) string {
	upper := strings.ToUpper(status)
	switch {
	case upper == "SUCCESS":
		return StatusSuccessStyle.Render(status)
	case upper == "STOPPED":
		return StatusStoppedStyle.Render(status)
	case upper == "IDLE" || upper == "":
		return PendingStyle.Render(status)
	case strings.Contains(upper, "FAIL"), strings.Contains(upper, "CRASH"), strings.Contains(upper, "ERROR"):
		return StatusFailedStyle.Render(status)
	case upper == "FIXING":
		return StatusFixingStyle.Render(status)
	default:
		return StatusActiveStyle.Render(status)
	}
}

// FormatError formats an error message with styling
// NOTE: Adds a new line manually. Use strings.TrimSpace if you want to strip it.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	// The last line a bubbletea program renders before exiting can be overwritten
	// by the shell prompt: https://github.com/charmbracelet/bubbletea/issues/304
	return ErrorStyle.Render(fmt.Sprintf("✗ Error: %s", err.Error())) + "\n"
}
