package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDetailTable(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	out := RenderDetailTable([]TableSection{{
		Rows: []TableRow{
			{Label: "Status", Value: "RUNNING"},
			{Label: "Engine", Value: "http://localhost:8000"},
		},
	}})

	assert.Equal(t, "Status  RUNNING\nEngine  http://localhost:8000\n", out)
}

func TestRenderPanel_BoxIsRectangular(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	out := RenderPanel("Deployment", "Status  IDLE\nLogs    0")
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 4)

	assert.True(t, strings.HasPrefix(lines[0], "╭─ Deployment "))
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "╰"))

	width := lipgloss.Width(lines[0])
	for _, line := range lines {
		assert.Equal(t, width, lipgloss.Width(line), "line %q", line)
	}
}
