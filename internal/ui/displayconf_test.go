package ui

import (
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayConfig_SimpleOutput(t *testing.T) {
	tcs := []struct {
		name string
		opts DisplayConfig
		want bool
	}{
		{name: "interactive with animations", opts: DisplayConfig{IsInteractive: true}, want: false},
		{name: "interactive without animations", opts: DisplayConfig{IsInteractive: true, DisableAnimation: true}, want: true},
		{name: "not interactive", opts: DisplayConfig{}, want: true},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.opts.SimpleOutput())
		})
	}
}

func TestResolveDisplay(t *testing.T) {
	tcs := []struct {
		name            string
		flags           displayFlags
		facts           terminalFacts
		wantInteractive bool
		wantDisabled    bool
	}{
		{
			name:            "terminal",
			facts:           terminalFacts{stdoutIsTTY: true, stderrSameAsStdout: true},
			wantInteractive: true,
		},
		{
			name:         "terminal with --no-color",
			flags:        displayFlags{noColor: true},
			facts:        terminalFacts{stdoutIsTTY: true, stderrSameAsStdout: true},
			wantDisabled: true,
		},
		{
			name:         "terminal with --no-ansi",
			flags:        displayFlags{noAnsi: true},
			facts:        terminalFacts{stdoutIsTTY: true},
			wantDisabled: true,
		},
		{
			name:         "terminal with --disable-animation",
			flags:        displayFlags{disableAnimation: true},
			facts:        terminalFacts{stdoutIsTTY: true},
			wantDisabled: true,
		},
		{
			name:  "verbose sharing the terminal",
			flags: displayFlags{verbose: true},
			facts: terminalFacts{stdoutIsTTY: true, stderrSameAsStdout: true},
		},
		{
			name:            "verbose with stderr redirected elsewhere",
			flags:           displayFlags{verbose: true},
			facts:           terminalFacts{stdoutIsTTY: true},
			wantInteractive: true,
		},
		{
			name:  "piped",
			facts: terminalFacts{},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got := resolveDisplay(tc.flags, tc.facts)
			assert.Equal(t, tc.wantInteractive, got.IsInteractive)
			assert.Equal(t, tc.wantDisabled, got.DisableAnimation)
		})
	}
}

func TestGetDisplayConfigFromContext(t *testing.T) {
	cmd := &cobra.Command{}

	_, err := GetDisplayConfigFromContext(cmd)
	require.Error(t, err)

	cmd.SetContext(context.Background())
	_, err = GetDisplayConfigFromContext(cmd)
	require.Error(t, err)

	want := DisplayConfig{IsInteractive: true}
	cmd.SetContext(context.WithValue(context.Background(), GetDisplayConfigContextKey(), want))
	got, err := GetDisplayConfigFromContext(cmd)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
