package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	entries := []string{
		"[10:00:00] Cloning https://github.com/acme/app",
		"[10:00:05] 🚨 Crash detected in main.py",
		"[10:00:09] ✅ Fix applied",
		"🚀 Initializing Connection...",
	}

	tcs := []struct {
		name       string
		pattern    string
		ignoreCase bool
		want       []string
	}{
		{name: "plain substring", pattern: "Crash", want: entries[1:2]},
		{name: "plain substring is case sensitive", pattern: "crash", want: []string{}},
		{name: "ignore case", pattern: "crash", ignoreCase: true, want: entries[1:2]},
		{name: "star spans slashes", pattern: "*github.com/*/app", want: entries[0:1]},
		{name: "alternation", pattern: "*{🚨,✅}*", want: entries[1:3]},
		{name: "anchored prefix", pattern: `\[10:00:0?\]*`, want: entries[0:3]},
		{name: "no match", pattern: "*deploy finished*", want: []string{}},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			f, err := NewFilter(tc.pattern, tc.ignoreCase)
			require.NoError(t, err)
			assert.Equal(t, tc.want, f.Apply(entries))
		})
	}
}

func TestNewFilter_Invalid(t *testing.T) {
	_, err := NewFilter("[unterminated", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter pattern")
}

func TestFilter_Pattern(t *testing.T) {
	f, err := NewFilter("Build", true)
	require.NoError(t, err)
	assert.Equal(t, "Build", f.Pattern())
}
