package logging

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/cases"
)

// slashStandIn replaces '/' before matching so that '*' spans URLs and paths
// inside a log line instead of stopping at separators.
const slashStandIn = "\x1f"

// Filter selects log entries with a glob pattern ('*', '?', '[...]', '{a,b}').
// A pattern with no glob syntax matches any entry containing it.
type Filter struct {
	source  string
	pattern string
	fold    bool
	caser   cases.Caser
}

// NewFilter compiles pattern. With ignoreCase, matching uses Unicode case folding.
func NewFilter(pattern string, ignoreCase bool) (*Filter, error) {
	source := pattern
	if !strings.ContainsAny(pattern, "*?[{") {
		pattern = "*" + pattern + "*"
	}

	f := &Filter{source: source, fold: ignoreCase, caser: cases.Fold()}
	f.pattern = f.normalize(pattern)

	if !doublestar.ValidatePattern(f.pattern) {
		return nil, fmt.Errorf("invalid filter pattern %q", pattern)
	}
	return f, nil
}

// Pattern returns the pattern as given.
func (f *Filter) Pattern() string {
	return f.source
}

// Match reports whether entry is selected.
func (f *Filter) Match(entry string) bool {
	return doublestar.MatchUnvalidated(f.pattern, f.normalize(entry))
}

// Apply returns the selected entries in order.
func (f *Filter) Apply(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if f.Match(entry) {
			out = append(out, entry)
		}
	}
	return out
}

func (f *Filter) normalize(s string) string {
	s = strings.ReplaceAll(s, "/", slashStandIn)
	if f.fold {
		s = f.caser.String(s)
	}
	return s
}
