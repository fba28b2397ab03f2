package logging

import (
	"strings"
	"time"

	"github.com/autodev/autodev/internal/timeutil"
)

// EntryTime reads an entry's "[15:04:05]" prefix as the most recent such
// clock time not after ref.
func EntryTime(entry string, ref time.Time) (time.Time, bool) {
	prefix := Classify(entry).Prefix
	if !strings.HasPrefix(prefix, "[") || !strings.HasSuffix(prefix, "]") {
		return time.Time{}, false
	}

	t, err := timeutil.ParseClock(prefix[1:len(prefix)-1], ref)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Since keeps the entries stamped at or after since, reading stamps relative
// to ref. An entry without a stamp goes with the entry before it; leading
// unstamped entries are kept.
func Since(entries []string, since, ref time.Time) []string {
	out := make([]string, 0, len(entries))
	keep := true
	for _, entry := range entries {
		if t, ok := EntryTime(entry, ref); ok {
			keep = !t.Before(since)
		}
		if keep {
			out = append(out, entry)
		}
	}
	return out
}
