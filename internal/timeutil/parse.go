package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var relativeTimePattern = regexp.MustCompile(`^(\d+)([smhdw])$`)

// ParseSince parses a --since value into an absolute time relative to now.
//
// Accepts multiple formats:
//   - Relative time: "45s", "30m", "1h", "2d", "1w"
//   - Clock time: "15:04:05" or "15:04", the most recent such time not after now
//   - RFC3339: "2006-01-02T15:04:05Z" or "2006-01-02T15:04:05-07:00"
//   - DateTime: "2006-01-02 15:04:05"
//   - DateOnly: "2006-01-02"
//
// Formats without timezone info use now's location.
func ParseSince(sinceStr string, now time.Time) (time.Time, error) {
	for _, layout := range []string{time.TimeOnly, "15:04"} {
		if _, err := time.Parse(layout, sinceStr); err == nil {
			return ParseClock(sinceStr, now)
		}
	}

	formats := []struct {
		layout   string
		useLocal bool
	}{
		{time.RFC3339Nano, false},
		{time.RFC3339, false},
		{time.DateTime, true},
		{time.DateOnly, true},
	}

	for _, f := range formats {
		if f.useLocal {
			if t, err := time.ParseInLocation(f.layout, sinceStr, now.Location()); err == nil {
				return t, nil
			}
			continue
		}
		if t, err := time.Parse(f.layout, sinceStr); err == nil {
			return t, nil
		}
	}

	match := relativeTimePattern.FindStringSubmatch(sinceStr)
	if match == nil {
		return time.Time{}, fmt.Errorf("invalid --since format: '%s'. Use relative time ('w|d|h|m|s'), a clock time ('15:04:05') or absolute (e.g., '2006-01-02 15:04:05', '2006-01-02T15:04:05Z')", sinceStr)
	}

	amount, err := strconv.Atoi(match[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid number in --since: %w", err)
	}

	var unit time.Duration
	switch match[2] {
	case "s":
		unit = time.Second
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	case "d":
		unit = 24 * time.Hour
	case "w":
		unit = 7 * 24 * time.Hour
	}

	return now.Add(-time.Duration(amount) * unit), nil
}

// ParseClock places a "15:04:05" or "15:04" clock time on ref's date in ref's
// location. A clock time later than ref is taken to be from the previous day,
// so timestamps written just before midnight still sort before ref.
func ParseClock(clock string, ref time.Time) (time.Time, error) {
	var parsed time.Time
	var err error
	for _, layout := range []string{time.TimeOnly, "15:04"} {
		parsed, err = time.Parse(layout, clock)
		if err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock time %q: %w", clock, err)
	}

	t := time.Date(ref.Year(), ref.Month(), ref.Day(),
		parsed.Hour(), parsed.Minute(), parsed.Second(), 0, ref.Location())
	if t.After(ref) {
		t = t.AddDate(0, 0, -1)
	}
	return t, nil
}
