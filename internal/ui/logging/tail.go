package logging

import "slices"

// Unseen returns the entries of current that were not already printed.
//
// Each poll replaces the whole log, and the engine drops its oldest lines once
// its buffer is full, so the printed history and the new list overlap at
// printed's end and current's start. The longest such overlap is skipped.
// With no overlap (a new run) every entry is unseen.
func Unseen(printed, current []string) []string {
	maxOverlap := min(len(printed), len(current))
	for k := maxOverlap; k > 0; k-- {
		if slices.Equal(printed[len(printed)-k:], current[:k]) {
			return current[k:]
		}
	}
	return current
}
