// Package logging renders deployment log entries.
//
// An entry is an opaque string. Everything up to and including the first ']'
// is its prefix (usually a timestamp) and is drawn dimmed. The rest is the
// body, emphasised as an error when it carries the 🚨 glyph and as a success
// when it carries ✅.
package logging

import (
	"strings"

	"github.com/autodev/autodev/internal/ui"
)

const (
	ErrorGlyph   = "🚨"
	SuccessGlyph = "✅"
)

// Severity is the emphasis applied to an entry's body.
type Severity int

const (
	SeverityNeutral Severity = iota
	SeverityError
	SeveritySuccess
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeveritySuccess:
		return "success"
	default:
		return "neutral"
	}
}

// Entry is a classified log line.
type Entry struct {
	Prefix   string
	Body     string
	Severity Severity
}

// Classify splits entry at its first ']' and classifies the body.
// An entry without ']' is all prefix with an empty, neutral body.
func Classify(entry string) Entry {
	idx := strings.Index(entry, "]")
	if idx < 0 {
		return Entry{Prefix: entry}
	}

	e := Entry{Prefix: entry[:idx+1], Body: entry[idx+1:]}
	switch {
	case strings.Contains(e.Body, ErrorGlyph):
		e.Severity = SeverityError
	case strings.Contains(e.Body, SuccessGlyph):
		e.Severity = SeveritySuccess
	}
	return e
}

// Render draws one entry with its prefix dimmed and its body emphasised.
func Render(entry string) string {
	e := Classify(entry)

	var body string
	switch e.Severity {
	case SeverityError:
		body = ui.LogErrorStyle.Render(e.Body)
	case SeveritySuccess:
		body = ui.LogSuccessStyle.Render(e.Body)
	default:
		body = e.Body
	}

	return ui.TimestampStyle.Render(e.Prefix) + body
}
