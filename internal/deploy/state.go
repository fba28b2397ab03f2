// Package deploy drives a single remote deployment job: it submits the job,
// polls the engine for status while the job runs and cancels it on request.
//
// All state lives in a Controller and is only mutated from the bubbletea
// Update loop. Network calls run as tea.Cmds and report back as messages.
package deploy

import "slices"

// Well-known job statuses. The engine may report any other string; those are
// shown verbatim and never end polling.
const (
	StatusIdle    = "IDLE"
	StatusSuccess = "SUCCESS"
	StatusStopped = "STOPPED"
)

const (
	// InitializingEntry is the first log line shown after a deploy is submitted.
	InitializingEntry = "🚀 Initializing Connection..."

	// SubmitErrorPrefix starts the log line appended when a deploy cannot be submitted.
	SubmitErrorPrefix = "❌ Error: "
)

// IsTerminal reports whether polling ends once the engine reports status.
// STOPPED counts even when it comes from a poll rather than a local stop.
func IsTerminal(status string) bool {
	return status == StatusSuccess || status == StatusStopped
}

// State is the dashboard's view of the job.
type State struct {
	Status    string
	Logs      []string
	IsPolling bool
	RepoURL   string
	Token     string
}

// NewState returns the idle state shown before anything is deployed.
func NewState() State {
	return State{
		Status: StatusIdle,
		Logs:   []string{},
	}
}

// Snapshot returns a copy that shares no memory with s.
func (s State) Snapshot() State {
	out := s
	out.Logs = slices.Clone(s.Logs)
	if out.Logs == nil {
		out.Logs = []string{}
	}
	return out
}
