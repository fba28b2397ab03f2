// Package jobserver is an in-memory deployment engine. It serves the same
// /deploy, /status and /stop contract as a real engine so the CLI can be run
// and tested without one. Jobs walk a scripted pipeline instead of building
// anything.
package jobserver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Job statuses reported by the engine.
const (
	StatusIdle      = "IDLE"
	StatusDeploying = "DEPLOYING"
	StatusRunning   = "RUNNING"
	StatusSuccess   = "SUCCESS"
	StatusFailed    = "FAILED"
	StatusStopped   = "STOPPED"
)

// MaxLogEntries bounds the log buffer; the oldest entries are dropped first.
const MaxLogEntries = 100

// StopEntry is logged when a stop request arrives.
const StopEntry = "🛑 Manual Stop Signal Received."

// failMarker in a repository URL makes its job crash.
const failMarker = "broken"

// Snapshot is the engine state returned by GET /status.
type Snapshot struct {
	Status string   `json:"status"`
	Logs   []string `json:"logs"`
	RunID  string   `json:"run_id,omitempty"`
}

// Engine holds the single current job. All methods are safe for concurrent use.
type Engine struct {
	stepDelay time.Duration
	now       func() time.Time
	logger    *slog.Logger

	mu        sync.Mutex
	status    string
	logs      []string
	runID     string
	container string
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewEngine returns an idle engine whose pipeline waits stepDelay between steps.
func NewEngine(stepDelay time.Duration, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		stepDelay: stepDelay,
		now:       time.Now,
		logger:    logger,
		status:    StatusIdle,
	}
}

// Deploy replaces any current job with a new one for repoURL and returns its
// run id. The pipeline runs in the background.
func (e *Engine) Deploy(repoURL, token string) string {
	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	runID := uuid.NewString()

	e.cancel = cancel
	e.runID = runID
	e.logs = nil
	e.container = ""
	e.status = StatusDeploying
	e.mu.Unlock()

	e.logger.Info("deploy accepted", "run_id", runID, "repo_url", repoURL)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.runPipeline(ctx, runID, repoURL, token)
	}()

	return runID
}

// Stop halts the current job and marks it STOPPED. Stopping with no job still
// logs the stop entry.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}

	e.appendLocked(StopEntry)
	if e.container != "" {
		e.appendLocked(fmt.Sprintf("✅ Container %s destroyed.", e.container))
		e.container = ""
	}
	e.status = StatusStopped

	e.logger.Info("job stopped", "run_id", e.runID)
}

// Snapshot copies the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	logs := make([]string, len(e.logs))
	copy(logs, e.logs)
	return Snapshot{Status: e.status, Logs: logs, RunID: e.runID}
}

// Close cancels the current job and waits for its pipeline to exit.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.mu.Unlock()
	e.wg.Wait()
}

type step struct {
	entry  string
	status string
}

func (e *Engine) runPipeline(ctx context.Context, runID, repoURL, token string) {
	name := repoName(repoURL)
	container := "run-" + strings.ToLower(name)

	steps := []step{}
	if token == "" {
		steps = append(steps, step{entry: "⚠️ No Token. Cloning anonymously."})
	}
	steps = append(steps,
		step{entry: fmt.Sprintf("⬇️ Cloning %s...", repoURL)},
		step{entry: "🔨 Building Environment..."},
		step{entry: "🚀 Launching..."},
		step{entry: fmt.Sprintf("👀 Monitoring %s...", container), status: StatusRunning},
	)
	if strings.Contains(repoURL, failMarker) {
		steps = append(steps,
			step{entry: "[App] Traceback (most recent call last):"},
			step{entry: fmt.Sprintf("🚨 CRASH DETECTED in %s", container), status: StatusFailed},
		)
	} else {
		steps = append(steps,
			step{entry: "[App] Application started"},
			step{entry: fmt.Sprintf("✅ %s deployed", name), status: StatusSuccess},
		)
	}

	for i, s := range steps {
		if i > 0 && !e.wait(ctx) {
			return
		}
		if !e.apply(runID, container, s) {
			return
		}
	}
}

// apply records one pipeline step. It reports false once runID is no longer
// the current job.
func (e *Engine) apply(runID, container string, s step) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.runID != runID || e.cancel == nil {
		return false
	}

	e.appendLocked(s.entry)
	if s.status == StatusRunning {
		e.container = container
	}
	if s.status != "" {
		e.status = s.status
		e.logger.Info("job status changed", "run_id", runID, "status", s.status)
	}
	return true
}

func (e *Engine) wait(ctx context.Context) bool {
	timer := time.NewTimer(e.stepDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (e *Engine) appendLocked(message string) {
	entry := fmt.Sprintf("[%s] %s", e.now().Format(time.TimeOnly), message)
	e.logs = append(e.logs, entry)
	if len(e.logs) > MaxLogEntries {
		e.logs = e.logs[len(e.logs)-MaxLogEntries:]
	}
}

// repoName returns the last path element of a repository URL without ".git".
func repoName(repoURL string) string {
	trimmed := strings.TrimRight(repoURL, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	return strings.TrimSuffix(trimmed, ".git")
}
