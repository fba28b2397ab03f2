package deploy

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/autodev/autodev/internal/api"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrorReporter receives failures worth reporting beyond the diagnostic log.
type ErrorReporter func(ctx context.Context, err error)

// Option configures a Controller.
type Option func(*Controller)

// WithPollInterval sets the time between status polls.
func WithPollInterval(d time.Duration) Option {
	return func(c *Controller) {
		c.scheduler = NewScheduler(d)
	}
}

// WithRequestTimeout bounds each status and stop call. Deploy submissions are
// never bounded: a slow acknowledgment must not end tracking of a live job.
// Without this option no engine call has a deadline beyond the controller's
// context.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.requestTimeout = d
		}
	}
}

// WithErrorReporter registers a callback for failed deploy submissions.
func WithErrorReporter(r ErrorReporter) Option {
	return func(c *Controller) {
		c.report = r
	}
}

// Controller owns the job State and the poll Scheduler.
//
// SubmitDeploy, SubmitStop and Update must all be called from the same
// goroutine (the bubbletea Update loop). They change state synchronously and
// return the tea.Cmd that performs the network call.
type Controller struct {
	ctx            context.Context
	client         api.Client
	scheduler      *Scheduler
	requestTimeout time.Duration
	report         ErrorReporter

	state State
	run   uint64
}

// NewController returns an idle controller that talks to client.
func NewController(ctx context.Context, client api.Client, opts ...Option) *Controller {
	c := &Controller{
		ctx:       ctx,
		client:    client,
		scheduler: NewScheduler(DefaultPollInterval),
		state:     NewState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	return c.state.Snapshot()
}

// Scheduler exposes the poll scheduler.
func (c *Controller) Scheduler() *Scheduler {
	return c.scheduler
}

// SubmitDeploy starts a deployment of repoURL. Polling starts and the log is
// reset to the initializing line before this returns; the returned command
// sends the request and schedules the first poll.
func (c *Controller) SubmitDeploy(repoURL, token string) tea.Cmd {
	c.run++
	c.state.RepoURL = repoURL
	c.state.Token = token
	c.state.IsPolling = true
	c.state.Logs = []string{InitializingEntry}

	slog.Info("Submitting deploy", "repo", repoURL, "run", c.run)

	run := c.run
	req := api.DeployRequest{RepoURL: repoURL, GitHubToken: token}
	submit := func() tea.Msg {
		return DeployResultMsg{Run: run, Err: c.client.Deploy(c.ctx, req)}
	}

	return tea.Batch(submit, c.scheduler.Start())
}

// SubmitStop cancels the job. The state flips to STOPPED and polling ends
// immediately, whatever the outcome of the request.
func (c *Controller) SubmitStop() tea.Cmd {
	c.scheduler.Stop()
	c.state.IsPolling = false
	c.state.Status = StatusStopped

	slog.Info("Submitting stop", "run", c.run)

	return func() tea.Msg {
		ctx, cancel := c.callContext()
		defer cancel()
		return StopResultMsg{Err: c.client.Stop(ctx)}
	}
}

// Update applies controller messages. handled is false for anything else.
func (c *Controller) Update(msg tea.Msg) (cmd tea.Cmd, handled bool) {
	switch msg := msg.(type) {
	case TickMsg:
		return c.onPollTick(msg), true
	case StatusResultMsg:
		c.onStatusResult(msg)
		return nil, true
	case DeployResultMsg:
		c.onDeployResult(msg)
		return nil, true
	case StopResultMsg:
		if msg.Err != nil {
			slog.Warn("Stop request failed", "error", msg.Err)
		} else {
			slog.Info("Stop acknowledged")
		}
		return nil, true
	}
	return nil, false
}

// callContext derives the context for one status or stop call.
func (c *Controller) callContext() (context.Context, context.CancelFunc) {
	if c.requestTimeout > 0 {
		return context.WithTimeout(c.ctx, c.requestTimeout)
	}
	return context.WithCancel(c.ctx)
}

// onPollTick issues one status fetch and schedules the next tick. The next
// tick does not wait for the fetch.
func (c *Controller) onPollTick(tick TickMsg) tea.Cmd {
	seq, next, ok := c.scheduler.Accept(tick)
	if !ok {
		slog.Debug("Dropping stale poll tick", "epoch", tick.Epoch, "current", c.scheduler.Epoch())
		return nil
	}

	epoch := tick.Epoch
	fetch := func() tea.Msg {
		ctx, cancel := c.callContext()
		defer cancel()
		resp, err := c.client.GetStatus(ctx)
		return StatusResultMsg{Epoch: epoch, Seq: seq, Response: resp, Err: err}
	}

	return tea.Batch(next, fetch)
}

func (c *Controller) onStatusResult(msg StatusResultMsg) {
	if msg.Err != nil {
		slog.Warn("Status poll failed", "error", msg.Err, "epoch", msg.Epoch, "seq", msg.Seq)
		return
	}
	if msg.Response == nil {
		slog.Warn("Status poll returned no body", "epoch", msg.Epoch, "seq", msg.Seq)
		return
	}
	if !c.scheduler.Admit(msg.Epoch, msg.Seq) {
		slog.Debug("Discarding stale status", "epoch", msg.Epoch, "seq", msg.Seq, "status", msg.Response.Status)
		return
	}

	c.state.Status = msg.Response.Status
	c.state.Logs = slices.Clone(msg.Response.Logs)
	if c.state.Logs == nil {
		c.state.Logs = []string{}
	}

	if IsTerminal(c.state.Status) {
		slog.Info("Job reached terminal status", "status", c.state.Status)
		c.scheduler.Stop()
		c.state.IsPolling = false
	}
}

func (c *Controller) onDeployResult(msg DeployResultMsg) {
	if msg.Err == nil {
		slog.Info("Deploy acknowledged", "run", msg.Run)
		return
	}

	if msg.Run != c.run {
		slog.Warn("Ignoring failure of superseded deploy", "error", msg.Err, "run", msg.Run, "current", c.run)
		return
	}

	slog.Error("Deploy submission failed", "error", msg.Err, "run", msg.Run)
	c.state.Logs = append(c.state.Logs, SubmitErrorPrefix+msg.Err.Error())
	c.scheduler.Stop()
	c.state.IsPolling = false

	if c.report != nil {
		c.report(c.ctx, msg.Err)
	}
}
