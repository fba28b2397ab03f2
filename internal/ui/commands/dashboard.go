package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/autodev/autodev/internal/api"
	"github.com/autodev/autodev/internal/deploy"
	"github.com/autodev/autodev/internal/ui"
	"github.com/autodev/autodev/internal/ui/logging"
)

const (
	defaultDashboardWidth  = 80
	defaultDashboardHeight = 24

	// title, blank, two inputs, blank, status, blank, help and the log box border
	dashboardChromeLines = 10
)

const (
	focusRepo = iota
	focusToken
	focusCount
)

// DashboardConfig contains the dashboard configuration
type DashboardConfig struct {
	ui.DisplayConfig

	Client api.Client

	// Prefilled input values
	RepoURL string
	Token   string

	PollInterval time.Duration

	// AutoDeploy submits the prefilled inputs as soon as the dashboard opens.
	// Headless runs always deploy immediately.
	AutoDeploy bool

	ErrorReporter deploy.ErrorReporter

	// Out receives headless output. Defaults to stdout.
	Out io.Writer
}

// DashboardView is the Bubbletea model for the deployment control panel
type DashboardView struct {
	ctx       context.Context
	ctxCancel context.CancelFunc

	controller *deploy.Controller

	repoInput  textinput.Model
	tokenInput textinput.Model
	focus      int

	panel   logging.Panel
	spinner *ui.SpinnerModel
	width   int
	height  int

	// submitted is set by the first deploy; the headless run ends when polling stops after it.
	submitted bool
	quitting  bool

	// Headless bookkeeping
	printed     []string
	printedStat string

	err *ui.UIError

	conf DashboardConfig
}

// NewDashboardView creates a new dashboard view
func NewDashboardView(ctx context.Context, conf DashboardConfig) *DashboardView {
	ctx, cancel := context.WithCancel(ctx)

	if conf.Out == nil {
		conf.Out = os.Stdout
	}

	opts := []deploy.Option{}
	if conf.PollInterval > 0 {
		opts = append(opts, deploy.WithPollInterval(conf.PollInterval))
	}
	if conf.ErrorReporter != nil {
		opts = append(opts, deploy.WithErrorReporter(conf.ErrorReporter))
	}

	repo := textinput.New()
	repo.Prompt = ""
	repo.Placeholder = "https://github.com/owner/repo"
	repo.SetValue(conf.RepoURL)
	repo.Focus()

	token := textinput.New()
	token.Prompt = ""
	token.Placeholder = "ghp_..."
	token.EchoMode = textinput.EchoPassword
	token.EchoCharacter = '•'
	token.SetValue(conf.Token)

	m := &DashboardView{
		ctx:        ctx,
		ctxCancel:  cancel,
		controller: deploy.NewController(ctx, conf.Client, opts...),
		repoInput:  repo,
		tokenInput: token,
		panel:      logging.NewPanel(defaultDashboardWidth, defaultDashboardHeight),
		spinner:    ui.NewSpinner(""),
		conf:       conf,
	}
	m.resize(defaultDashboardWidth, defaultDashboardHeight)
	return m
}

// Error returns the error if any occurred during execution
func (m *DashboardView) Error() error {
	if m.err == nil {
		return nil
	}
	return m.err
}

// State returns a snapshot of the controller state.
func (m *DashboardView) State() deploy.State {
	return m.controller.State()
}

// Init starts the dashboard. Headless runs submit the deploy right away.
func (m *DashboardView) Init() tea.Cmd {
	if m.conf.SimpleOutput() || m.conf.AutoDeploy {
		return m.submitDeploy()
	}
	return nil
}

// Update handles messages
func (m *DashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.onKey(msg)

	case ui.SignalCancelMsg:
		if m.conf.SimpleOutput() {
			m.println("\nReceived termination signal, stopping deployment...")
		}
		return m.quit(ui.NewUserCancelledError())

	case spinner.TickMsg:
		if !m.controller.State().IsPolling || m.conf.SimpleOutput() {
			return m, nil
		}
		_, cmd := m.spinner.Update(msg)
		return m, cmd
	}

	if cmd, handled := m.controller.Update(msg); handled {
		return m, m.afterStateChange(cmd)
	}

	return m, m.updateFocusedInput(msg)
}

// View renders the dashboard
func (m *DashboardView) View() string {
	if m.conf.SimpleOutput() {
		return ""
	}

	state := m.controller.State()
	var output strings.Builder

	output.WriteString(ui.TitleStyle.Render("autodev · deployment control panel"))
	output.WriteString("\n\n")
	output.WriteString(m.renderInput("Repository", m.repoInput, focusRepo))
	output.WriteString("\n")
	output.WriteString(m.renderInput("Token", m.tokenInput, focusToken))
	output.WriteString("\n\n")

	output.WriteString(ui.LabelStyle.Render("Status"))
	output.WriteString(ui.ColorizeStatus(state.Status))
	if state.IsPolling {
		output.WriteString("  ")
		output.WriteString(m.spinner.View())
	}
	output.WriteString("\n\n")

	output.WriteString(ui.LogBoxStyle.Render(m.panel.View()))
	output.WriteString("\n")
	output.WriteString(m.renderHelpText(state))

	return output.String()
}

func (m *DashboardView) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	polling := m.controller.State().IsPolling

	switch msg.String() {
	case "ctrl+c":
		if polling {
			return m.quit(ui.NewUserCancelledError())
		}
		return m.quit(nil)

	case "enter", "ctrl+d":
		if polling {
			return m, nil
		}
		return m, m.submitDeploy()

	case "ctrl+s", "esc":
		if !polling {
			return m, nil
		}
		cmd := m.controller.SubmitStop()
		return m, m.afterStateChange(cmd)

	case "tab", "down":
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil

	case "shift+tab", "up":
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil

	case "pgup", "pgdown", "home", "end":
		var cmd tea.Cmd
		m.panel, cmd = m.panel.Update(msg)
		return m, cmd
	}

	if polling {
		// Inputs are only read at submission time; freeze them while a job runs.
		return m, nil
	}
	return m, m.updateFocusedInput(msg)
}

// submitDeploy reads the inputs and hands them to the controller.
func (m *DashboardView) submitDeploy() tea.Cmd {
	repo := m.repoInput.Value()
	token := m.tokenInput.Value()

	m.submitted = true
	m.printed = nil
	cmd := m.controller.SubmitDeploy(repo, token)

	if m.conf.SimpleOutput() {
		m.println(fmt.Sprintf("Deploying %s", displayRepo(repo)))
	}

	sync := m.afterStateChange(cmd)
	if m.conf.SimpleOutput() {
		return sync
	}
	return tea.Batch(sync, m.spinner.Init())
}

// afterStateChange projects the controller state onto the view and, in
// headless mode, prints what changed and ends the run once polling stops.
func (m *DashboardView) afterStateChange(cmd tea.Cmd) tea.Cmd {
	state := m.controller.State()
	m.panel.SetEntries(state.Logs)

	if !m.conf.SimpleOutput() {
		return cmd
	}

	for _, entry := range logging.Unseen(m.printed, state.Logs) {
		m.println(entry)
	}
	m.printed = state.Logs

	if state.Status != m.printedStat && state.Status != deploy.StatusIdle {
		m.println(fmt.Sprintf("Status: %s", state.Status))
	}
	m.printedStat = state.Status

	if m.submitted && !state.IsPolling && !m.quitting {
		return m.finishHeadless(state, cmd)
	}
	return cmd
}

// finishHeadless decides the exit status of a headless run. cmd carries any
// pending request (a stop) that must complete before the program quits.
func (m *DashboardView) finishHeadless(state deploy.State, cmd tea.Cmd) tea.Cmd {
	m.quitting = true

	switch {
	case state.Status == deploy.StatusSuccess:
		m.println("✓ Deployment succeeded")
	case state.Status == deploy.StatusStopped:
		m.println("✓ Deployment stopped")
	default:
		// Polling ended without a terminal status: the submission failed.
		status := state.Status
		if status == deploy.StatusIdle {
			status = ""
		}
		m.err = ui.NewDeployFailedError(status)
		m.err.SilentExit = true
		m.println(fmt.Sprintf("✗ %s", m.err.Error()))
	}

	if cmd == nil {
		m.ctxCancel()
		return tea.Quit
	}
	return tea.Sequence(cmd, m.cancelAndQuit)
}

// quit exits the dashboard, stopping the job first when one is being polled.
func (m *DashboardView) quit(err *ui.UIError) (tea.Model, tea.Cmd) {
	m.err = err
	m.quitting = true

	if !m.controller.State().IsPolling {
		m.ctxCancel()
		return m, tea.Quit
	}

	slog.Info("Stopping job before exit")
	stop := m.controller.SubmitStop()
	m.panel.SetEntries(m.controller.State().Logs)
	return m, tea.Sequence(stop, m.cancelAndQuit)
}

// cancelAndQuit runs after the last pending request, so cancelling the
// context cannot abort it.
func (m *DashboardView) cancelAndQuit() tea.Msg {
	m.ctxCancel()
	return tea.Quit()
}

func (m *DashboardView) resize(width, height int) {
	m.width = width
	m.height = height

	inputWidth := max(width-lipgloss.Width(ui.LabelStyle.Render(""))-1, 10)
	m.repoInput.Width = inputWidth
	m.tokenInput.Width = inputWidth

	// The log box border takes two columns.
	m.panel.SetSize(max(width-2, 10), max(height-dashboardChromeLines, 3))
}

func (m *DashboardView) setFocus(focus int) {
	m.focus = focus
	if focus == focusRepo {
		m.repoInput.Focus()
		m.tokenInput.Blur()
	} else {
		m.tokenInput.Focus()
		m.repoInput.Blur()
	}
}

func (m *DashboardView) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.focus == focusRepo {
		m.repoInput, cmd = m.repoInput.Update(msg)
	} else {
		m.tokenInput, cmd = m.tokenInput.Update(msg)
	}
	return cmd
}

func (m *DashboardView) renderInput(label string, input textinput.Model, focus int) string {
	style := ui.LabelStyle
	if m.focus == focus {
		style = ui.FocusedLabelStyle
	}
	return style.Render(label) + input.View()
}

func (m *DashboardView) renderHelpText(state deploy.State) string {
	var hints []string

	if state.IsPolling {
		hints = append(hints, "ctrl+s/esc: stop")
	} else {
		hints = append(hints, "enter: deploy", "tab: switch field")
	}
	hints = append(hints, "pgup/pgdown: scroll", "ctrl+c: quit")

	return ui.HelpStyle.Render(strings.Join(hints, " | "))
}

func (m *DashboardView) println(line string) {
	//nolint:errcheck // Writing to stdout, error not actionable
	fmt.Fprintln(m.conf.Out, line)
}

func displayRepo(repo string) string {
	if repo == "" {
		return "(no repository)"
	}
	return repo
}
