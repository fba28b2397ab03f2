package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/autodev/autodev/internal/api"
	"github.com/autodev/autodev/internal/ui"
	"github.com/autodev/autodev/internal/ui/logging"
)

// StatusState represents the current state of status checking
type StatusState int

const (
	StateStatusLoading StatusState = iota
	StateStatusSuccess
	StateStatusError
)

// StatusConfig contains status command configuration
type StatusConfig struct {
	ui.DisplayConfig

	Client api.Client

	// Filter keeps only matching log entries. Nil shows everything.
	Filter *logging.Filter

	// Since drops entries stamped before it. Zero shows everything.
	Since time.Time

	// Out receives simple-mode output. Defaults to stdout.
	Out io.Writer
}

// StatusView is the Bubbletea model for a one-shot job status display
type StatusView struct {
	ctx context.Context

	state   StatusState
	spinner *ui.SpinnerModel
	err     *ui.UIError

	status *api.StatusResponse
	logs   []string

	conf StatusConfig
}

// NewStatusView creates a new status view
func NewStatusView(ctx context.Context, conf StatusConfig) *StatusView {
	if conf.Out == nil {
		conf.Out = os.Stdout
	}
	return &StatusView{
		ctx:     ctx,
		state:   StateStatusLoading,
		spinner: ui.NewSpinner("Fetching job status..."),
		conf:    conf,
	}
}

// Error returns the error if any occurred during execution
func (m *StatusView) Error() error {
	if m.err == nil {
		return nil
	}
	return m.err
}

// GetError returns any error that occurred during status checking
func (m *StatusView) GetError() *ui.UIError {
	return m.err
}

func (m *StatusView) Init() tea.Cmd {
	if m.conf.SimpleOutput() {
		return m.fetchStatus
	}
	return tea.Batch(
		m.spinner.Init(),
		m.fetchStatus,
	)
}

// Update handles messages
func (m *StatusView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.SignalCancelMsg:
		m.err = ui.NewUserCancelledError()
		return m, tea.Quit

	case tea.KeyMsg:
		if m.conf.SimpleOutput() {
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.err = ui.NewUserCancelledError()
			return m, tea.Quit
		}

	case statusLoadedMsg:
		m.status = msg.status
		m.logs = msg.status.Logs
		if !m.conf.Since.IsZero() {
			m.logs = logging.Since(m.logs, m.conf.Since, time.Now())
		}
		if m.conf.Filter != nil {
			m.logs = m.conf.Filter.Apply(m.logs)
		}
		m.state = StateStatusSuccess

		if m.conf.SimpleOutput() {
			m.printSimpleStatus()
		}

		return m, tea.Quit

	case *ui.UIError:
		// Structured error from async operations
		msg.SilentExit = true // Will be shown in View()
		m.err = msg
		m.state = StateStatusError

		if m.conf.SimpleOutput() {
			//nolint:errcheck // Writing to stdout, error not actionable
			fmt.Fprintf(m.conf.Out, "Error: %s\n", msg.Error())
		}

		return m, tea.Quit

	default:
		if !m.conf.SimpleOutput() && m.state == StateStatusLoading {
			_, cmd := m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// View renders the output
func (m *StatusView) View() string {
	if m.conf.SimpleOutput() {
		return ""
	}

	switch m.state {
	case StateStatusLoading:
		return m.spinner.View()

	case StateStatusError:
		if m.err != nil {
			return ui.FormatError(m.err)
		}
		return ui.ErrorStyle.Render("✗ Error checking status") + "\n"

	case StateStatusSuccess:
		return m.renderInteractiveStatus()

	default:
		return ""
	}
}

type statusLoadedMsg struct {
	status *api.StatusResponse
}

func (m *StatusView) fetchStatus() tea.Msg {
	status, err := m.conf.Client.GetStatus(m.ctx)
	if err != nil {
		return ui.NewAPIError(fmt.Errorf("failed to fetch status: %w", err))
	}
	if status == nil {
		return ui.NewAPIError(fmt.Errorf("failed to fetch status: empty response"))
	}
	return statusLoadedMsg{status: status}
}

// printSimpleStatus prints status for non-TTY mode
func (m *StatusView) printSimpleStatus() {
	out := m.conf.Out
	//nolint:errcheck // Writing to stdout, error not actionable
	fmt.Fprintf(out, "Status: %s\n", m.status.Status)
	if m.status.RunID != "" {
		//nolint:errcheck // Writing to stdout, error not actionable
		fmt.Fprintf(out, "Run: %s\n", m.status.RunID)
	}
	if len(m.logs) == 0 {
		return
	}
	//nolint:errcheck // Writing to stdout, error not actionable
	fmt.Fprintln(out)
	for _, entry := range m.logs {
		//nolint:errcheck // Writing to stdout, error not actionable
		fmt.Fprintln(out, entry)
	}
}

// renderInteractiveStatus renders the job summary and its classified log.
func (m *StatusView) renderInteractiveStatus() string {
	rows := []ui.TableRow{
		{Label: "Status", Value: ui.ColorizeStatus(m.status.Status)},
	}
	if m.status.RunID != "" {
		rows = append(rows, ui.TableRow{Label: "Run", Value: m.status.RunID})
	}

	entries := strconv.Itoa(len(m.status.Logs))
	var narrowed []string
	if m.conf.Filter != nil {
		narrowed = append(narrowed, fmt.Sprintf("filter %q", m.conf.Filter.Pattern()))
	}
	if !m.conf.Since.IsZero() {
		narrowed = append(narrowed, "since "+m.conf.Since.Format(time.DateTime))
	}
	if len(narrowed) > 0 {
		entries = fmt.Sprintf("%d of %d (%s)", len(m.logs), len(m.status.Logs), strings.Join(narrowed, ", "))
	}
	rows = append(rows, ui.TableRow{Label: "Entries", Value: entries})

	var output strings.Builder
	output.WriteString(ui.RenderPanel("Deployment", ui.RenderDetailTable([]ui.TableSection{{Rows: rows}})))

	if len(m.logs) == 0 {
		return output.String()
	}

	output.WriteString("\n")
	output.WriteString(ui.TitleStyle.Render("Logs") + "\n\n")
	for _, entry := range m.logs {
		output.WriteString(logging.Render(entry))
		output.WriteString("\n")
	}
	return output.String()
}
