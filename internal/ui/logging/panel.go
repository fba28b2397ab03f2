package logging

import (
	"slices"
	"strings"

	"github.com/autodev/autodev/internal/ui"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const emptyPanelText = "No logs yet."

// Panel is a scrolling view over the job's log entries. Whenever the entries
// change the view jumps to the newest one.
type Panel struct {
	viewport viewport.Model
	entries  []string
	width    int
}

// NewPanel returns an empty panel of the given size.
func NewPanel(width, height int) Panel {
	vp := viewport.New(width, height)
	vp.KeyMap = viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
	}
	p := Panel{viewport: vp, width: width}
	p.refresh()
	return p
}

// SetSize resizes the panel, keeping the newest entry in view.
func (p *Panel) SetSize(width, height int) {
	p.width = width
	p.viewport.Width = width
	p.viewport.Height = height
	p.refresh()
	p.viewport.GotoBottom()
}

// SetEntries replaces the displayed entries. It reports whether they changed;
// only a change moves the view to the bottom.
func (p *Panel) SetEntries(entries []string) bool {
	if slices.Equal(p.entries, entries) {
		return false
	}
	p.entries = slices.Clone(entries)
	p.refresh()
	p.viewport.GotoBottom()
	return true
}

// Entries returns the entries currently shown.
func (p Panel) Entries() []string {
	return p.entries
}

// AtBottom reports whether the newest entry is visible.
func (p Panel) AtBottom() bool {
	return p.viewport.AtBottom()
}

// Update handles scroll keys.
func (p Panel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "home":
			p.viewport.GotoTop()
			return p, nil
		case "end":
			p.viewport.GotoBottom()
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

// View renders the visible window of the log.
func (p Panel) View() string {
	return p.viewport.View()
}

func (p *Panel) refresh() {
	if len(p.entries) == 0 {
		p.viewport.SetContent(ui.PendingStyle.Render(emptyPanelText))
		return
	}

	wrap := lipgloss.NewStyle()
	if p.width > 0 {
		wrap = wrap.Width(p.width)
	}

	lines := make([]string, 0, len(p.entries))
	for _, entry := range p.entries {
		lines = append(lines, wrap.Render(Render(entry)))
	}
	p.viewport.SetContent(strings.Join(lines, "\n"))
}
