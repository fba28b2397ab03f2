package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// SpinnerModel is the activity indicator shown while a job is being polled.
type SpinnerModel struct {
	spinner spinner.Model
	label   string
}

// NewSpinner creates a spinner with an optional label drawn after the frame.
func NewSpinner(label string) *SpinnerModel {
	return &SpinnerModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(SpinnerStyle),
		),
		label: label,
	}
}

// SetLabel changes the text next to the spinner.
func (m *SpinnerModel) SetLabel(label string) {
	m.label = label
}

// Init returns the initial spinner tick command
func (m *SpinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update advances the animation on spinner ticks.
func (m *SpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

// View returns the current frame followed by the label.
func (m *SpinnerModel) View() string {
	if m.label == "" {
		return m.spinner.View()
	}
	return m.spinner.View() + " " + m.label
}
