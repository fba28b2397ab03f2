package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Job status badges, see ColorizeStatus
	StatusSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	StatusFailedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	StatusStoppedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	StatusFixingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	StatusActiveStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	PendingStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	BoldStyle    = lipgloss.NewStyle().Bold(true)
	SpinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	// Panels and tables
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true).
			Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Padding(0, 1)

	// Log prefix (usually a timestamp), dimmed so the message stands out
	TimestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246"))

	// Log bodies carrying the error or success glyph
	LogErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	LogSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)

	// Dashboard chrome
	LabelStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Width(12)
	FocusedLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true).Width(12)
	LogBoxStyle       = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240"))
)
