package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var panelBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

// RenderPanel draws content in a rounded box with title set into the top border:
//
//	╭─ Deployment ───╮
//	│                │
//	│  Status  IDLE  │
//	╰────────────────╯
func RenderPanel(title, content string) string {
	padded := lipgloss.NewStyle().Padding(1, 2, 0).Render(content)
	lines := strings.Split(padded, "\n")

	inner := 0
	for _, line := range lines {
		inner = max(inner, lipgloss.Width(line))
	}

	styledTitle := " " + TitleStyle.UnsetPadding().Render(title) + " "
	// "╭─" plus the title, then dashes up to the corner.
	fill := max(inner-lipgloss.Width(styledTitle)-1, 1)

	var b strings.Builder
	b.WriteString(panelBorderStyle.Render("╭─") + styledTitle + panelBorderStyle.Render(strings.Repeat("─", fill)+"╮") + "\n")
	for _, line := range lines {
		pad := strings.Repeat(" ", inner-lipgloss.Width(line))
		b.WriteString(panelBorderStyle.Render("│") + line + pad + panelBorderStyle.Render("│") + "\n")
	}
	b.WriteString(panelBorderStyle.Render("╰"+strings.Repeat("─", inner)+"╯") + "\n")

	return b.String()
}

// TableRow is one label/value line of a detail table.
type TableRow struct {
	Label string
	Value string
}

// TableSection groups rows under an optional header.
type TableSection struct {
	Header string
	Rows   []TableRow
}

// RenderDetailTable renders labelled values, section by section.
func RenderDetailTable(sections []TableSection) string {
	labelWidth := 0
	for _, section := range sections {
		for _, row := range section.Rows {
			labelWidth = max(labelWidth, lipgloss.Width(row.Label))
		}
	}
	labelStyle := BoldStyle.Width(labelWidth + 2)

	var out strings.Builder
	for i, section := range sections {
		if section.Header != "" {
			if i > 0 {
				out.WriteString("\n")
			}
			out.WriteString(HeaderStyle.Render(section.Header))
			out.WriteString("\n\n")
		}
		for _, row := range section.Rows {
			out.WriteString(labelStyle.Render(row.Label))
			out.WriteString(row.Value)
			out.WriteString("\n")
		}
	}

	return out.String()
}
