package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
)

// Title renders a bold heading
func Title(s string) string { return titleStyle.Render(s) }

// Muted renders secondary text
func Muted(s string) string { return mutedStyle.Render(s) }

// Success renders a check mark followed by s
func Success(s string) string { return successStyle.Render("✓") + " " + s }

// Failure renders a cross followed by s
func Failure(s string) string { return errorStyle.Render("✗") + " " + s }

// KeyValue renders an aligned "label value" line
func KeyValue(label, value string) string {
	return "  " + labelStyle.Render(label) + value
}
