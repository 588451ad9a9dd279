package cli

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(22)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	periodStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
	fertileStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func row(label string, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
}
