package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#B4BEFE"))

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6ADC8"))

	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#CDD6F4"))

	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))

	stoppedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))

	alertStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAB387"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6ADC8")).Padding(1, 0)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#585B70")).
			Padding(1, 2)
)
