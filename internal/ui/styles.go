package ui

import "github.com/charmbracelet/lipgloss"

var (
	tabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("245"))

	activeTabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Underline(true)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("111"))

	focusedBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("205")).
				Padding(0, 1)

	blurredBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(0, 1)

	statusInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	statusWarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	statusErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("203")).
				Bold(true)

	statusSuccessStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("84"))

	responseStatusOK = lipgloss.NewStyle().
				Foreground(lipgloss.Color("84")).
				Bold(true)

	responseStatusErr = lipgloss.NewStyle().
				Foreground(lipgloss.Color("203")).
				Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	methodStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1)
)

func statusStyleFor(level statusLevel) lipgloss.Style {
	switch level {
	case statusWarn:
		return statusWarnStyle
	case statusError:
		return statusErrorStyle
	case statusSuccess:
		return statusSuccessStyle
	default:
		return statusInfoStyle
	}
}
