package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#1A5D1A")).
			Padding(0, 1)

	tableStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			Padding(0, 1)

	redCardStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555"))
	blackCardStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))

	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))

	statusStyles = map[string]lipgloss.Style{
		"winner":    lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
		"blackjack": lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
		"busted":    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555")),
		"loser":     lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
	}

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))

	logTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#874BFD"))
)
