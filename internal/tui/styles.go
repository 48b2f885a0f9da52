package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, the subset the list view uses.
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorLavender lipgloss.Color = "#b4befe"
	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface2 lipgloss.Color = "#585b70"
	colorSurface0 lipgloss.Color = "#313244"
	colorMantle   lipgloss.Color = "#181825"
)

const (
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorMuted   = colorSubtext0
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	countStyle = lipgloss.NewStyle().Foreground(colorOverlay1)

	rowStyle      = lipgloss.NewStyle().Foreground(colorText)
	selectedStyle = lipgloss.NewStyle().Foreground(colorFocus).Background(colorSurface0).Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	emptyStyle    = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface2).
			Padding(0, 1)

	statusStyle    = lipgloss.NewStyle().Foreground(colorSuccess)
	statusErrStyle = lipgloss.NewStyle().Foreground(colorError)

	keyStyle      = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Background(colorMantle)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorMuted).Background(colorMantle)
	helpSepStyle  = lipgloss.NewStyle().Background(colorMantle)
)
