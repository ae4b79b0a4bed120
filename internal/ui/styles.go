package ui

import "github.com/charmbracelet/lipgloss"

// Nightfall palette
var (
	nightViolet = lipgloss.Color("#9D7CD8")
	nightBlue   = lipgloss.Color("#7AA2F7")
	nightLight  = lipgloss.Color("#C0CAF5")
	nightGray   = lipgloss.Color("#3B4261")

	// Status colors
	successColor = lipgloss.Color("#9ECE6A")
	errorColor   = lipgloss.Color("#F7768E")
	warnColor    = lipgloss.Color("#E0AF68")
	mutedColor   = lipgloss.Color("#565F89")
)

// LogoCompact returns a compact inline logo for the header
func LogoCompact() string {
	moon := lipgloss.NewStyle().Foreground(nightViolet).Bold(true).Render("☾")
	name := lipgloss.NewStyle().Foreground(nightLight).Bold(true).Render("nightfall")
	return moon + " " + name
}

// Styles
var (
	// Section titles
	titleStyle = lipgloss.NewStyle().
			Foreground(nightViolet).
			Bold(true).
			MarginBottom(1)

	// Active pane border
	activePaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(nightViolet).
			Padding(1, 2)

	// Inactive pane border
	inactivePaneStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(nightGray).
				Padding(1, 2)

	onStyle = lipgloss.NewStyle().
		Foreground(successColor)

	offStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	warnStyle = lipgloss.NewStyle().
			Foreground(warnColor)

	selectedStyle = lipgloss.NewStyle().
			Foreground(nightBlue).
			Bold(true)

	// Tab bar
	activeTabStyle = lipgloss.NewStyle().
			Foreground(nightBlue).
			Bold(true).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Padding(0, 1)

	// Variant badge
	variantBadge = lipgloss.NewStyle().
			Foreground(warnColor)

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(nightBlue).
			Bold(true)

	// Muted text
	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	logEmptyStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)
)

// StateDot returns a colored dot for a section or install state
func StateDot(on bool) string {
	if on {
		return onStyle.Render("●")
	}
	return offStyle.Render("○")
}
