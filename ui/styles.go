package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	dimColor       = lipgloss.Color("7")
	accentColor    = lipgloss.Color("12")
	successColor   = lipgloss.Color("10")
	warningColor   = lipgloss.Color("11")
	dangerColor    = lipgloss.Color("9")
	highlightColor = lipgloss.Color("13")
	borderColor    = lipgloss.Color("8")

	// User message style
	UserStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)
	// NO .Background() = transparent!

	// Bot message style
	BotStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	// System/timestamp style
	DimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	// Border style
	BorderStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	// Title style
	TitleStyle = lipgloss.NewStyle().
			Bold(true)

	// Status bar style
	StatusStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(highlightColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(dangerColor).
			Bold(true)

	LinkStyle = lipgloss.NewStyle().
			Foreground(dangerColor).
			Underline(true)

	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(accentColor).
				Bold(true).
				Padding(0, 1)

	TableCellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	TagStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)

	// The thick border keeps the selection visible without colors
	SelectedTagStyle = TagStyle.
				Border(lipgloss.ThickBorder()).
				Foreground(warningColor).
				BorderForeground(warningColor).
				Bold(true)
)

// ApplyTheme switches the palette for light terminals. Dark is the default.
func ApplyTheme(theme string) {
	if theme != "light" {
		return
	}
	dimColor = lipgloss.Color("8")
	accentColor = lipgloss.Color("4")
	successColor = lipgloss.Color("2")
	warningColor = lipgloss.Color("3")
	dangerColor = lipgloss.Color("1")
	highlightColor = lipgloss.Color("5")
	borderColor = lipgloss.Color("7")

	UserStyle = UserStyle.Foreground(successColor)
	BotStyle = BotStyle.Foreground(accentColor)
	DimStyle = DimStyle.Foreground(dimColor)
	BorderStyle = BorderStyle.Foreground(dimColor)
	StatusStyle = StatusStyle.Foreground(dimColor)
	SelectedStyle = SelectedStyle.Foreground(warningColor)
	HelpStyle = HelpStyle.Foreground(dimColor)
	HighlightStyle = HighlightStyle.Foreground(highlightColor)
	ErrorStyle = ErrorStyle.Foreground(dangerColor)
	LinkStyle = LinkStyle.Foreground(dangerColor)
	TableHeaderStyle = TableHeaderStyle.Foreground(accentColor)
	TagStyle = TagStyle.Foreground(accentColor).BorderForeground(borderColor)
	SelectedTagStyle = SelectedTagStyle.Foreground(warningColor).BorderForeground(warningColor)
}

// FormatFooter formats a footer string with alternating keys and descriptions.
// Keys remain default color, descriptions are rendered in accent blue+bold.
// Usage: FormatFooter("j/k", "Navigate", "Enter", "Open", "Esc", "Close")
func FormatFooter(parts ...string) string {
	descStyle := lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	var result []string
	for i := 0; i < len(parts); i += 2 {
		if i+1 < len(parts) {
			result = append(result, parts[i]+" "+descStyle.Render(parts[i+1]))
		}
	}
	return strings.Join(result, "  ")
}
