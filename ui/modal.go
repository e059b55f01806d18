package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// ModalType determines the color and styling of a modal
type ModalType int

const (
	ModalTypeInfo ModalType = iota
	ModalTypeWarning
	ModalTypeError
)

func (t ModalType) color() lipgloss.Color {
	switch t {
	case ModalTypeWarning:
		return warningColor
	case ModalTypeError:
		return dangerColor
	default:
		return accentColor
	}
}

// ConfirmationState is a pending yes/no question
type ConfirmationState struct {
	Active  bool
	Title   string
	Message string
}

// RenderModal draws the borderless three-section modal: title, message
// lines and footer, each separated by a rule. Message lines are centered.
func RenderModal(title string, messageLines []string, footer string, modalType ModalType, desiredWidth, width, height int) string {
	modalWidth := desiredWidth
	if modalWidth == 0 {
		modalWidth = 60
	}
	if width < modalWidth+10 {
		modalWidth = max(width-10, 10)
	}

	titleSection := lipgloss.NewStyle().
		Bold(true).
		Foreground(modalType.color()).
		Render(centerTextLine(title, modalWidth))

	var contentLines []string
	contentLines = append(contentLines, strings.Repeat(" ", modalWidth)) // Top padding
	for _, line := range messageLines {
		contentLines = append(contentLines, centerTextLine(line, modalWidth))
	}
	contentLines = append(contentLines, strings.Repeat(" ", modalWidth)) // Bottom padding

	messageSection := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Width(modalWidth).
		Render(strings.Join(contentLines, "\n"))

	footerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(footer)

	content := strings.Join([]string{titleSection, messageSection, footerSection}, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func RenderConfirmationModal(state ConfirmationState, width, height int) string {
	return RenderModal(
		state.Title,
		strings.Split(wordWrap(state.Message, 56), "\n"),
		FormatFooter("y", "Yes", "n", "No"),
		ModalTypeWarning,
		60,
		width,
		height,
	)
}

// centerTextLine centers a line of text within a given width
func centerTextLine(text string, width int) string {
	textWidth := lipgloss.Width(text)
	if textWidth >= width {
		return text
	}

	leftPad := (width - textWidth) / 2
	rightPad := width - textWidth - leftPad
	return strings.Repeat(" ", leftPad) + text + strings.Repeat(" ", rightPad)
}

// wordWrap wraps text to fit within the specified width while preserving
// newlines. Widths are measured in terminal cells.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	paragraphs := strings.Split(text, "\n")

	for i, paragraph := range paragraphs {
		words := strings.Fields(paragraph)
		if len(words) > 0 {
			currentLine := words[0]
			for _, word := range words[1:] {
				if runewidth.StringWidth(currentLine)+1+runewidth.StringWidth(word) <= width {
					currentLine += " " + word
				} else {
					result.WriteString(currentLine + "\n")
					currentLine = word
				}
			}
			result.WriteString(currentLine)
		}

		if i < len(paragraphs)-1 {
			result.WriteString("\n")
		}
	}

	return result.String()
}
