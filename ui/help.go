package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderHelpModal(width, height int) string {
	kb := a.keys

	green := lipgloss.NewStyle().
		Bold(true).
		Foreground(successColor)

	title := green.Render("Storage Insights Chatbot - Keyboard Shortcuts")

	blue := lipgloss.NewStyle().Foreground(accentColor)

	globalActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Global Actions"),
		fmt.Sprintf("• %-13s New chat", kb.DisplayActionKey("new_chat")),
		fmt.Sprintf("• %-13s Conversations", kb.DisplayActionKey("focus_sidebar")),
		fmt.Sprintf("• %-13s Morning coffee", kb.DisplayActionKey("morning_coffee")),
		fmt.Sprintf("• %-13s Previous actions", kb.DisplayActionKey("previous_actions")),
		fmt.Sprintf("• %-13s What can you do?", kb.DisplayActionKey("capabilities")),
		fmt.Sprintf("• %-13s Log out", kb.DisplayActionKey("logout")),
		fmt.Sprintf("• %-13s Toggle this help", kb.DisplayActionKey("help")),
		fmt.Sprintf("• %-13s Quit", kb.DisplayActionKey("quit")),
	)

	conversations := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Conversations"),
		fmt.Sprintf("• %-13s Open", kb.DisplayActionKey("sidebar_open")),
		fmt.Sprintf("• %-13s Search", kb.DisplayActionKey("sidebar_search")),
		fmt.Sprintf("• %-13s Rename", kb.DisplayActionKey("sidebar_rename")),
		fmt.Sprintf("• %-13s Delete", kb.DisplayActionKey("sidebar_delete")),
	)

	chatNavigation := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Chat Navigation"),
		fmt.Sprintf("• %-13s Scroll down 1 line", kb.DisplayActionKey("scroll_down")),
		fmt.Sprintf("• %-13s Scroll up 1 line", kb.DisplayActionKey("scroll_up")),
		fmt.Sprintf("• %-13s Half page down", kb.DisplayActionKey("half_page_down")),
		fmt.Sprintf("• %-13s Half page up", kb.DisplayActionKey("half_page_up")),
		fmt.Sprintf("• %-13s Jump to top", kb.DisplayActionKey("scroll_to_top")),
		fmt.Sprintf("• %-13s Jump to bottom", kb.DisplayActionKey("scroll_to_bottom")),
		fmt.Sprintf("• %-13s Previous response", kb.DisplayActionKey("prev_message")),
		fmt.Sprintf("• %-13s Next response", kb.DisplayActionKey("next_message")),
	)

	responseActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Responses"),
		"• Enter         Send message",
		"• Alt+Enter     New line",
		fmt.Sprintf("• %-13s Select action or card", kb.DisplayActionKey("next_action")),
		fmt.Sprintf("• %-13s Next table page", kb.DisplayActionKey("next_page")),
		fmt.Sprintf("• %-13s Previous table page", kb.DisplayActionKey("prev_page")),
		fmt.Sprintf("• %-13s Items per page", kb.DisplayActionKey("page_size")),
		fmt.Sprintf("• %-13s Next summary table", kb.DisplayActionKey("next_table")),
		fmt.Sprintf("• %-13s Copy response", kb.DisplayActionKey("copy_message")),
		fmt.Sprintf("• %-13s Export table as CSV", kb.DisplayActionKey("export_csv")),
		fmt.Sprintf("• %-13s Open details link", kb.DisplayActionKey("open_link")),
	)

	column1 := lipgloss.JoinVertical(
		lipgloss.Left,
		globalActions,
		"",
		conversations,
	)

	column2 := lipgloss.JoinVertical(
		lipgloss.Left,
		chatNavigation,
		"",
		responseActions,
	)

	boxWidth := min(100, max(width-4, 40))
	columnStyle := lipgloss.NewStyle().Width(max(boxWidth/2-8, 30)).PaddingLeft(4)

	columns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(column1),
		columnStyle.Render(column2),
	)
	if width < 84 {
		columns = lipgloss.JoinVertical(lipgloss.Left, column1, "", column2)
	}

	footer := lipgloss.NewStyle().
		Foreground(dimColor).
		Render(fmt.Sprintf("Press %s or Esc to close this help", kb.DisplayActionKey("help")))

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		columns,
		"",
		footer,
	)

	helpBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(1, 2).
		Width(boxWidth)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		helpBox.Render(content),
	)
}
