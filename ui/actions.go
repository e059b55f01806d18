package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"sichat/model"
)

const maxTagWidth = 48

// actionTag is the label of one previous action: its number, the intent's
// label and the query that produced it
func actionTag(n int, action model.Action) string {
	label := fmt.Sprintf("%d. %s", n, model.ActionLabel(action.Intent))
	if action.UserQuery != "" {
		label += ": " + action.UserQuery
	}
	return runewidth.Truncate(label, maxTagWidth, "…")
}

// renderActionTags lays the tags out in rows that fit width. selected is
// the highlighted tag, or -1.
func renderActionTags(msg model.Message, width, selected int) string {
	var parts []string
	if msg.Text != "" {
		parts = append(parts, wordWrap(msg.Text, width))
	}

	actions := model.ActionsOf(msg)
	if len(actions) == 0 {
		if msg.Text == "" {
			parts = append(parts, DimStyle.Render(model.NoActionsAvailable))
		}
		return strings.Join(parts, "\n")
	}

	var rows []string
	var row []string
	rowWidth := 0
	for i, action := range actions {
		style := TagStyle
		if i == selected {
			style = SelectedTagStyle
		}
		tag := style.Render(actionTag(i+1, action))
		w := lipgloss.Width(tag)
		if rowWidth > 0 && rowWidth+1+w > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, rowWidth = nil, 0
		}
		if rowWidth > 0 {
			row = append(row, " ")
			rowWidth++
		}
		row = append(row, tag)
		rowWidth += w
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	parts = append(parts, rows...)
	return strings.Join(parts, "\n")
}
