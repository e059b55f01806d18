package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"sichat/grid"
	"sichat/model"
)

const botName = "Storage Insights"

// welcomeCard is a canned request offered on an empty thread
type welcomeCard struct {
	action string
	title  string
	desc   string
}

var welcomeCards = []welcomeCard{
	{"morning_coffee", "☕ Morning cup of coffee", "A summary of your storage systems and open alerts"},
	{"previous_actions", "↺ Previous actions", "Run one of your earlier requests again"},
	{"capabilities", "? What can you do?", "See the questions the chatbot can answer"},
}

// updateViewportContent re-renders the thread into the viewport
func (a *App) updateViewportContent(gotoBottom bool) {
	if a.viewport.Width == 0 {
		return
	}
	width := max(a.viewport.Width-2, 20)

	if a.loadingHistory {
		a.viewport.SetContent(a.spinner.View() + " " + DimStyle.Render("Loading conversation..."))
		return
	}

	msgs := a.dataModel.Thread.Messages()
	if len(msgs) == 0 {
		a.viewport.SetContent(a.renderWelcome(width))
		a.viewport.GotoTop()
		return
	}

	focus := a.focusedIndex()
	var content strings.Builder
	for i, msg := range msgs {
		content.WriteString(a.renderMessage(msg, width, i == focus))
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

func (a App) renderWelcome(width int) string {
	name := a.dataModel.Session.Username
	if name == "" {
		name = "there"
	}

	var lines []string
	lines = append(lines,
		lipgloss.NewStyle().Bold(true).Foreground(successColor).Render("Hello, "+name),
		wordWrap("Ask me about your storage systems, volumes, alerts and capacity in IBM Storage Insights. Or start with one of these:", width),
		"",
	)

	for i, card := range welcomeCards {
		style := TagStyle
		if a.cardIdx == i+1 {
			style = SelectedTagStyle
		}
		body := TitleStyle.Render(card.title) + "\n" + DimStyle.Render(card.desc) + "\n" +
			HelpStyle.Render(a.keys.DisplayActionKey(card.action))
		lines = append(lines, style.Width(min(width-2, 60)).Render(body))
	}

	lines = append(lines, "", HelpStyle.Render("Tab selects a card, Enter runs it."))
	return strings.Join(lines, "\n")
}

func (a App) renderMessage(msg model.Message, width int, focused bool) string {
	marker := ""
	if focused && a.focusIdx >= 0 {
		marker = HighlightStyle.Render("▶ ")
	}

	if msg.IsUser() {
		name := a.dataModel.Session.Username
		if name == "" {
			name = "You"
		}
		return formatUserMessage(marker, UserStyle.Render(name), wordWrap(msg.Text, width-2))
	}

	body := a.renderBotBody(msg, width, focused)
	return fmt.Sprintf("%s%s\n%s\n\n", marker, BotStyle.Bold(true).Render(botName), body)
}

// renderBotBody dispatches on the message's render kind
func (a App) renderBotBody(msg model.Message, width int, focused bool) string {
	switch model.Classify(msg) {
	case model.RenderWaiting:
		return a.spinner.View() + " " + DimStyle.Render(waitingText)

	case model.RenderTable:
		return a.renderTableMessage(msg, width, false, focused)

	case model.RenderTableGroup:
		return a.renderTableGroup(msg, width, focused)

	case model.RenderActionTagList:
		selected := -1
		if a.actionMode && focused {
			selected = a.actionIdx[msg.ID]
		}
		return renderActionTags(msg, width, selected)

	case model.RenderChart:
		return renderChartMessage(msg, width)

	case model.RenderMarkdownText:
		body := a.markdownFor(msg, width)
		if link := moreDetails(msg.Link); link != "" {
			body += "\n" + link
		}
		return body

	default:
		return wordWrap(msg.Text, width)
	}
}

// markdownFor renders a message's markdown once per width
func (a App) markdownFor(msg model.Message, width int) string {
	key := fmt.Sprintf("%s/%d", msg.ID, width)
	if out, ok := a.mdCache[key]; ok {
		return out
	}
	out := renderMarkdown(markdownSource(msg), width)
	if msg.ID != "" {
		a.mdCache[key] = out
	}
	return out
}

func formatUserMessage(marker, name, content string) string {
	bar := UserStyle.Render("┃")

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s%s %s\n", marker, bar, name))
	for _, line := range strings.Split(content, "\n") {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}
	result.WriteString("\n")
	return result.String()
}

// focusedIndex is the message that copy, export and table keys act on:
// the explicitly focused one, else the latest bot message
func (a App) focusedIndex() int {
	msgs := a.dataModel.Thread.Messages()
	if a.focusIdx >= 0 && a.focusIdx < len(msgs) {
		return a.focusIdx
	}
	for i := len(msgs) - 1; i >= 0; i-- {
		if !msgs[i].IsUser() && !msgs[i].Loading {
			return i
		}
	}
	return -1
}

func (a App) focusedMessage() (model.Message, bool) {
	i := a.focusedIndex()
	if i < 0 {
		return model.Message{}, false
	}
	return a.dataModel.Thread.Messages()[i], true
}

// moveFocus steps the focused message over bot messages. Stepping past
// the newest one goes back to following the latest.
func (a *App) moveFocus(delta int) {
	msgs := a.dataModel.Thread.Messages()
	i := a.focusedIndex()
	for {
		i += delta
		if i < 0 {
			return
		}
		if i >= len(msgs) {
			a.focusIdx = -1
			return
		}
		if !msgs[i].IsUser() {
			a.focusIdx = i
			return
		}
	}
}

// focusedTable returns the grid message paging keys act on. In a morning
// summary that is the selected sub-table.
func (a App) focusedTable() (model.Message, bool) {
	msg, ok := a.focusedMessage()
	if !ok {
		return model.Message{}, false
	}
	switch model.Classify(msg) {
	case model.RenderTable:
		return msg, true
	case model.RenderTableGroup:
		return msg.Group[a.groupFocus[msg.ID]%len(msg.Group)], true
	}
	return model.Message{}, false
}

// messageText is the plain text copied to the clipboard for a message.
// Tables are copied as CSV.
func messageText(msg model.Message) string {
	if msg.IsUser() {
		return msg.Text
	}

	var parts []string
	switch model.Classify(msg) {
	case model.RenderTable:
		if msg.Text != "" {
			parts = append(parts, msg.Text)
		}
		t := grid.Build(msg.Intent, msg.Data, time.Local)
		if !t.Empty() {
			if csv, err := grid.ExportCSV(t); err == nil {
				parts = append(parts, strings.TrimRight(csv, "\n"))
			}
		}

	case model.RenderTableGroup:
		for _, sub := range msg.Group {
			// copied the way they are drawn
			sub.Identifier = model.IdentifierGrid
			parts = append(parts, messageText(sub))
		}
		return strings.Join(parts, "\n\n")

	case model.RenderActionTagList:
		if msg.Text != "" {
			parts = append(parts, msg.Text)
		}
		for i, action := range model.ActionsOf(msg) {
			parts = append(parts, actionTag(i+1, action))
		}

	case model.RenderChart:
		if msg.Text != "" {
			parts = append(parts, msg.Text)
		}
		if series, ok := grid.ChartSeries(msg.Data); ok {
			parts = append(parts, "Time,"+series.Title)
			for _, p := range series.Points {
				parts = append(parts, fmt.Sprintf("%q,%g", p.Time.Local().Format(grid.DataTimeLayout), p.Value))
			}
		}

	case model.RenderMarkdownText:
		parts = append(parts, markdownSource(msg))

	default:
		parts = append(parts, msg.Text)
	}

	if msg.Link != "" {
		parts = append(parts, "More details: "+msg.Link)
	}
	return strings.Join(parts, "\n")
}

// focusedLink returns the "more details" link of the focused message or
// its selected sub-table
func (a App) focusedLink() string {
	if t, ok := a.focusedTable(); ok && t.Link != "" {
		return t.Link
	}
	if msg, ok := a.focusedMessage(); ok {
		return msg.Link
	}
	return ""
}
