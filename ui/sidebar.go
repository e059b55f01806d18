package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"sichat/api"
	"sichat/config"
	"sichat/storage"
)

const (
	sidebarWidth    = 34
	newChatLabel    = "+ New chat"
	noConversations = "No conversations yet"
	noMatches       = "No matches found"
)

// sidebarState is the conversation list. Row 0 is "New chat"; row i+1 is
// visible[i].
type sidebarState struct {
	selected   int
	filterMode bool
	filter     textinput.Model
	renaming   bool
	rename     textinput.Model
	visible    []api.Conversation
}

func newSidebar() sidebarState {
	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "Search conversations"
	filter.CharLimit = 64

	rename := textinput.New()
	rename.Prompt = ""
	rename.CharLimit = 120

	return sidebarState{filter: filter, rename: rename}
}

// refresh re-applies the search to the model's list and keeps the
// selection in range
func (s *sidebarState) refresh(list []api.Conversation) {
	s.visible = storage.FilterConversations(list, strings.TrimSpace(s.filter.Value()))
	s.selected = min(max(s.selected, 0), len(s.visible))
}

// selectedConversation returns the highlighted entry, false on "New chat"
func (s sidebarState) selectedConversation() (api.Conversation, bool) {
	if s.selected < 1 || s.selected > len(s.visible) {
		return api.Conversation{}, false
	}
	return s.visible[s.selected-1], true
}

func (a App) updateSidebar(msg tea.KeyMsg) (App, tea.Cmd) {
	s := &a.sidebar

	if s.renaming {
		switch msg.String() {
		case "esc":
			s.renaming = false
			s.rename.Blur()
			return a, nil
		case "enter":
			s.renaming = false
			s.rename.Blur()
			c, ok := s.selectedConversation()
			title := strings.TrimSpace(s.rename.Value())
			if !ok || title == "" || title == c.Title {
				return a, nil
			}
			return a, a.dataModel.RenameConversation(c.ID, title)
		}
		var cmd tea.Cmd
		s.rename, cmd = s.rename.Update(msg)
		return a, cmd
	}

	if s.filterMode {
		switch msg.String() {
		case "esc":
			s.filterMode = false
			s.filter.SetValue("")
			s.filter.Blur()
			s.refresh(a.dataModel.Conversations)
			return a, nil
		case "enter", "down":
			s.filterMode = false
			s.filter.Blur()
			if len(s.visible) > 0 {
				s.selected = 1
			}
			return a, nil
		}
		var cmd tea.Cmd
		s.filter, cmd = s.filter.Update(msg)
		s.selected = 0
		s.refresh(a.dataModel.Conversations)
		return a, cmd
	}

	switch {
	case msg.String() == "esc" || a.is(msg, "focus_sidebar"):
		cmd := a.setFocus(focusComposer)
		return a, cmd

	case a.is(msg, "sidebar_down") || msg.String() == "down":
		if s.selected < len(s.visible) {
			s.selected++
		}

	case a.is(msg, "sidebar_up") || msg.String() == "up":
		if s.selected > 0 {
			s.selected--
		}

	case a.is(msg, "sidebar_search"):
		s.filterMode = true
		cmd := s.filter.Focus()
		return a, cmd

	case a.is(msg, "sidebar_rename"):
		if c, ok := s.selectedConversation(); ok {
			s.renaming = true
			s.rename.SetValue(c.Title)
			s.rename.CursorEnd()
			cmd := s.rename.Focus()
			return a, cmd
		}

	case a.is(msg, "sidebar_delete"):
		if c, ok := s.selectedConversation(); ok {
			a.pendingDelete = c.ID
			a.confirm = ConfirmationState{
				Active:  true,
				Title:   "⚠ Delete Conversation",
				Message: fmt.Sprintf("Are you sure you want to delete:\n\n\"%s\"\n\nThis action cannot be undone.", c.Title),
			}
		}

	case a.is(msg, "sidebar_open"):
		c, ok := s.selectedConversation()
		if !ok {
			a.newChat()
			cmd := a.setFocus(focusComposer)
			return a, cmd
		}
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] Opening conversation %s", c.ID)
		}
		a.loadingHistory = true
		a.openingID = c.ID
		a.resetThreadView()
		a.updateViewportContent(true)
		focusCmd := a.setFocus(focusComposer)
		return a, tea.Batch(a.dataModel.OpenConversation(c.ID), focusCmd, a.spinner.Tick)
	}
	return a, nil
}

// confirmDelete handles the answer to the delete confirmation
func (a App) confirmDelete(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := a.pendingDelete
		a.confirm = ConfirmationState{}
		a.pendingDelete = ""
		return a, a.dataModel.DeleteConversations(id)
	case "n", "N", "esc":
		a.confirm = ConfirmationState{}
		a.pendingDelete = ""
	}
	return a, nil
}

// updatedLabel is the relative time shown under a conversation title
func updatedLabel(c api.Conversation) string {
	t := c.Updated()
	if t.IsZero() {
		return c.RecentTimestamp
	}
	return humanize.Time(t)
}

func (a App) renderSidebar(height int) string {
	s := a.sidebar
	inner := sidebarWidth - 2

	var lines []string
	title := TitleStyle.Render("Conversations")
	if a.dataModel.Offline {
		title += " " + lipgloss.NewStyle().Foreground(warningColor).Render("(offline)")
	}
	lines = append(lines, title)

	switch {
	case s.filterMode:
		lines = append(lines, s.filter.View())
	case s.filter.Value() != "":
		lines = append(lines, DimStyle.Render(runewidth.Truncate("/ "+s.filter.Value(), inner, "…")))
	default:
		lines = append(lines, DimStyle.Render(fmt.Sprintf("%d conversations", len(a.dataModel.Conversations))))
	}
	lines = append(lines, DimStyle.Render(strings.Repeat("─", inner)))

	focused := a.focus == focusSidebar
	newChat := "  " + newChatLabel
	if focused && s.selected == 0 {
		newChat = SelectedStyle.Render("▶ " + newChatLabel)
	}
	lines = append(lines, newChat, "")

	if len(s.visible) == 0 {
		empty := noConversations
		if s.filter.Value() != "" {
			empty = noMatches
		}
		lines = append(lines, DimStyle.Italic(true).Render("  "+empty))
	}

	// Each entry takes two lines plus a blank one
	maxEntries := max((height-len(lines))/3, 1)
	start, end := 0, len(s.visible)
	if len(s.visible) > maxEntries {
		sel := max(s.selected-1, 0)
		start = min(max(sel-maxEntries/2, 0), len(s.visible)-maxEntries)
		end = start + maxEntries
	}

	for i := start; i < end; i++ {
		c := s.visible[i]
		indicator := "  "
		if c.ID == a.dataModel.Thread.ConversationID {
			indicator = "● "
		}
		name := runewidth.Truncate(c.Title, inner-2, "…")
		if name == "" {
			name = "(untitled)"
		}

		switch {
		case s.renaming && i == s.selected-1:
			name = lipgloss.NewStyle().Foreground(accentColor).Bold(true).Render(s.rename.View())
		case focused && i == s.selected-1:
			indicator = "▶ "
			name = SelectedStyle.Render(name)
		}
		lines = append(lines,
			indicator+name,
			"  "+DimStyle.Render(updatedLabel(c)),
			"",
		)
	}

	if focused {
		footer := FormatFooter("/", "Search", "r", "Rename", "d", "Delete", "Esc", "Back")
		lines = append(lines, HelpStyle.Render(wordWrap(stripANSI(footer), inner)))
	}

	return lipgloss.NewStyle().
		Width(inner).
		Height(height).
		MaxHeight(height).
		PaddingRight(1).
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(borderColor).
		Render(strings.Join(lines, "\n"))
}
