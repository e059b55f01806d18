package ui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"sichat/api"
	"sichat/config"
	"sichat/grid"
	"sichat/model"
)

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.layout()
		a.updateViewportContent(true)
		return a, nil

	case spinner.TickMsg:
		if !a.spinning() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		if a.dataModel.LoggedIn {
			a.updateViewportContent(a.viewport.AtBottom())
		}
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)

	case model.SessionRestoredMsg:
		a.restoring = false
		cmd := a.dataModel.ApplyRestoredSession(msg)
		if !a.dataModel.LoggedIn {
			return a, cmd
		}
		focusCmd := a.enterMain()
		return a, tea.Batch(cmd, focusCmd)

	case model.RememberedLoginMsg:
		a.login.prefill(msg)
		return a, nil

	case model.LoginDoneMsg:
		a.login.loading = false
		cmd, err := a.dataModel.ApplyLogin(msg)
		if err != nil {
			a.login.err = loginErrorText(err)
			return a, nil
		}
		focusCmd := a.enterMain()
		return a, tea.Batch(cmd, focusCmd)

	case model.LogoutDoneMsg:
		if msg.Err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[UI] %v", msg.Err)
		}
		return a, nil

	case model.ConversationsMsg:
		err := a.dataModel.ApplyConversations(msg)
		if a.checkExpired() {
			return a, nil
		}
		a.sidebar.refresh(a.dataModel.Conversations)
		if err != nil {
			cmd := a.setStatus(api.ErrorText(err, "Failed to load conversations"), true)
			return a, cmd
		}
		return a, nil

	case model.HistoryLoadedMsg:
		// Only the most recently opened conversation is shown
		if msg.ConversationID != a.openingID {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[UI] Ignoring history for %s, waiting for %s", msg.ConversationID, a.openingID)
			}
			return a, nil
		}
		a.openingID = ""
		a.loadingHistory = false
		err := a.dataModel.ApplyHistory(msg)
		if a.checkExpired() {
			return a, nil
		}
		a.resetThreadView()
		a.updateViewportContent(true)
		switch {
		case err != nil:
			cmd := a.setStatus(api.ErrorText(err, "Failed to load conversation"), true)
			return a, cmd
		case msg.FromCache:
			cmd := a.setStatus("Backend unreachable: showing the cached conversation", true)
			return a, cmd
		}
		return a, nil

	case model.ConversationRenamedMsg:
		err := a.dataModel.ApplyRename(msg)
		if a.checkExpired() {
			return a, nil
		}
		a.sidebar.refresh(a.dataModel.Conversations)
		if err != nil {
			cmd := a.setStatus(api.ErrorText(err, "Failed to rename conversation"), true)
			return a, cmd
		}
		cmd := a.setStatus("Conversation renamed", false)
		return a, cmd

	case model.ConversationsDeletedMsg:
		err := a.dataModel.ApplyDelete(msg)
		if a.checkExpired() {
			return a, nil
		}
		a.sidebar.refresh(a.dataModel.Conversations)
		if err != nil {
			cmd := a.setStatus(api.ErrorText(err, "Failed to delete conversation"), true)
			return a, cmd
		}
		if a.dataModel.Thread.Empty() {
			a.resetThreadView()
		}
		a.updateViewportContent(true)
		text := msg.Message
		if text == "" {
			text = "Conversation deleted"
		}
		cmd := a.setStatus(text, false)
		return a, cmd

	case model.TurnDoneMsg:
		cmd := a.dataModel.ApplyTurn(msg)
		if a.checkExpired() {
			return a, nil
		}
		a.sidebar.refresh(a.dataModel.Conversations)
		a.updateViewportContent(true)
		return a, cmd

	case model.ClipboardMsg:
		if msg.Err != nil {
			cmd := a.setStatus("Failed to copy to clipboard: "+msg.Err.Error(), true)
			return a, cmd
		}
		cmd := a.setStatus("Copied "+msg.What+" to clipboard", false)
		return a, cmd

	case model.CSVExportedMsg:
		if msg.Err != nil {
			cmd := a.setStatus(msg.Err.Error(), true)
			return a, cmd
		}
		cmd := a.setStatus("Table exported to "+msg.Path, false)
		return a, cmd

	case linkOpenedMsg:
		if msg.Err != nil {
			cmd := a.setStatus(msg.Err.Error(), true)
			return a, cmd
		}
		return a, nil

	case model.FlashTickMsg:
		if time.Since(a.statusAt) >= flashDuration {
			a.status = ""
			a.statusError = false
		}
		return a, nil
	}

	// Cursor blink and other component messages
	var cmd tea.Cmd
	if a.dataModel.LoggedIn {
		a.textarea, cmd = a.textarea.Update(msg)
	} else if a.login.focus < len(a.login.inputs) {
		a.login.inputs[a.login.focus], cmd = a.login.inputs[a.login.focus].Update(msg)
	}
	return a, cmd
}

// spinning reports whether anything on screen is waiting for the backend
func (a App) spinning() bool {
	return a.restoring || a.login.loading || a.loadingHistory || a.dataModel.Thread.HasPending()
}

// checkExpired returns to the login screen when the backend rejected the key
func (a *App) checkExpired() bool {
	if a.dataModel.LoggedIn || !a.dataModel.SessionExpired {
		return false
	}
	if config.DebugLog != nil {
		config.DebugLog.Printf("[UI] API key rejected, returning to login")
	}
	a.toLogin()
	return true
}

func loginErrorText(err error) string {
	if errors.Is(err, api.ErrUnauthorized) {
		return loginFailed
	}
	return api.ErrorText(err, loginFailed)
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" || a.is(msg, "quit") {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] Quit requested")
		}
		a.dataModel.Quitting = true
		return a, tea.Quit
	}

	if !a.dataModel.LoggedIn {
		if a.restoring {
			return a, nil
		}
		return a.updateLogin(msg)
	}
	if a.confirm.Active {
		return a.confirmDelete(msg)
	}
	if a.showHelp {
		if msg.String() == "esc" || a.is(msg, "help") {
			a.showHelp = false
		}
		return a, nil
	}
	if a.focus == focusSidebar {
		return a.updateSidebar(msg)
	}

	// No new turns until the opened conversation has loaded
	if a.loadingHistory && (msg.String() == "enter" || a.is(msg, "morning_coffee") ||
		a.is(msg, "previous_actions") || a.is(msg, "capabilities")) {
		return a, nil
	}

	switch {
	case a.is(msg, "help"):
		a.showHelp = true
		return a, nil

	case a.is(msg, "focus_sidebar"):
		cmd := a.setFocus(focusSidebar)
		return a, cmd

	case a.is(msg, "new_chat"):
		a.newChat()
		return a, nil

	case a.is(msg, "logout"):
		cmd := a.dataModel.Logout()
		a.toLogin()
		return a, cmd

	case a.is(msg, "morning_coffee"):
		return a.startTurn(a.dataModel.MorningCoffee())

	case a.is(msg, "previous_actions"):
		return a.startTurn(a.dataModel.PreviousActions())

	case a.is(msg, "capabilities"):
		return a.startTurn(a.dataModel.AskCapabilities())

	case a.is(msg, "copy_message"):
		m, ok := a.focusedMessage()
		if !ok {
			cmd := a.setStatus("Nothing to copy yet", true)
			return a, cmd
		}
		return a, copyToClipboard("message", messageText(m))

	case a.is(msg, "export_csv"):
		t, ok := a.focusedTable()
		table := grid.Build(t.Intent, t.Data, time.Local)
		if !ok || table.Empty() {
			cmd := a.setStatus("No table to export", true)
			return a, cmd
		}
		return a, exportTable(table, exportDir())

	case a.is(msg, "open_link"):
		link := a.focusedLink()
		if link == "" {
			link = a.dataModel.DashboardURL()
		}
		if link == "" {
			cmd := a.setStatus("No link to open", true)
			return a, cmd
		}
		return a, openURL(link)

	case a.is(msg, "clear_input"):
		a.textarea.Reset()
		return a, nil

	case a.is(msg, "scroll_down"):
		a.viewport.SetYOffset(a.viewport.YOffset + 1)
		return a, nil

	case a.is(msg, "scroll_up"):
		a.viewport.SetYOffset(a.viewport.YOffset - 1)
		return a, nil

	case a.is(msg, "half_page_down"):
		a.viewport.HalfViewDown()
		return a, nil

	case a.is(msg, "half_page_up"):
		a.viewport.HalfViewUp()
		return a, nil

	case a.is(msg, "scroll_to_top"):
		a.viewport.GotoTop()
		return a, nil

	case a.is(msg, "scroll_to_bottom"):
		a.viewport.GotoBottom()
		return a, nil

	case a.is(msg, "prev_message"):
		a.moveFocus(-1)
		a.actionMode = false
		a.updateViewportContent(false)
		return a, nil

	case a.is(msg, "next_message"):
		a.moveFocus(1)
		a.actionMode = false
		a.updateViewportContent(a.focusIdx < 0)
		return a, nil

	case a.is(msg, "next_page"):
		a.turnPage(1)
		return a, nil

	case a.is(msg, "prev_page"):
		a.turnPage(-1)
		return a, nil

	case a.is(msg, "page_size"):
		if t, ok := a.focusedTable(); ok {
			tv := a.tableViewFor(t.ID)
			tv.size = grid.NextPageSize(tv.size)
			tv.page = 1
			a.tables[t.ID] = tv
			a.pageSize = tv.size
			a.updateViewportContent(false)
			if a.dataModel.Config != nil {
				return a, savePageSize(a.dataModel.Config.DataDir(), tv.size)
			}
		}
		return a, nil

	case a.is(msg, "next_table"):
		if m, ok := a.focusedMessage(); ok && model.Classify(m) == model.RenderTableGroup {
			a.groupFocus[m.ID] = (a.groupFocus[m.ID] + 1) % len(m.Group)
			a.updateViewportContent(false)
		}
		return a, nil

	case a.is(msg, "next_action"):
		a.nextSelection()
		return a, nil

	case msg.String() == "esc":
		a.actionMode = false
		a.cardIdx = 0
		a.focusIdx = -1
		a.updateViewportContent(false)
		return a, nil

	case msg.String() == "enter":
		return a.submit()
	}

	if a.actionMode {
		a.actionMode = false
		a.updateViewportContent(false)
	}
	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

// submit sends the composer text, or runs the selected action or card
// when the composer is empty
func (a App) submit() (App, tea.Cmd) {
	if a.actionMode {
		if m, ok := a.focusedMessage(); ok {
			actions := model.ActionsOf(m)
			if i := a.actionIdx[m.ID]; i >= 0 && i < len(actions) {
				return a.startTurn(a.dataModel.ExecuteAction(actions[i]))
			}
		}
		a.actionMode = false
		return a, nil
	}

	text := strings.TrimSpace(a.textarea.Value())
	if text == "" {
		if a.dataModel.Thread.Empty() && a.cardIdx > 0 {
			return a.runCard(welcomeCards[a.cardIdx-1].action)
		}
		return a, nil
	}

	next, cmd := a.startTurn(a.dataModel.SendQuery(text))
	if cmd != nil && next.status == "" {
		next.textarea.Reset()
	}
	return next, cmd
}

func (a App) runCard(action string) (App, tea.Cmd) {
	switch action {
	case "morning_coffee":
		return a.startTurn(a.dataModel.MorningCoffee())
	case "previous_actions":
		return a.startTurn(a.dataModel.PreviousActions())
	default:
		return a.startTurn(a.dataModel.AskCapabilities())
	}
}

// startTurn shows the new user turn and its placeholder, or flashes why
// the turn could not start
func (a App) startTurn(cmd tea.Cmd, err error) (App, tea.Cmd) {
	if err != nil {
		text := err.Error()
		if errors.Is(err, model.ErrTurnPending) {
			text = "Please wait for the current response"
		}
		statusCmd := a.setStatus(text, true)
		return a, statusCmd
	}
	a.status = ""
	a.focusIdx = -1
	a.actionMode = false
	a.cardIdx = 0
	a.updateViewportContent(true)
	return a, tea.Batch(cmd, a.spinner.Tick)
}

// nextSelection cycles the welcome cards on an empty thread, else the
// tags of the focused (or latest) previous-actions list
func (a *App) nextSelection() {
	if a.dataModel.Thread.Empty() {
		a.cardIdx = a.cardIdx%len(welcomeCards) + 1
		a.updateViewportContent(false)
		return
	}

	m, ok := a.focusedMessage()
	if !ok || len(model.ActionsOf(m)) == 0 {
		msgs := a.dataModel.Thread.Messages()
		found := false
		for i := len(msgs) - 1; i >= 0; i-- {
			if len(model.ActionsOf(msgs[i])) > 0 {
				a.focusIdx = i
				m, found = msgs[i], true
				break
			}
		}
		if !found {
			return
		}
	}

	actions := model.ActionsOf(m)
	if a.actionMode {
		a.actionIdx[m.ID] = (a.actionIdx[m.ID] + 1) % len(actions)
	} else {
		a.actionMode = true
	}
	a.updateViewportContent(false)
}

func (a *App) turnPage(delta int) {
	t, ok := a.focusedTable()
	if !ok {
		return
	}
	tv := a.tableViewFor(t.ID)
	p := grid.Paginate(len(grid.Rows(t.Data)), tv.page+delta, tv.size)
	tv.page = p.Number
	a.tables[t.ID] = tv
	a.updateViewportContent(false)
}
