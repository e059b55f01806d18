package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sichat/config"
	"sichat/grid"
	"sichat/model"
)

type focusArea int

const (
	focusComposer focusArea = iota
	focusSidebar
)

const (
	minWidthForSidebar = 80
	composerHeight     = 3
	flashDuration      = 3 * time.Second
	waitingText        = "Fetching data from Storage Insights..."
)

// App is the bubbletea program: the login screen until a session exists,
// then the sidebar, thread and composer
type App struct {
	dataModel *model.Model
	keys      *config.KeyBindingsConfig

	width  int
	height int
	ready  bool

	login     loginForm
	restoring bool

	sidebar  sidebarState
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	focus    focusArea

	// focusIdx is the thread message that copy, export and table keys act
	// on. -1 follows the latest bot message.
	focusIdx   int
	tables     map[string]tableView
	groupFocus map[string]int
	actionIdx  map[string]int
	actionMode bool
	cardIdx    int
	pageSize   int
	mdCache    map[string]string

	loadingHistory bool
	openingID      string
	showHelp       bool
	confirm        ConfirmationState
	pendingDelete  string

	status      string
	statusError bool
	statusAt    time.Time
}

// NewApp builds the UI around the application model. keys may be nil.
func NewApp(m *model.Model, keys *config.KeyBindingsConfig) App {
	if keys == nil {
		keys = config.DefaultKeybindings()
	}

	pageSize := grid.DefaultPageSize
	if m.Config != nil && grid.ValidPageSize(m.Config.PageSize) {
		pageSize = m.Config.PageSize
	}
	if m.Config != nil {
		ApplyTheme(m.Config.Theme)
	}

	ta := textarea.New()
	ta.Placeholder = "Ask about your storage systems, alerts, capacity..."
	ta.CharLimit = 2000
	ta.ShowLineNumbers = false
	ta.SetHeight(composerHeight)
	ta.SetWidth(80)

	// Alt+Enter for newline, Enter alone sends
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accentColor)

	return App{
		dataModel:  m,
		keys:       keys,
		login:      newLoginForm(),
		restoring:  m.Credentials != nil,
		sidebar:    newSidebar(),
		viewport:   viewport.New(0, 0),
		textarea:   ta,
		spinner:    sp,
		focusIdx:   -1,
		tables:     map[string]tableView{},
		groupFocus: map[string]int{},
		actionIdx:  map[string]int{},
		pageSize:   pageSize,
		mdCache:    map[string]string{},
	}
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink, a.spinner.Tick}
	if cmd := a.dataModel.RestoreSession(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if cmd := a.dataModel.LoadRemembered(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// is reports whether msg is the key bound to action
func (a App) is(msg tea.KeyMsg, action string) bool {
	k := a.keys.GetActionKey(action)
	return k != "" && msg.String() == k
}

func (a *App) setFocus(f focusArea) tea.Cmd {
	a.focus = f
	a.actionMode = false
	if f == focusComposer {
		a.sidebar.filterMode = false
		a.sidebar.renaming = false
		a.sidebar.filter.Blur()
		a.sidebar.rename.Blur()
		a.updateViewportContent(false)
		return a.textarea.Focus()
	}
	a.textarea.Blur()
	a.sidebar.refresh(a.dataModel.Conversations)
	return nil
}

func (a App) sidebarShown() bool {
	return a.width >= minWidthForSidebar
}

func (a App) mainWidth() int {
	if a.sidebarShown() {
		return max(a.width-sidebarWidth, 20)
	}
	return a.width
}

// layout sizes the viewport and composer. Title, separator, composer and
// status bar take the rest of the height.
func (a *App) layout() {
	w := a.mainWidth()
	a.viewport.Width = w
	a.viewport.Height = max(a.height-composerHeight-4, 3)
	a.textarea.SetWidth(w)
}

// setStatus flashes a message in the status bar
func (a *App) setStatus(text string, isError bool) tea.Cmd {
	a.status = text
	a.statusError = isError
	a.statusAt = time.Now()
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return model.FlashTickMsg{}
	})
}

func (a *App) resetThreadView() {
	a.focusIdx = -1
	a.actionMode = false
	a.cardIdx = 0
	a.tables = map[string]tableView{}
	a.groupFocus = map[string]int{}
	a.actionIdx = map[string]int{}
	a.mdCache = map[string]string{}
}

func (a *App) newChat() {
	a.dataModel.NewChat()
	a.loadingHistory = false
	a.openingID = ""
	a.resetThreadView()
	a.updateViewportContent(true)
}

// toLogin switches to the login screen after a logout or a rejected key
func (a *App) toLogin() {
	a.login.reset()
	a.focus = focusComposer
	a.textarea.Reset()
	a.textarea.Blur()
	a.sidebar = newSidebar()
	a.loadingHistory = false
	a.openingID = ""
	a.showHelp = false
	a.confirm = ConfirmationState{}
	a.resetThreadView()
}

// enterMain shows the chat screen after a login or a restored session
func (a *App) enterMain() tea.Cmd {
	a.focus = focusComposer
	a.resetThreadView()
	a.sidebar.refresh(a.dataModel.Conversations)
	a.updateViewportContent(true)
	return a.textarea.Focus()
}

func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}
	if a.dataModel.Quitting {
		return ""
	}

	if !a.dataModel.LoggedIn {
		if a.restoring {
			return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
				a.spinner.View()+" Restoring session...")
		}
		return a.renderLogin()
	}

	if a.confirm.Active {
		return RenderConfirmationModal(a.confirm, a.width, a.height)
	}
	if a.showHelp {
		return a.renderHelpModal(a.width, a.height)
	}

	if !a.sidebarShown() && a.focus == focusSidebar {
		return a.renderSidebar(a.height)
	}

	main := a.renderMain()
	if !a.sidebarShown() {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, a.renderSidebar(a.height), main)
}

func (a App) renderMain() string {
	w := a.mainWidth()

	title := lipgloss.NewStyle().Bold(true).Foreground(successColor).Render("Storage Insights")
	if a.dataModel.Session.Username != "" {
		title += DimStyle.Render(fmt.Sprintf(" | %s @ %s", a.dataModel.Session.Username, a.dataModel.Session.TenantID))
	}
	if c, ok := a.dataModel.Conversation(a.dataModel.Thread.ConversationID); ok {
		title += TitleStyle.Render(" | " + c.Title)
		title += DimStyle.Render(" (" + grid.FormatTimestamp(c.RecentTimestamp, time.Local) + ")")
	}
	if a.dataModel.Offline {
		title += lipgloss.NewStyle().Foreground(warningColor).Render(" | offline: showing cached data")
	}

	separator := DimStyle.Render(strings.Repeat("─", w))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.NewStyle().MaxWidth(w).Render(title),
		separator,
		a.viewport.View(),
		separator,
		a.textarea.View(),
		a.renderStatusBar(w),
	)
}

func (a App) renderStatusBar(width int) string {
	if a.status != "" {
		style := lipgloss.NewStyle().Foreground(successColor)
		if a.statusError {
			style = ErrorStyle
		}
		return lipgloss.NewStyle().MaxWidth(width).Render(style.Render(a.status))
	}

	kb := a.keys
	descStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)
	var parts []string
	add := func(action, desc string) {
		parts = append(parts, kb.DisplayActionKey(action)+" "+descStyle.Render(desc))
	}
	parts = append(parts, "Enter "+descStyle.Render("Send"))
	if a.actionMode {
		parts = append(parts, "Tab "+descStyle.Render("Next action"), "Esc "+descStyle.Render("Cancel"))
	} else {
		add("focus_sidebar", "Conversations")
		add("new_chat", "New chat")
		add("copy_message", "Copy")
		add("help", "Help")
		add("quit", "Quit")
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(StatusStyle.Render(strings.Join(parts, "  ")))
}
