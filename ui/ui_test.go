package ui

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"sichat/api"
	"sichat/config"
	"sichat/grid"
	"sichat/model"
)

func newTestApp(t *testing.T, msgs ...model.Message) App {
	t.Helper()
	m := model.NewModel(&config.Config{}, nil, nil, nil, "test")
	m.LoggedIn = true
	m.Session = api.Session{Username: "alice", TenantID: "t1"}
	if len(msgs) > 0 {
		m.Thread.Replace("c1", msgs)
	}
	a := NewApp(m, nil)
	next, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(App)
}

func bot(id string, ident model.Identifier, data string) model.Message {
	msg := model.Message{ID: id, Sender: model.SenderBot, Identifier: ident}
	if data != "" {
		msg.Data = json.RawMessage(data)
	}
	return msg
}

func user(id, text string) model.Message {
	return model.Message{ID: id, Sender: model.SenderUser, Text: text}
}

func TestValidateLogin(t *testing.T) {
	tests := []struct {
		name              string
		user, tenant, key string
		want              [3]string
	}{
		{"all set", "alice", "t1", "k", [3]string{}},
		{"all empty", "", "", "", [3]string{requiredUserID, requiredTenantID, requiredAPIKey}},
		{"blank tenant", "alice", "   ", "k", [3]string{"", requiredTenantID, ""}},
		{"missing key", "alice", "t1", "", [3]string{"", "", requiredAPIKey}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validateLogin(tt.user, tt.tenant, tt.key); got != tt.want {
				t.Errorf("validateLogin() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginEnterWithEmptyFields(t *testing.T) {
	a := newTestApp(t)
	a.dataModel.LoggedIn = false

	next, _ := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got := next.(App)
	if got.login.loading {
		t.Error("login should not start with empty fields")
	}
	if got.login.errs[fieldUserID] != requiredUserID {
		t.Errorf("user error = %q", got.login.errs[fieldUserID])
	}
	if got.login.focus != fieldUserID {
		t.Errorf("focus = %d, want first invalid field", got.login.focus)
	}
}

func TestLoginFocusWraps(t *testing.T) {
	f := newLoginForm()
	f.setFocus(-1)
	if f.focus != fieldRemember {
		t.Errorf("focus = %d, want %d", f.focus, fieldRemember)
	}
	f.setFocus(loginFieldCount)
	if f.focus != fieldUserID {
		t.Errorf("focus = %d, want %d", f.focus, fieldUserID)
	}
}

func TestLoginResetKeepsRememberedKey(t *testing.T) {
	f := newLoginForm()
	f.prefill(model.RememberedLoginMsg{Username: "alice", TenantID: "t1", APIKey: "k", Found: true})
	f.reset()
	if _, _, key := f.values(); key != "k" {
		t.Errorf("remembered key dropped: %q", key)
	}

	f.remember = false
	f.reset()
	if _, _, key := f.values(); key != "" {
		t.Errorf("key kept without remember: %q", key)
	}
}

func TestFitColumns(t *testing.T) {
	tests := []struct {
		name    string
		natural []int
		budget  int
		want    []int
	}{
		{"fits", []int{5, 10}, 20, []int{5, 10}},
		{"shrinks widest", []int{8, 20}, 20, []int{8, 12}},
		{"shrinks evenly", []int{20, 20}, 30, []int{15, 15}},
		{"stops at minimum", []int{10, 10}, 4, []int{minColumnWidth, minColumnWidth}},
		{"narrow columns untouched", []int{3, 30}, 10, []int{3, 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fitColumns(tt.natural, tt.budget)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("fitColumns(%v, %d) = %v, want %v", tt.natural, tt.budget, got, tt.want)
			}
		})
	}
}

func TestPageFooter(t *testing.T) {
	tests := []struct {
		total, page, size int
		want              string
	}{
		{12, 2, 5, "Items per page: 5  │  6–10 of 12 items  │  Page 2 of 3"},
		{12, 9, 5, "Items per page: 5  │  11–12 of 12 items  │  Page 3 of 3"},
		{0, 1, 10, "Items per page: 10  │  0–0 of 0 items  │  Page 1 of 1"},
	}
	for _, tt := range tests {
		if got := pageFooter(grid.Paginate(tt.total, tt.page, tt.size)); got != tt.want {
			t.Errorf("pageFooter(%d,%d,%d) = %q, want %q", tt.total, tt.page, tt.size, got, tt.want)
		}
	}
}

func TestMarkdownSource(t *testing.T) {
	tests := []struct {
		name string
		msg  model.Message
		want string
	}{
		{"markdown string data", bot("1", model.IdentifierMarkdown, `"# Title"`), "# Title"},
		{"markdown raw data", bot("1", model.IdentifierMarkdown, `{"a":1}`), `{"a":1}`},
		{"markdown without data", bot("1", model.IdentifierMarkdown, ""), ""},
		{"plain text", model.Message{Sender: model.SenderBot, Text: "hello", Data: json.RawMessage(`"ignored"`)}, "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := markdownSource(tt.msg); got != tt.want {
				t.Errorf("markdownSource() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStripANSI(t *testing.T) {
	if got := stripANSI("\x1b[31mred\x1b[0m plain"); got != "red plain" {
		t.Errorf("stripANSI() = %q", got)
	}
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"short", "hello world", 20, "hello world"},
		{"wraps", "hello big world", 9, "hello big\nworld"},
		{"keeps newlines", "a\n\nb", 10, "a\n\nb"},
		{"long word", "abcdefghij x", 4, "abcdefghij\nx"},
		{"zero width", "as is", 0, "as is"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wordWrap(tt.text, tt.width); got != tt.want {
				t.Errorf("wordWrap(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestCenterTextLine(t *testing.T) {
	if got := centerTextLine("ab", 6); got != "  ab  " {
		t.Errorf("centerTextLine() = %q", got)
	}
	if got := centerTextLine("too long", 3); got != "too long" {
		t.Errorf("centerTextLine() = %q", got)
	}
}

func TestActionTag(t *testing.T) {
	got := actionTag(2, model.Action{Intent: "custom-intent", UserQuery: "list volumes"})
	if got != "2. custom-intent: list volumes" {
		t.Errorf("actionTag() = %q", got)
	}

	long := actionTag(1, model.Action{Intent: "x", UserQuery: strings.Repeat("q", 100)})
	if !strings.HasSuffix(long, "…") || len([]rune(long)) > maxTagWidth {
		t.Errorf("actionTag() not truncated: %q", long)
	}
}

func TestRenderActionTagsEmpty(t *testing.T) {
	got := stripANSI(renderActionTags(bot("1", model.IdentifierButtons, `[]`), 80, -1))
	if got != model.NoActionsAvailable {
		t.Errorf("renderActionTags() = %q", got)
	}
}

func TestMessageText(t *testing.T) {
	table := bot("1", model.IdentifierGrid, `[{"pool":"p1"}]`)
	table.Intent = "unknown-intent"
	table.Text = "Pools"
	table.Link = "https://insights.example/pools"

	got := messageText(table)
	for _, want := range []string{"Pools", "Pool", "p1", "More details: https://insights.example/pools"} {
		if !strings.Contains(got, want) {
			t.Errorf("messageText() = %q, missing %q", got, want)
		}
	}

	buttons := bot("2", model.IdentifierButtons, `[{"intent":"custom-intent","userQuery":"list"}]`)
	if got := messageText(buttons); got != "1. custom-intent: list" {
		t.Errorf("messageText(buttons) = %q", got)
	}

	if got := messageText(user("3", "hi")); got != "hi" {
		t.Errorf("messageText(user) = %q", got)
	}
}

func TestFocusNavigation(t *testing.T) {
	a := newTestApp(t,
		user("u1", "first"),
		bot("b1", model.IdentifierMarkdown, `"one"`),
		user("u2", "second"),
		bot("b2", model.IdentifierMarkdown, `"two"`),
	)

	if got := a.focusedIndex(); got != 3 {
		t.Fatalf("focusedIndex() = %d, want latest bot message", got)
	}

	a.moveFocus(-1)
	if a.focusIdx != 1 {
		t.Errorf("focusIdx = %d, want 1", a.focusIdx)
	}
	a.moveFocus(-1)
	if a.focusIdx != 1 {
		t.Errorf("focusIdx = %d, want to stay on the oldest bot message", a.focusIdx)
	}
	a.moveFocus(1)
	a.moveFocus(1)
	if a.focusIdx != -1 {
		t.Errorf("focusIdx = %d, want -1 past the newest", a.focusIdx)
	}
}

func TestTurnPageClamps(t *testing.T) {
	rows := make([]string, 12)
	for i := range rows {
		rows[i] = `{"pool":"p"}`
	}
	msg := bot("g1", model.IdentifierGrid, "["+strings.Join(rows, ",")+"]")
	a := newTestApp(t, user("u1", "pools"), msg)

	a.turnPage(1)
	a.turnPage(1)
	a.turnPage(1)
	if got := a.tables["g1"].page; got != 3 {
		t.Errorf("page = %d, want 3", got)
	}
	a.turnPage(-5)
	if got := a.tables["g1"].page; got != 1 {
		t.Errorf("page = %d, want 1", got)
	}
}

func TestNextSelectionCyclesCards(t *testing.T) {
	a := newTestApp(t)
	for i := 1; i <= len(welcomeCards)+1; i++ {
		a.nextSelection()
	}
	if a.cardIdx != 1 {
		t.Errorf("cardIdx = %d, want wrap to 1", a.cardIdx)
	}
}

func TestNextSelectionActions(t *testing.T) {
	buttons := bot("b1", model.IdentifierButtons, `[{"intent":"a","userQuery":"x"},{"intent":"b","userQuery":"y"}]`)
	a := newTestApp(t, user("u1", "previous"), buttons, user("u2", "hi"), bot("b2", model.IdentifierMarkdown, `"hello"`))

	a.nextSelection()
	if !a.actionMode || a.focusIdx != 1 {
		t.Fatalf("actionMode = %v, focusIdx = %d", a.actionMode, a.focusIdx)
	}
	a.nextSelection()
	a.nextSelection()
	if got := a.actionIdx["b1"]; got != 0 {
		t.Errorf("actionIdx = %d, want wrap to 0", got)
	}
}

func TestFlashTickKeepsFreshStatus(t *testing.T) {
	a := newTestApp(t)
	a.setStatus("saved", false)

	next, _ := a.Update(model.FlashTickMsg{})
	if next.(App).status != "saved" {
		t.Error("fresh status cleared early")
	}

	a.statusAt = time.Now().Add(-2 * flashDuration)
	next, _ = a.Update(model.FlashTickMsg{})
	if next.(App).status != "" {
		t.Error("stale status not cleared")
	}
}

func TestSidebarRefresh(t *testing.T) {
	list := []api.Conversation{
		{ID: "1", Title: "Volume capacity"},
		{ID: "2", Title: "Alerts today"},
	}
	s := newSidebar()
	s.selected = 5
	s.refresh(list)
	if s.selected != 2 {
		t.Errorf("selected = %d, want clamped to 2", s.selected)
	}
	if c, ok := s.selectedConversation(); !ok || c.ID != "2" {
		t.Errorf("selectedConversation() = %+v, %v", c, ok)
	}

	s.selected = 0
	if _, ok := s.selectedConversation(); ok {
		t.Error("row 0 is New chat")
	}
}

func TestConfirmDeleteCancel(t *testing.T) {
	a := newTestApp(t)
	a.pendingDelete = "c1"
	a.confirm = ConfirmationState{Active: true}

	got, cmd := a.confirmDelete(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd != nil || got.confirm.Active || got.pendingDelete != "" {
		t.Errorf("cancel left state %+v, %q", got.confirm, got.pendingDelete)
	}
}

func TestUpdatedLabelFallsBackToRaw(t *testing.T) {
	if got := updatedLabel(api.Conversation{RecentTimestamp: "not a time"}); got != "not a time" {
		t.Errorf("updatedLabel() = %q", got)
	}
	recent := time.Now().Add(-3 * time.Hour).UTC().Format("2006-01-02T15:04:05")
	if got := updatedLabel(api.Conversation{RecentTimestamp: recent}); !strings.Contains(got, "hours ago") {
		t.Errorf("updatedLabel() = %q", got)
	}
}

func TestViewScreens(t *testing.T) {
	a := newTestApp(t)
	if !strings.Contains(a.View(), "Hello, alice") {
		t.Error("welcome screen missing greeting")
	}

	a.dataModel.LoggedIn = false
	if !strings.Contains(a.View(), "Remember me") {
		t.Error("login screen not shown")
	}
}

func TestHistoryForSupersededOpenIsIgnored(t *testing.T) {
	a := newTestApp(t, user("u0", "current question"))
	a.dataModel.Conversations = []api.Conversation{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}}
	a.sidebar.refresh(a.dataModel.Conversations)

	for _, row := range []int{2, 3} {
		a.sidebar.selected = row
		a, _ = a.updateSidebar(tea.KeyMsg{Type: tea.KeyEnter})
	}
	if a.openingID != "c3" || !a.loadingHistory {
		t.Fatalf("openingID = %q, loadingHistory = %v", a.openingID, a.loadingHistory)
	}

	next, _ := a.Update(model.HistoryLoadedMsg{ConversationID: "c2", Messages: []model.Message{user("h2", "from c2")}})
	a = next.(App)
	if !a.loadingHistory || a.dataModel.Thread.ConversationID != "c1" {
		t.Errorf("late history for c2 applied: loading %v, thread %q", a.loadingHistory, a.dataModel.Thread.ConversationID)
	}

	next, _ = a.Update(model.HistoryLoadedMsg{ConversationID: "c3", Messages: []model.Message{user("h3", "from c3")}})
	a = next.(App)
	if a.loadingHistory || a.openingID != "" {
		t.Errorf("loadingHistory = %v, openingID = %q", a.loadingHistory, a.openingID)
	}
	msgs := a.dataModel.Thread.Messages()
	if a.dataModel.Thread.ConversationID != "c3" || len(msgs) != 1 || msgs[0].Text != "from c3" {
		t.Errorf("thread %q = %+v", a.dataModel.Thread.ConversationID, msgs)
	}
}

func TestRenderMessageKinds(t *testing.T) {
	rows := make([]string, 12)
	for i := range rows {
		rows[i] = `{"pool":"p"}`
	}
	pools := bot("t1", model.IdentifierGrid, "["+strings.Join(rows, ",")+"]")
	pools.Text = "Pools"
	pools.Link = "https://insights.example/pools"

	const samples = `[{"timeStamp":1714550400000,"read_IO_rate":12.5},{"timeStamp":1714554000000,"read_IO_rate":20}]`
	first := time.UnixMilli(1714550400000).Local().Format(grid.DataTimeLayout)
	last := time.UnixMilli(1714554000000).Local().Format(grid.DataTimeLayout)

	systems := bot("s1", model.IdentifierGrid, `[{"pool":"p1"}]`)
	systems.Text = "Systems"
	noted := bot("s2", model.IdentifierGrid, `[]`)
	noted.Text = "No alerts since yesterday"
	silent := bot("s3", model.IdentifierGrid, "")
	silent.Intent = model.IntentStorageSystemVolume
	trend := bot("s4", model.IdentifierChart, samples)
	summary := bot("g1", model.IdentifierGrids, "")
	summary.Group = []model.Message{systems, noted, silent, trend}

	chart := bot("c1", model.IdentifierChart, samples)
	chart.Text = "Read rate on FS9500"
	flat := bot("c2", model.IdentifierChart, `[]`)

	buttons := bot("b1", model.IdentifierButtons, `[{"intent":"a","userQuery":"x"},{"intent":"b","userQuery":"y"}]`)

	emptySummary := bot("g2", model.IdentifierGrids, `[]`)
	emptySummary.Text = "**Nothing** to summarize today"

	waiting := model.Message{ID: "w1", Sender: model.SenderBot, Loading: true}

	tests := []struct {
		name    string
		msg     model.Message
		setup   func(*App)
		focused bool
		want    []string
		notWant []string
	}{
		{
			name: "user text",
			msg:  user("u1", "hello there"),
			want: []string{"┃ alice", "┃ hello there"},
		},
		{
			name: "waiting",
			msg:  waiting,
			want: []string{botName, waitingText},
		},
		{
			name: "table with footer and details",
			msg:  pools,
			want: []string{
				botName, "Pools", "Pool",
				"1–5 of 12 items", "Page 1 of 3",
				"More details: " + insightsLinkLabel + " https://insights.example/pools",
			},
		},
		{
			name: "table group draws every element as a table",
			msg:  summary,
			want: []string{
				"Systems", "p1",
				"No alerts since yesterday",
				model.EmptyDataMessage(model.IntentStorageSystemVolume),
			},
			notWant: []string{"→"},
		},
		{
			name: "chart",
			msg:  chart,
			want: []string{"Read rate on FS9500", "Read io rate", first + "  →  " + last},
		},
		{
			name: "chart without samples",
			msg:  flat,
			want: []string{model.NoDataAvailable},
		},
		{
			name:    "action tags without selection",
			msg:     buttons,
			want:    []string{"1. a: x", "2. b: y", "╭"},
			notWant: []string{"┏"},
		},
		{
			name: "action tags with selection",
			msg:  buttons,
			setup: func(a *App) {
				a.actionMode = true
				a.actionIdx["b1"] = 1
				a.focusIdx = 1
			},
			focused: true,
			want:    []string{"▶ " + botName, "1. a: x", "2. b: y", "┏"},
		},
		{
			name:    "grids without a group render as markdown",
			msg:     emptySummary,
			want:    []string{"Nothing to summarize today"},
			notWant: []string{"**", "Page "},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t, user("u0", "question"), tt.msg)
			if tt.setup != nil {
				tt.setup(&a)
			}
			got := stripANSI(a.renderMessage(tt.msg, 100, tt.focused))
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("renderMessage() missing %q in:\n%s", want, got)
				}
			}
			for _, bad := range tt.notWant {
				if strings.Contains(got, bad) {
					t.Errorf("renderMessage() should not contain %q in:\n%s", bad, got)
				}
			}
		})
	}
}
