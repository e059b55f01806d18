package model

import (
	"encoding/json"
	"testing"
)

func TestQueryTurn(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantText   string
		wantKind   RenderKind
		wantCoffee bool
	}{
		{
			name:     "grid with rows",
			body:     `{"conversation_id":"c1","intent":"storage-list","identifier":"grid","data":[{"name":"a"}],"link":"l"}`,
			wantText: IntentDescription(IntentStorageList),
			wantKind: RenderTable,
		},
		{
			name:     "grid without rows",
			body:     `{"conversation_id":"c1","intent":"storage-list","identifier":"grid","data":[]}`,
			wantText: NoDataAvailable,
			wantKind: RenderMarkdownText,
		},
		{
			name:     "chart with null data",
			body:     `{"conversation_id":"c1","intent":"storage-system-metric","identifier":"chart","data":null}`,
			wantText: NoDataAvailable,
			wantKind: RenderMarkdownText,
		},
		{
			name:     "markdown falls back to message",
			body:     `{"conversation_id":"c1","intent":"chatbot-capabilities","identifier":"markdown","data":"","message":"hello"}`,
			wantText: IntentDescription(IntentChatbotCapabilities),
			wantKind: RenderMarkdownText,
		},
		{
			name:       "coffee intent defers to the summary",
			body:       `{"conversation_id":"c1","intent":"morning-cup-of-coffee"}`,
			wantCoffee: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := QueryTurn([]byte(tt.body))
			if res.ConversationID != "c1" {
				t.Errorf("ConversationID = %q", res.ConversationID)
			}
			if res.Coffee != tt.wantCoffee {
				t.Fatalf("Coffee = %v, want %v", res.Coffee, tt.wantCoffee)
			}
			if tt.wantCoffee {
				return
			}
			if res.Message.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", res.Message.Text, tt.wantText)
			}
			if got := Classify(res.Message); got != tt.wantKind {
				t.Errorf("Classify() = %s, want %s", got, tt.wantKind)
			}
			if res.Message.ID == "" || res.Message.Sender != SenderBot {
				t.Errorf("message = %+v", res.Message)
			}
		})
	}
}

func TestQueryTurnKeepsLink(t *testing.T) {
	res := QueryTurn([]byte(`{"intent":"storage-list","identifier":"grid","data":[{"a":1}],"link":"https://si"}`))
	if res.Message.Link != "https://si" {
		t.Errorf("Link = %q", res.Message.Link)
	}
}

func TestExecuteTurnEmpty(t *testing.T) {
	res := ExecuteTurn([]byte(`{"intent":"tenant-alerts","identifier":"grids","data":[]}`))
	if res.Message.Text != NoActionsAvailable {
		t.Errorf("Text = %q, want %q", res.Message.Text, NoActionsAvailable)
	}
	res = ExecuteTurn([]byte(`{"intent":"morning-cup-of-coffee"}`))
	if !res.Coffee {
		t.Error("coffee intent should defer to the summary")
	}
}

func TestPreviousActionsTurn(t *testing.T) {
	res := PreviousActionsTurn([]byte(`{"message":"found 1","identifier":"buttons","intent":"storage-list","previous_actions":[{"intent":"storage-list","userQuery":"q"}]}`))
	if res.Message.Text != "found 1" || Classify(res.Message) != RenderActionTagList {
		t.Errorf("message = %+v", res.Message)
	}
	if len(res.Message.Actions()) != 1 {
		t.Errorf("Actions() = %v", res.Message.Actions())
	}

	res = PreviousActionsTurn([]byte(`{"message":"found 0","identifier":"buttons","previous_actions":[]}`))
	if res.Message.Text != NoActionsAvailable {
		t.Errorf("empty list text = %q", res.Message.Text)
	}
}

func TestCoffeeTurn(t *testing.T) {
	res := CoffeeTurn([]byte(`{"conversation_id":"c2","data":[
		{"description":"Systems","identifier":"grid","intent":"storage-list","data":[{"name":"a"}]},
		{"description":"Alerts","identifier":"grid","intent":"tenant-alerts","data":{"data":[]}}
	]}`))
	if res.ConversationID != "c2" {
		t.Errorf("ConversationID = %q", res.ConversationID)
	}
	if Classify(res.Message) != RenderTableGroup || len(res.Message.Group) != 2 {
		t.Errorf("message = %+v", res.Message)
	}

	tests := []struct {
		name string
		body string
		want string
	}{
		{"all sub-messages empty", `{"data":[{"intent":"storage-list","data":[]},{"intent":"tenant-alerts","data":{}}]}`, SummaryNoDataMessage},
		{"no entries", `{"data":[]}`, SummaryNoDataMessage},
		{"data is not a list", `{"data":"oops"}`, SummaryRequestError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := CoffeeTurn([]byte(tt.body))
			if res.Message.Text != tt.want {
				t.Errorf("Text = %q, want %q", res.Message.Text, tt.want)
			}
		})
	}
}

func TestEmptyChecksDiffer(t *testing.T) {
	// A markdown sub-message with no data counts toward an empty summary,
	// but a markdown answer is never an empty table.
	md := Message{Sender: SenderBot, Identifier: IdentifierMarkdown}
	if !GroupAllEmpty([]Message{md}) {
		t.Error("GroupAllEmpty() should ignore identifiers")
	}
	if TabularEmpty(md) {
		t.Error("TabularEmpty() should only consider grid, grids and chart")
	}

	if !GroupAllEmpty(nil) {
		t.Error("GroupAllEmpty(nil) should be true")
	}

	grid := Message{Identifier: IdentifierGrid, Data: json.RawMessage(`{"rows":1}`)}
	if TabularEmpty(grid) {
		t.Error("object data is not empty")
	}
}
