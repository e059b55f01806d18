package model

import (
	"encoding/json"
	"testing"
)

func TestClassify(t *testing.T) {
	grid := Message{Sender: SenderBot, Identifier: IdentifierGrid}

	tests := []struct {
		name string
		msg  Message
		want RenderKind
	}{
		{"user is always plain text", Message{Sender: SenderUser, Identifier: IdentifierChart, Loading: true}, RenderPlainText},
		{"user text turn", Message{Sender: SenderUser, Identifier: IdentifierText, Text: "hi"}, RenderPlainText},
		{"loading bot", Message{Sender: SenderBot, Loading: true, Identifier: IdentifierGrid}, RenderWaiting},
		{"grid", grid, RenderTable},
		{"grid without data", Message{Sender: SenderBot, Identifier: IdentifierGrid, Data: json.RawMessage(`[]`)}, RenderTable},
		{"grids with group", Message{Sender: SenderBot, Identifier: IdentifierGrids, Group: []Message{grid}}, RenderTableGroup},
		{"grids with empty group", Message{Sender: SenderBot, Identifier: IdentifierGrids, Group: []Message{}}, RenderMarkdownText},
		{"grids with empty data", Message{Sender: SenderBot, Identifier: IdentifierGrids, Data: json.RawMessage(`[]`)}, RenderMarkdownText},
		{"buttons", Message{Sender: SenderBot, Identifier: IdentifierButtons}, RenderActionTagList},
		{"chart", Message{Sender: SenderBot, Identifier: IdentifierChart}, RenderChart},
		{"markdown", Message{Sender: SenderBot, Identifier: IdentifierMarkdown}, RenderMarkdownText},
		{"properties", Message{Sender: SenderBot, Identifier: IdentifierProperties}, RenderMarkdownText},
		{"unset identifier", Message{Sender: SenderBot, Text: "error"}, RenderMarkdownText},
		{"unknown identifier", Message{Sender: SenderBot, Identifier: "carousel"}, RenderMarkdownText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.msg); got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRenderKindString(t *testing.T) {
	if RenderTableGroup.String() != "TableGroup" || RenderKind(99).String() != "Unknown" {
		t.Error("unexpected RenderKind names")
	}
}

func TestMessageActions(t *testing.T) {
	m := Message{Data: json.RawMessage(`[{"intent":"storage-list","entity":{"id":1},"userQuery":"list"}]`)}
	actions := m.Actions()
	if len(actions) != 1 || actions[0].Intent != "storage-list" || actions[0].UserQuery != "list" {
		t.Errorf("Actions() = %+v", actions)
	}
	if string(actions[0].Entity) != `{"id":1}` {
		t.Errorf("Entity = %s", actions[0].Entity)
	}

	if got := (Message{Data: json.RawMessage(`"oops"`)}).Actions(); got != nil {
		t.Errorf("Actions() on malformed data = %v, want nil", got)
	}
}
