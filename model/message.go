package model

import "encoding/json"

// Sender identifies who produced a message in a thread
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Identifier selects how a bot message is rendered
type Identifier string

const (
	IdentifierNone       Identifier = ""
	IdentifierGrid       Identifier = "grid"
	IdentifierGrids      Identifier = "grids"
	IdentifierChart      Identifier = "chart"
	IdentifierProperties Identifier = "properties"
	IdentifierButtons    Identifier = "buttons"
	IdentifierMarkdown   Identifier = "markdown"
	IdentifierText       Identifier = "TEXT" // set by the backend on user turns, renders as plain text
)

// Tabular reports whether the identifier carries row or series data that can be empty
func (i Identifier) Tabular() bool {
	return i == IdentifierGrid || i == IdentifierGrids || i == IdentifierChart
}

// Message is the display unit of a conversation thread.
//
// Data holds the raw payload for grid (row array), chart (metric series),
// buttons (action descriptors) and markdown (source text). Messages with
// IdentifierGrids carry their sub-messages in Group instead.
type Message struct {
	ID         string
	Text       string
	Sender     Sender
	Identifier Identifier
	Data       json.RawMessage
	Group      []Message
	Intent     string
	Link       string
	Loading    bool
}

// IsUser reports whether the message is a user turn
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}

// Action is one entry of a previous-actions list (identifier "buttons")
type Action struct {
	Intent    string          `json:"intent"`
	Entity    json.RawMessage `json:"entity,omitempty"`
	UserQuery string          `json:"userQuery"`
}

// Actions decodes the action descriptors of a buttons message.
// Malformed payloads yield an empty list.
func (m Message) Actions() []Action {
	if len(m.Data) == 0 {
		return nil
	}
	var actions []Action
	if err := json.Unmarshal(m.Data, &actions); err != nil {
		return nil
	}
	return actions
}

// RenderKind is the visual treatment chosen for a message
type RenderKind int

const (
	RenderPlainText RenderKind = iota
	RenderWaiting
	RenderTable
	RenderTableGroup
	RenderActionTagList
	RenderChart
	RenderMarkdownText
)

func (k RenderKind) String() string {
	switch k {
	case RenderPlainText:
		return "PlainText"
	case RenderWaiting:
		return "Waiting"
	case RenderTable:
		return "Table"
	case RenderTableGroup:
		return "TableGroup"
	case RenderActionTagList:
		return "ActionTagList"
	case RenderChart:
		return "Chart"
	case RenderMarkdownText:
		return "MarkdownText"
	default:
		return "Unknown"
	}
}
