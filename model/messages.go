package model

import "sichat/api"

// LoginDoneMsg carries the result of a login attempt
type LoginDoneMsg struct {
	Session  api.Session
	Remember bool
	Err      error
}

// SessionRestoredMsg carries a session loaded from disk at startup. Err is
// set when the stored API key no longer validates.
type SessionRestoredMsg struct {
	Session api.Session
	Found   bool
	Err     error
}

type LogoutDoneMsg struct {
	Err error
}

type RememberedLoginMsg struct {
	Username string
	TenantID string
	APIKey   string
	Found    bool
}

type ConversationsMsg struct {
	Conversations []api.Conversation
	FromCache     bool
	Err           error
}

type HistoryLoadedMsg struct {
	ConversationID string
	Messages       []Message
	FromCache      bool
	Err            error
}

type ConversationRenamedMsg struct {
	ConversationID string
	Title          string
	Err            error
}

type ConversationsDeletedMsg struct {
	ConversationIDs []string
	Message         string
	Err             error
}

// TurnKind names the backend call that answers a live turn
type TurnKind int

const (
	TurnQuery TurnKind = iota
	TurnExecute
	TurnPreviousActions
	TurnCoffee
)

// TurnDoneMsg carries the bot side of a live turn. Generation is the
// thread generation the turn was sent from.
type TurnDoneMsg struct {
	Kind       TurnKind
	Result     TurnResult
	Err        error
	Generation uint64
}

type FlashTickMsg struct{}

type ClipboardMsg struct {
	What string
	Err  error
}

type CSVExportedMsg struct {
	Path string
	Err  error
}
