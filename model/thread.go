package model

import (
	"errors"

	"github.com/google/uuid"
)

// ErrTurnPending is returned when a query is sent while the previous one
// is still waiting for the backend
var ErrTurnPending = errors.New("a response is already pending")

// Thread is the message list of the open conversation. It holds at most
// one loading bot placeholder at a time. The generation changes whenever
// the thread is cleared or swapped, so answers sent from an earlier thread
// can be told apart.
type Thread struct {
	ConversationID string
	messages       []Message
	generation     uint64
}

// NewThread creates an empty thread for a new chat
func NewThread() *Thread {
	return &Thread{}
}

// Messages returns the thread's messages in display order
func (t *Thread) Messages() []Message {
	return t.messages
}

// Generation identifies the thread instance live turns were sent from
func (t *Thread) Generation() uint64 {
	return t.generation
}

// Len returns the number of messages in the thread
func (t *Thread) Len() int {
	return len(t.messages)
}

// Empty reports whether nothing has been said in the thread yet
func (t *Thread) Empty() bool {
	return len(t.messages) == 0
}

// HasPending reports whether a bot placeholder is waiting for a response
func (t *Thread) HasPending() bool {
	return t.pendingIndex() >= 0
}

func (t *Thread) pendingIndex() int {
	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].Sender == SenderBot && t.messages[i].Loading {
			return i
		}
	}
	return -1
}

// AddUserQuery appends a user turn followed by a loading bot placeholder
func (t *Thread) AddUserQuery(text string) error {
	if t.HasPending() {
		return ErrTurnPending
	}
	t.messages = append(t.messages,
		Message{ID: uuid.NewString(), Text: text, Sender: SenderUser},
		Message{ID: uuid.NewString(), Sender: SenderBot, Loading: true},
	)
	return nil
}

// ResolvePending replaces the loading placeholder with msg. It returns
// false when no placeholder exists, e.g. after the user switched threads.
func (t *Thread) ResolvePending(msg Message) bool {
	i := t.pendingIndex()
	if i < 0 {
		return false
	}
	if msg.ID == "" {
		msg.ID = t.messages[i].ID
	}
	msg.Sender = SenderBot
	msg.Loading = false
	t.messages[i] = msg
	return true
}

// FailPending replaces the loading placeholder with a bot error text
func (t *Thread) FailPending(text string) bool {
	return t.ResolvePending(Message{Text: text})
}

// Replace swaps in a loaded history
func (t *Thread) Replace(conversationID string, messages []Message) {
	t.ConversationID = conversationID
	t.messages = append([]Message(nil), messages...)
	t.generation++
}

// Reset clears the thread for a new chat
func (t *Thread) Reset() {
	t.ConversationID = ""
	t.messages = nil
	t.generation++
}
