package model

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"sichat/api"
)

// SendQuery starts a typed turn. It fails with ErrTurnPending while another
// turn is waiting for its answer.
func (m *Model) SendQuery(text string) (tea.Cmd, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("query cannot be empty")
	}
	if err := m.Thread.AddUserQuery(text); err != nil {
		return nil, err
	}
	return m.runQuery(text), nil
}

// AskCapabilities sends the fixed "what can you do" query
func (m *Model) AskCapabilities() (tea.Cmd, error) {
	return m.SendQuery(ChatbotCapabilitiesQuery)
}

// MorningCoffee starts a morning summary turn
func (m *Model) MorningCoffee() (tea.Cmd, error) {
	if err := m.Thread.AddUserQuery(MorningCoffeeQuery); err != nil {
		return nil, err
	}
	return m.fetchCoffee(), nil
}

// PreviousActions lists the actions the user can run again
func (m *Model) PreviousActions() (tea.Cmd, error) {
	if err := m.Thread.AddUserQuery(PreviousActionsQuery); err != nil {
		return nil, err
	}
	client := m.Client
	s, conversationID := m.Session, m.Thread.ConversationID
	gen := m.Thread.Generation()
	timeout := m.requestTimeout()

	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		body, err := client.PreviousActions(ctx, s, conversationID)
		if err != nil {
			return TurnDoneMsg{Kind: TurnPreviousActions, Err: err, Generation: gen}
		}
		return TurnDoneMsg{Kind: TurnPreviousActions, Result: PreviousActionsTurn(body), Generation: gen}
	}, nil
}

// ExecuteAction runs a previous action again. The action's original query
// is shown as the user turn.
func (m *Model) ExecuteAction(action Action) (tea.Cmd, error) {
	if err := m.Thread.AddUserQuery(action.UserQuery); err != nil {
		return nil, err
	}
	client := m.Client
	s, conversationID := m.Session, m.Thread.ConversationID
	gen := m.Thread.Generation()
	timeout := m.requestTimeout()
	req := api.Action{Intent: action.Intent, Entity: action.Entity, UserQuery: action.UserQuery}

	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		body, err := client.ExecuteAction(ctx, s, conversationID, req)
		if err != nil {
			return TurnDoneMsg{Kind: TurnExecute, Err: err, Generation: gen}
		}
		return TurnDoneMsg{Kind: TurnExecute, Result: ExecuteTurn(body), Generation: gen}
	}, nil
}

func (m *Model) runQuery(text string) tea.Cmd {
	client := m.Client
	s, conversationID := m.Session, m.Thread.ConversationID
	gen := m.Thread.Generation()
	timeout := m.requestTimeout()

	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		body, err := client.RunChatbot(ctx, s, conversationID, text)
		if err != nil {
			return TurnDoneMsg{Kind: TurnQuery, Err: err, Generation: gen}
		}
		return TurnDoneMsg{Kind: TurnQuery, Result: QueryTurn(body), Generation: gen}
	}
}

func (m *Model) fetchCoffee() tea.Cmd {
	client := m.Client
	s, conversationID := m.Session, m.Thread.ConversationID
	gen := m.Thread.Generation()
	timeout := m.requestTimeout()

	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		body, err := client.MorningCupOfCoffee(ctx, s, conversationID)
		if err != nil {
			return TurnDoneMsg{Kind: TurnCoffee, Err: err, Generation: gen}
		}
		return TurnDoneMsg{Kind: TurnCoffee, Result: CoffeeTurn(body), Generation: gen}
	}
}

// ApplyTurn resolves the pending placeholder with a turn's answer. The
// returned command fetches the morning summary when a query resolved to
// it, or refreshes the list when the backend opened a new conversation.
// Answers for a thread that has since been cleared or swapped are dropped.
func (m *Model) ApplyTurn(msg TurnDoneMsg) tea.Cmd {
	if errors.Is(msg.Err, api.ErrUnauthorized) {
		m.Expire()
		return nil
	}
	if msg.Generation != m.Thread.Generation() {
		m.debugf("Dropping turn %d sent from a closed thread", msg.Kind)
		if id := msg.Result.ConversationID; id != "" {
			if _, known := m.Conversation(id); !known {
				return m.FetchConversations()
			}
		}
		return nil
	}
	if msg.Err != nil {
		m.debugf("Turn %d failed: %v", msg.Kind, msg.Err)
		fallback := DefaultErrMessage
		if msg.Kind == TurnCoffee {
			fallback = SummaryRequestError
		}
		m.Thread.FailPending(api.ErrorText(msg.Err, fallback))
		return nil
	}

	var cmds []tea.Cmd
	if id := msg.Result.ConversationID; id != "" && id != m.Thread.ConversationID {
		m.Thread.ConversationID = id
		if _, known := m.Conversation(id); !known {
			cmds = append(cmds, m.FetchConversations())
		}
	}

	if msg.Result.Coffee {
		cmds = append(cmds, m.fetchCoffee())
		return tea.Batch(cmds...)
	}

	m.Thread.ResolvePending(msg.Result.Message)
	return tea.Batch(cmds...)
}

// ActionsOf returns the runnable actions of a buttons message
func ActionsOf(m Message) []Action {
	if m.Identifier != IdentifierButtons {
		return nil
	}
	return m.Actions()
}
