package model

import (
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// TurnResult is the bot side of a live exchange
type TurnResult struct {
	Message        Message
	ConversationID string
	// Coffee is set when a typed query or action resolved to the morning
	// summary intent. The caller fetches the summary to fill the turn.
	Coffee bool
}

// QueryTurn converts a run_chatbot response
func QueryTurn(body []byte) TurnResult {
	resp := gjson.ParseBytes(body)
	res := TurnResult{ConversationID: resp.Get("conversation_id").String()}
	if resp.Get("intent").String() == IntentMorningCupOfCoffee {
		res.Coffee = true
		return res
	}

	msg := botTurn(resp, uuid.NewString)
	msg.Link = resp.Get("link").String()
	if TabularEmpty(msg) {
		msg = textTurn(NoDataAvailable)
	}
	res.Message = msg
	return res
}

// ExecuteTurn converts an execute_action response
func ExecuteTurn(body []byte) TurnResult {
	resp := gjson.ParseBytes(body)
	res := TurnResult{ConversationID: resp.Get("conversation_id").String()}
	if resp.Get("intent").String() == IntentMorningCupOfCoffee {
		res.Coffee = true
		return res
	}

	msg := botTurn(resp, uuid.NewString)
	if TabularEmpty(msg) {
		msg = textTurn(NoActionsAvailable)
	}
	res.Message = msg
	return res
}

// PreviousActionsTurn converts a previous_actions response
func PreviousActionsTurn(body []byte) TurnResult {
	resp := gjson.ParseBytes(body)
	actions := resp.Get("previous_actions")

	text := NoActionsAvailable
	if actions.IsArray() && len(actions.Array()) > 0 {
		text = resp.Get("message").String()
	}
	return TurnResult{
		ConversationID: resp.Get("conversation_id").String(),
		Message: Message{
			ID:         uuid.NewString(),
			Text:       text,
			Sender:     SenderBot,
			Identifier: Identifier(resp.Get("identifier").String()),
			Data:       rawOf(actions),
			Intent:     resp.Get("intent").String(),
		},
	}
}

// CoffeeTurn converts a morning_cup_of_coffee response
func CoffeeTurn(body []byte) TurnResult {
	resp := gjson.ParseBytes(body)
	res := TurnResult{ConversationID: resp.Get("conversation_id").String()}

	entries := resp.Get("data")
	if !entries.IsArray() {
		res.Message = textTurn(SummaryRequestError)
		return res
	}
	group := coffeeGroup(entries, uuid.NewString)
	if GroupAllEmpty(group) {
		res.Message = textTurn(SummaryNoDataMessage)
		return res
	}
	res.Message = Message{
		ID:         uuid.NewString(),
		Sender:     SenderBot,
		Identifier: IdentifierGrids,
		Group:      group,
	}
	return res
}

// GroupAllEmpty reports whether no sub-message of a summary carries data.
// An empty group counts as empty.
func GroupAllEmpty(group []Message) bool {
	for _, m := range group {
		if !emptyData(m.Data) {
			return false
		}
	}
	return true
}

// TabularEmpty reports whether a grid, grids or chart message has nothing
// to show. Other identifiers are never empty.
func TabularEmpty(m Message) bool {
	if !m.Identifier.Tabular() {
		return false
	}
	if m.Identifier == IdentifierGrids && len(m.Group) > 0 {
		return false
	}
	return emptyData(m.Data)
}

func emptyData(data []byte) bool {
	if len(data) == 0 {
		return true
	}
	r := gjson.ParseBytes(data)
	if !truthy(r) {
		return true
	}
	return r.IsArray() && len(r.Array()) == 0
}

func textTurn(text string) Message {
	return Message{ID: uuid.NewString(), Text: text, Sender: SenderBot}
}
