package model

import (
	"strconv"

	"github.com/tidwall/gjson"
)

// Normalize converts a conversation history into display messages. IDs are
// assigned sequentially ("h1", "h2", ...) so the same history always
// produces the same messages.
func Normalize(records []InteractionRecord) []Message {
	return NormalizeWith(records, sequentialIDs("h"))
}

// NormalizeWith is Normalize with a caller supplied ID generator
func NormalizeWith(records []InteractionRecord, nextID func() string) []Message {
	state := normalizeState{nextID: nextID}
	for _, rec := range records {
		state = state.step(rec)
	}
	if state.out == nil {
		return []Message{}
	}
	return state.out
}

// normalizeState is the accumulator of the history fold. coffeeOpen is set
// while the output ends in a morning summary run, so the next coffee record
// joins it instead of repeating the user turn. Records that emit nothing
// leave it unchanged.
type normalizeState struct {
	out        []Message
	coffeeOpen bool
	nextID     func() string
}

func (s normalizeState) step(rec InteractionRecord) normalizeState {
	before := len(s.out)
	coffee := false
	switch rec.Routine {
	case RoutineMorningCupOfCoffee:
		s.out = appendCoffee(s.out, rec, !s.coffeeOpen, s.nextID)
		coffee = true
	case RoutineGetPreviousActions:
		s.out = appendPreviousActions(s.out, rec, s.nextID)
	case RoutineExecutePreviousActions:
		s.out = appendExecutedAction(s.out, rec, s.nextID)
	default:
		s.out = appendQuery(s.out, rec, s.nextID)
		coffee = resolvedToCoffee(rec)
	}
	if len(s.out) > before {
		s.coffeeOpen = coffee
	}
	return s
}

// resolvedToCoffee reports whether a typed query was answered with the
// morning summary. Such a record emits only the user turn.
func resolvedToCoffee(rec InteractionRecord) bool {
	return gjson.GetBytes(rec.ResponseData(), "intent").String() == IntentMorningCupOfCoffee
}

func appendCoffee(out []Message, rec InteractionRecord, header bool, nextID func() string) []Message {
	data := rec.ResponseData()
	if data == nil {
		return out
	}
	entries := gjson.ParseBytes(data)
	if !entries.IsArray() {
		return out
	}

	if header {
		out = append(out, Message{
			ID:     nextID(),
			Text:   MorningCoffeeQuery,
			Sender: SenderUser,
		})
	}
	return append(out, Message{
		ID:         nextID(),
		Sender:     SenderBot,
		Identifier: IdentifierGrids,
		Group:      coffeeGroup(entries, nextID),
		Link:       rec.Link,
	})
}

// coffeeGroup maps the entries of a morning summary to grid sub-messages.
// storage-list entries carry their rows in data, the others in data.data.
func coffeeGroup(entries gjson.Result, nextID func() string) []Message {
	group := []Message{}
	entries.ForEach(func(_, entry gjson.Result) bool {
		intent := entry.Get("intent").String()
		rows := entry.Get("data")
		if intent != IntentStorageList {
			rows = entry.Get("data.data")
		}
		group = append(group, Message{
			ID:         nextID(),
			Text:       entry.Get("description").String(),
			Sender:     SenderBot,
			Identifier: Identifier(entry.Get("identifier").String()),
			Data:       rawOf(rows),
			Intent:     intent,
			Link:       entry.Get("link").String(),
		})
		return true
	})
	return group
}

func appendPreviousActions(out []Message, rec InteractionRecord, nextID func() string) []Message {
	data := rec.ResponseData()
	if data == nil {
		return out
	}
	resp := gjson.ParseBytes(data)
	return append(out,
		Message{
			ID:     nextID(),
			Text:   PreviousActionsQuery,
			Sender: SenderUser,
		},
		Message{
			ID:         nextID(),
			Text:       resp.Get("message").String(),
			Sender:     SenderBot,
			Identifier: Identifier(resp.Get("identifier").String()),
			Data:       rawOf(resp.Get("previous_actions")),
			Intent:     resp.Get("intent").String(),
		},
	)
}

func appendExecutedAction(out []Message, rec InteractionRecord, nextID func() string) []Message {
	data := rec.ResponseData()
	if data == nil {
		return out
	}
	out = append(out, userTurn(rec, nextID))
	return append(out, botTurn(gjson.ParseBytes(data), nextID))
}

func appendQuery(out []Message, rec InteractionRecord, nextID func() string) []Message {
	out = append(out, userTurn(rec, nextID))

	data := rec.ResponseData()
	if data == nil {
		return out
	}
	resp := gjson.ParseBytes(data)
	if resp.Get("intent").String() == IntentMorningCupOfCoffee {
		return out
	}
	bot := botTurn(resp, nextID)
	bot.Link = resp.Get("link").String()
	return append(out, bot)
}

func userTurn(rec InteractionRecord, nextID func() string) Message {
	return Message{
		ID:         nextID(),
		Text:       rec.Message,
		Sender:     SenderUser,
		Identifier: IdentifierText,
	}
}

// botTurn builds the bot half of a query or executed action
func botTurn(resp gjson.Result, nextID func() string) Message {
	intent := resp.Get("intent").String()
	return Message{
		ID:         nextID(),
		Text:       IntentDescription(intent),
		Sender:     SenderBot,
		Identifier: Identifier(resp.Get("identifier").String()),
		Data:       selectData(resp),
		Intent:     intent,
	}
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + strconv.Itoa(n)
	}
}
