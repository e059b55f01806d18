package model

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// Routine is the backend category of a history record
type Routine int

const (
	RoutineDefault Routine = iota
	RoutineMorningCupOfCoffee
	RoutineGetPreviousActions
	RoutineExecutePreviousActions
)

// Routine tags as stored by the backend. The backend spells the previous
// actions routines "pervious"; both spellings are accepted on read.
const (
	routineTagCoffee         = "morning-cup-of-coffee"
	routineTagGetActions     = "get-previous-actions"
	routineTagGetActionsAlt  = "get-pervious-actions"
	routineTagExecActions    = "execute-previous-actions"
	routineTagExecActionsAlt = "execute-pervious-actions"
)

// ParseRoutine maps a routine tag to its Routine. Unknown and empty tags
// are RoutineDefault.
func ParseRoutine(tag string) Routine {
	switch tag {
	case routineTagCoffee:
		return RoutineMorningCupOfCoffee
	case routineTagGetActions, routineTagGetActionsAlt:
		return RoutineGetPreviousActions
	case routineTagExecActions, routineTagExecActionsAlt:
		return RoutineExecutePreviousActions
	default:
		return RoutineDefault
	}
}

func (r Routine) String() string {
	switch r {
	case RoutineMorningCupOfCoffee:
		return routineTagCoffee
	case RoutineGetPreviousActions:
		return routineTagGetActions
	case RoutineExecutePreviousActions:
		return routineTagExecActions
	default:
		return "default"
	}
}

// Response wraps the backend payload of a record
type Response struct {
	// Data is the raw responseData, nil when the backend stored none
	Data json.RawMessage
}

// InteractionRecord is one stored exchange of a conversation
type InteractionRecord struct {
	Routine        Routine
	ConversationID string
	Message        string
	Response       *Response
	Link           string
	Timestamp      string
	TenantID       string
}

// ResponseData returns the record's responseData, or nil when either the
// Response or its responseData is missing.
func (r InteractionRecord) ResponseData() json.RawMessage {
	if r.Response == nil {
		return nil
	}
	return r.Response.Data
}

// UnmarshalJSON reads a record tolerantly: fields of an unexpected type
// read as empty instead of failing the whole history.
func (r *InteractionRecord) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return errors.New("invalid interaction record JSON")
	}
	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return fmt.Errorf("interaction record must be an object, got %s", res.Type)
	}

	*r = InteractionRecord{
		Routine:        ParseRoutine(res.Get("routine").String()),
		ConversationID: res.Get("conversation_id").String(),
		Message:        res.Get("Message").String(),
		Link:           res.Get("link").String(),
		Timestamp:      res.Get("timestamp").String(),
		TenantID:       res.Get("tenant_id").String(),
	}

	resp := res.Get("Response")
	if resp.IsObject() {
		r.Response = &Response{Data: presentRaw(resp.Get("responseData"))}
	}
	return nil
}

// presentRaw is rawOf with JSON null treated as absent
func presentRaw(r gjson.Result) json.RawMessage {
	if r.Type == gjson.Null {
		return nil
	}
	return rawOf(r)
}

// ParseHistory decodes a get_conversation_history payload. A null body is
// an empty history. Elements that are not objects are skipped.
func ParseHistory(body []byte) ([]InteractionRecord, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("failed to parse conversation history: invalid JSON")
	}
	res := gjson.ParseBytes(body)
	if res.Type == gjson.Null {
		return nil, nil
	}
	if !res.IsArray() {
		return nil, fmt.Errorf("failed to parse conversation history: expected array, got %s", res.Type)
	}

	var records []InteractionRecord
	for _, item := range res.Array() {
		var rec InteractionRecord
		if err := rec.UnmarshalJSON([]byte(item.Raw)); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}
