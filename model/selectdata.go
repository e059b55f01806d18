package model

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// SelectData decides what a bot message's data should hold for a response
// payload. Markdown responses prefer a non-empty "data" and fall back to
// "message"; every other identifier passes "data" through unchanged.
func SelectData(responseData []byte) json.RawMessage {
	return selectData(gjson.ParseBytes(responseData))
}

func selectData(resp gjson.Result) json.RawMessage {
	data := resp.Get("data")
	if Identifier(resp.Get("identifier").String()) == IdentifierMarkdown && !truthy(data) {
		return rawOf(resp.Get("message"))
	}
	return rawOf(data)
}

// truthy mirrors how the backend's consumers test optional fields: absent,
// null, false, 0 and "" all count as empty. Arrays and objects never do.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.Null:
		return false
	case gjson.False:
		return false
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	case gjson.True, gjson.JSON:
		return true
	}
	return false
}

// rawOf returns the raw JSON of a lookup result, or nil when it does not exist
func rawOf(r gjson.Result) json.RawMessage {
	if !r.Exists() {
		return nil
	}
	return json.RawMessage(r.Raw)
}
