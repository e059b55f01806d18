package testutil

import (
	"encoding/json"

	"sichat/api"
)

// SecretKey is a base64 AES-256 key for tests
const SecretKey = "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY="

// TestSession returns a session whose key the fake backend accepts
func TestSession() api.Session {
	return api.Session{
		Username: "alice",
		TenantID: "tenant-1",
		APIKey:   "key-123",
	}
}

// TestConversations returns a conversation list in backend order (oldest first)
func TestConversations() []api.Conversation {
	return []api.Conversation{
		{ID: "c1", Title: "Volumes on FS9500", RecentTimestamp: "2024-05-01T09:00:00.000000"},
		{ID: "c2", Title: "Morning summary", RecentTimestamp: "2024-05-02T08:30:00.000000"},
		{ID: "c3", Title: "Tenant alerts", RecentTimestamp: "2024-05-03T17:45:10.500000"},
	}
}

// GridRows is a storage-list payload with two systems
const GridRows = `[
	{"name":"FS9500","condition":"normal","vendor":"IBM","type":"block","model":"9500","firmware":"8.6","ip_address":"10.0.0.1","storage_system_id":"s1"},
	{"name":"FS7300","condition":"warning_acknowledged","vendor":"IBM","type":"block","model":"7300","firmware":"8.5","ip_address":"10.0.0.2","storage_system_id":"s2"}
]`

// HistoryJSON returns a stored history that exercises every routine
func HistoryJSON() json.RawMessage {
	return json.RawMessage(`[
	{
		"conversation_id": "c1",
		"Message": "list my storage systems",
		"Response": {"responseData": {"intent": "storage-list", "identifier": "grid", "data": ` + GridRows + `, "link": "https://insights.example/gui/tenant-1"}},
		"timestamp": "2024-05-01T09:00:00.000000",
		"tenant_id": "tenant-1"
	},
	{
		"conversation_id": "c1",
		"routine": "morning-cup-of-coffee",
		"link": "https://insights.example/gui/tenant-1#dashboard",
		"Response": {"responseData": [
			{"description": "Your storage systems", "identifier": "grid", "intent": "storage-list", "data": ` + GridRows + `},
			{"description": "Open alerts", "identifier": "grid", "intent": "tenant-alerts", "data": {"data": []}}
		]},
		"timestamp": "2024-05-01T09:01:00.000000"
	},
	{
		"conversation_id": "c1",
		"routine": "get-pervious-actions",
		"Response": {"responseData": {"message": "found 2", "identifier": "buttons", "intent": "storage-list", "previous_actions": [
			{"intent": "storage-list", "entity": {}, "userQuery": "list my storage systems"},
			{"intent": "tenant-alerts", "entity": {}, "userQuery": "show tenant alerts"}
		]}},
		"timestamp": "2024-05-01T09:02:00.000000"
	},
	{
		"conversation_id": "c1",
		"routine": "execute-pervious-actions",
		"Message": "show tenant alerts",
		"Response": {"responseData": {"intent": "chatbot-capabilities", "identifier": "markdown", "data": "", "message": "**No alerts** right now"}},
		"timestamp": "2024-05-01T09:03:00.000000"
	}
]`)
}

// QueryResponse is a run_chatbot answer for a new conversation
func QueryResponse(conversationID string) json.RawMessage {
	return json.RawMessage(`{"conversation_id":"` + conversationID + `","intent":"storage-list","identifier":"grid","data":` + GridRows + `,"link":"https://insights.example/gui/tenant-1"}`)
}

// CoffeeResponse is a morning_cup_of_coffee answer
func CoffeeResponse(conversationID string) json.RawMessage {
	return json.RawMessage(`{"conversation_id":"` + conversationID + `","data":[
		{"description":"Your storage systems","identifier":"grid","intent":"storage-list","data":` + GridRows + `},
		{"description":"Metrics","identifier":"chart","intent":"storage-system-metric","data":{"data":[{"timeStamp":1714550400000,"read_io_rate":12.5},{"timeStamp":1714554000000,"read_io_rate":20}]}}
	]}`)
}

// PreviousActionsResponse is a previous_actions answer with two actions
func PreviousActionsResponse() json.RawMessage {
	return json.RawMessage(`{"message":"found 2","identifier":"buttons","intent":"storage-list","previous_actions":[
		{"intent":"storage-list","entity":{},"userQuery":"list my storage systems"},
		{"intent":"tenant-alerts","entity":{},"userQuery":"show tenant alerts"}
	]}`)
}
