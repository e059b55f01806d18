package api

import (
	"encoding/json"
	"strings"
	"time"
)

// Session identifies the logged-in user. It is passed to every call that
// needs credentials.
type Session struct {
	Username string `json:"username"`
	TenantID string `json:"tenant_id"`
	APIKey   string `json:"api_key"`
}

// Valid reports whether all session fields are set
func (s Session) Valid() bool {
	return s.Username != "" && s.TenantID != "" && s.APIKey != ""
}

// Conversation is one entry of the user's conversation list
type Conversation struct {
	ID              string `json:"conversation_id"`
	Title           string `json:"conversation_title"`
	RecentTimestamp string `json:"recent_timestamp"`
}

// timestampLayouts covers the ISO forms the backend writes (no zone)
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// ParseTimestamp parses a backend timestamp. Zone-less values are read as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Updated returns the time of the conversation's last exchange
func (c Conversation) Updated() time.Time {
	t, _ := ParseTimestamp(c.RecentTimestamp)
	return t
}

// LoginResult is the backend's answer to a successful login
type LoginResult struct {
	Message  string
	Username string
	TenantID string
}

// Action is a previous action to execute again
type Action struct {
	Intent    string          `json:"intent"`
	Entity    json.RawMessage `json:"entity,omitempty"`
	UserQuery string          `json:"userQuery"`
}

type basePayload struct {
	TenantID       string `json:"tenant_id"`
	APIKey         string `json:"api_key"`
	Username       string `json:"username"`
	ConversationID string `json:"conversation_id"`
}

type queryPayload struct {
	basePayload
	UserQuery string `json:"userQuery"`
}

type executePayload struct {
	basePayload
	Action    string          `json:"action"`
	Entities  json.RawMessage `json:"entities"`
	UserQuery string          `json:"userQuery"`
}

type previousActionsPayload struct {
	Username       string `json:"username"`
	TenantID       string `json:"tenant_id"`
	ConversationID string `json:"conversation_id"`
}

type loginPayload struct {
	Username string `json:"username"`
	APIKey   string `json:"api_key"`
	TenantID string `json:"tenant_id"`
}

type logoutPayload struct {
	Username string `json:"username"`
	TenantID string `json:"tenant_id"`
}

type renamePayload struct {
	NewTitle       string `json:"new_title"`
	ConversationID string `json:"conversation_id"`
	Username       string `json:"username"`
	TenantID       string `json:"tenant_id"`
}

type deletePayload struct {
	ConversationIDs []string `json:"conversation_ids"`
	Username        string   `json:"username"`
	TenantID        string   `json:"tenant_id"`
}
