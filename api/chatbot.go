package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
)

// Login registers the session with the backend
func (c *Client) Login(ctx context.Context, s Session) (LoginResult, error) {
	key, err := c.encryptKey(s.APIKey)
	if err != nil {
		return LoginResult{}, err
	}
	body, err := c.do(ctx, http.MethodPost, "login", nil, loginPayload{
		Username: s.Username,
		APIKey:   key,
		TenantID: s.TenantID,
	})
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to log in: %w", err)
	}

	user := gjson.GetBytes(body, "user_data")
	if !user.IsObject() {
		return LoginResult{}, errors.New("failed to log in: invalid credentials")
	}
	return LoginResult{
		Message:  gjson.GetBytes(body, "message").String(),
		Username: user.Get("username").String(),
		TenantID: user.Get("tenant_id").String(),
	}, nil
}

// Logout ends the session on the backend
func (c *Client) Logout(ctx context.Context, s Session) error {
	if _, err := c.do(ctx, http.MethodPost, "logout", nil, logoutPayload{
		Username: s.Username,
		TenantID: s.TenantID,
	}); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	return nil
}

func (c *Client) base(s Session, conversationID string) (basePayload, error) {
	key, err := c.encryptKey(s.APIKey)
	if err != nil {
		return basePayload{}, err
	}
	return basePayload{
		TenantID:       s.TenantID,
		APIKey:         key,
		Username:       s.Username,
		ConversationID: conversationID,
	}, nil
}

// RunChatbot sends a typed query. An empty conversationID starts a new
// conversation; the response carries the assigned conversation_id.
func (c *Client) RunChatbot(ctx context.Context, s Session, conversationID, query string) (json.RawMessage, error) {
	base, err := c.base(s, conversationID)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, "run_chatbot", nil, queryPayload{basePayload: base, UserQuery: query})
}

// MorningCupOfCoffee fetches the morning summary
func (c *Client) MorningCupOfCoffee(ctx context.Context, s Session, conversationID string) (json.RawMessage, error) {
	base, err := c.base(s, conversationID)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, "morning_cup_of_coffee", nil, base)
}

// PreviousActions lists the user's recent actions
func (c *Client) PreviousActions(ctx context.Context, s Session, conversationID string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "previous_actions", nil, previousActionsPayload{
		Username:       s.Username,
		TenantID:       s.TenantID,
		ConversationID: conversationID,
	})
}

// ExecuteAction runs a previous action again
func (c *Client) ExecuteAction(ctx context.Context, s Session, conversationID string, action Action) (json.RawMessage, error) {
	base, err := c.base(s, conversationID)
	if err != nil {
		return nil, err
	}
	entities := action.Entity
	if len(entities) == 0 {
		entities = json.RawMessage("null")
	}
	return c.do(ctx, http.MethodPost, "execute_action", nil, executePayload{
		basePayload: base,
		Action:      action.Intent,
		Entities:    entities,
		UserQuery:   action.UserQuery,
	})
}

// ListConversations returns the user's conversations as the backend orders them
func (c *Client) ListConversations(ctx context.Context, s Session) ([]Conversation, error) {
	body, err := c.do(ctx, http.MethodGet, "get_user_conversation_list", url.Values{
		"username":  {s.Username},
		"tenant_id": {s.TenantID},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	var list []Conversation
	if len(body) > 0 && gjson.ParseBytes(body).IsArray() {
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, fmt.Errorf("failed to decode conversation list: %w", err)
		}
	}
	return list, nil
}

// ConversationHistory returns the raw stored history of a conversation
func (c *Client) ConversationHistory(ctx context.Context, s Session, conversationID string) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodGet, "get_conversation_history", url.Values{
		"username":        {s.Username},
		"conversation_id": {conversationID},
		"tenant_id":       {s.TenantID},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation history: %w", err)
	}
	return body, nil
}

// RenameConversation changes a conversation's title and returns the number
// of rows the backend updated
func (c *Client) RenameConversation(ctx context.Context, s Session, conversationID, title string) (int, error) {
	body, err := c.do(ctx, http.MethodPut, "rename_conversation_title", nil, renamePayload{
		NewTitle:       title,
		ConversationID: conversationID,
		Username:       s.Username,
		TenantID:       s.TenantID,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to rename conversation: %w", err)
	}
	return int(gjson.ParseBytes(body).Int()), nil
}

// DeleteConversations removes conversations and returns the backend's message
func (c *Client) DeleteConversations(ctx context.Context, s Session, conversationIDs []string) (string, error) {
	body, err := c.do(ctx, http.MethodDelete, "delete_conversations", nil, deletePayload{
		ConversationIDs: conversationIDs,
		Username:        s.Username,
		TenantID:        s.TenantID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to delete conversations: %w", err)
	}
	return gjson.GetBytes(body, "message").String(), nil
}

// ValidateAPIKey asks Storage Insights for a token with the key. A nil
// error means the key is valid for the tenant.
func (c *Client) ValidateAPIKey(ctx context.Context, tenantID, apiKey string) error {
	if c.validationURL == nil {
		return errors.New("key validation URL is not configured")
	}
	target := c.validationURL.JoinPath("tenants", tenantID, "token")
	header := http.Header{}
	header.Set("x-api-key", apiKey)
	if _, err := c.send(ctx, http.MethodPost, target.String(), struct{}{}, header); err != nil {
		return fmt.Errorf("failed to validate API key: %w", err)
	}
	return nil
}
