package model

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"sichat/api"
	"sichat/config"
	"sichat/storage"
)

// FetchConversations loads the conversation list. When the backend cannot be
// reached the cached list is returned with FromCache set. Rejected keys are
// never masked by the cache.
func (m *Model) FetchConversations() tea.Cmd {
	client, cache := m.Client, m.Cache
	s := m.Session
	timeout := m.requestTimeout()

	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()

		list, err := client.ListConversations(ctx, s)
		if err == nil {
			storage.SortConversations(list)
			if cache != nil {
				if cerr := cache.SaveConversations(ctx, s, list); cerr != nil {
					logCacheError(cerr)
				}
			}
			return ConversationsMsg{Conversations: list}
		}

		if cache != nil && cacheable(err) {
			if cached, cerr := cache.Conversations(context.Background(), s); cerr == nil && len(cached) > 0 {
				return ConversationsMsg{Conversations: cached, FromCache: true}
			}
		}
		return ConversationsMsg{Err: err}
	}
}

// ApplyConversations replaces the sidebar list
func (m *Model) ApplyConversations(msg ConversationsMsg) error {
	if msg.Err != nil {
		if errors.Is(msg.Err, api.ErrUnauthorized) {
			m.Expire()
		}
		return msg.Err
	}
	m.Conversations = msg.Conversations
	if m.Conversations == nil {
		m.Conversations = []api.Conversation{}
	}
	m.Offline = msg.FromCache
	return nil
}

// OpenConversation fetches and normalizes a conversation's history
func (m *Model) OpenConversation(conversationID string) tea.Cmd {
	client, cache := m.Client, m.Cache
	s := m.Session
	timeout := m.requestTimeout()

	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()

		body, err := client.ConversationHistory(ctx, s, conversationID)
		fromCache := false
		if err != nil {
			if cache == nil || !cacheable(err) {
				return HistoryLoadedMsg{ConversationID: conversationID, Err: err}
			}
			cached, ok, cerr := cache.History(context.Background(), s, conversationID)
			if cerr != nil || !ok {
				return HistoryLoadedMsg{ConversationID: conversationID, Err: err}
			}
			body, fromCache = cached, true
		} else if cache != nil {
			if cerr := cache.SaveHistory(ctx, s, conversationID, body); cerr != nil {
				logCacheError(cerr)
			}
		}

		records, err := ParseHistory(body)
		if err != nil {
			return HistoryLoadedMsg{ConversationID: conversationID, Err: fmt.Errorf("failed to parse history: %w", err)}
		}
		return HistoryLoadedMsg{
			ConversationID: conversationID,
			Messages:       Normalize(records),
			FromCache:      fromCache,
		}
	}
}

// ApplyHistory shows a loaded conversation
func (m *Model) ApplyHistory(msg HistoryLoadedMsg) error {
	if msg.Err != nil {
		if errors.Is(msg.Err, api.ErrUnauthorized) {
			m.Expire()
		}
		return msg.Err
	}
	m.Thread.Replace(msg.ConversationID, msg.Messages)
	m.Offline = msg.FromCache
	return nil
}

// RenameConversation sets a new title. Blank titles are rejected locally.
func (m *Model) RenameConversation(conversationID, title string) tea.Cmd {
	client, cache := m.Client, m.Cache
	s := m.Session
	timeout := m.requestTimeout()

	return func() tea.Msg {
		if title == "" {
			return ConversationRenamedMsg{ConversationID: conversationID, Err: errors.New("title cannot be empty")}
		}
		ctx, cancel := requestContext(timeout)
		defer cancel()

		if _, err := client.RenameConversation(ctx, s, conversationID, title); err != nil {
			return ConversationRenamedMsg{ConversationID: conversationID, Err: err}
		}
		if cache != nil {
			if err := cache.RenameConversation(ctx, s, conversationID, title); err != nil {
				logCacheError(err)
			}
		}
		return ConversationRenamedMsg{ConversationID: conversationID, Title: title}
	}
}

func (m *Model) ApplyRename(msg ConversationRenamedMsg) error {
	if msg.Err != nil {
		if errors.Is(msg.Err, api.ErrUnauthorized) {
			m.Expire()
		}
		return msg.Err
	}
	for i := range m.Conversations {
		if m.Conversations[i].ID == msg.ConversationID {
			m.Conversations[i].Title = msg.Title
		}
	}
	return nil
}

// DeleteConversations removes conversations on the backend and evicts them
// from the cache
func (m *Model) DeleteConversations(conversationIDs ...string) tea.Cmd {
	client, cache := m.Client, m.Cache
	s := m.Session
	timeout := m.requestTimeout()
	ids := append([]string(nil), conversationIDs...)

	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()

		message, err := client.DeleteConversations(ctx, s, ids)
		if err != nil {
			return ConversationsDeletedMsg{ConversationIDs: ids, Err: err}
		}
		if cache != nil {
			if err := cache.Evict(ctx, s, ids...); err != nil {
				logCacheError(err)
			}
		}
		return ConversationsDeletedMsg{ConversationIDs: ids, Message: message}
	}
}

// ApplyDelete drops deleted entries and starts a new chat when the open
// conversation was among them
func (m *Model) ApplyDelete(msg ConversationsDeletedMsg) error {
	if msg.Err != nil {
		if errors.Is(msg.Err, api.ErrUnauthorized) {
			m.Expire()
		}
		return msg.Err
	}

	deleted := make(map[string]bool, len(msg.ConversationIDs))
	for _, id := range msg.ConversationIDs {
		deleted[id] = true
	}
	kept := m.Conversations[:0]
	for _, c := range m.Conversations {
		if !deleted[c.ID] {
			kept = append(kept, c)
		}
	}
	m.Conversations = kept

	if deleted[m.Thread.ConversationID] {
		m.NewChat()
	}
	return nil
}

// cacheable reports whether err means the backend could not answer, as
// opposed to answering with a rejection
func cacheable(err error) bool {
	if errors.Is(err, api.ErrUnauthorized) {
		return false
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}
	return true
}

func logCacheError(err error) {
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Cache] %v", err)
	}
}
