package model

import (
	"context"
	"time"

	"sichat/api"
	"sichat/config"
	"sichat/storage"
)

const defaultRequestTimeout = 60 * time.Second

// Model holds the application data and the state of the signed-in user.
// The ui package owns presentation; everything that talks to the backend
// or local storage goes through here.
type Model struct {
	Config      *config.Config
	Client      *api.Client
	Credentials *storage.CredentialStore
	Cache       *storage.HistoryCache

	Session       api.Session
	LoggedIn      bool
	Thread        *Thread
	Conversations []api.Conversation

	// Offline is set while the conversation list or the open thread was
	// served from the local cache.
	Offline bool
	// SessionExpired is set when the backend rejected the API key. The UI
	// returns to the login screen and shows APIKeyExpiredMessage.
	SessionExpired bool

	Quitting bool
	Version  string
}

// NewModel wires the backend client and local stores. creds and cache may be
// nil; the model then runs without persistence.
func NewModel(cfg *config.Config, client *api.Client, creds *storage.CredentialStore, cache *storage.HistoryCache, version string) *Model {
	return &Model{
		Config:        cfg,
		Client:        client,
		Credentials:   creds,
		Cache:         cache,
		Thread:        NewThread(),
		Conversations: []api.Conversation{},
		Version:       version,
	}
}

func (m *Model) requestTimeout() time.Duration {
	if m.Config != nil && m.Config.RequestTimeout > 0 {
		return m.Config.RequestTimeout
	}
	return defaultRequestTimeout
}

// requestContext bounds a single backend call
func requestContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// DashboardURL links to the Storage Insights dashboard of the current tenant
func (m *Model) DashboardURL() string {
	if m.Config == nil {
		return ""
	}
	return m.Config.DashboardURL(m.Session.TenantID)
}

// Conversation returns the list entry for id
func (m *Model) Conversation(id string) (api.Conversation, bool) {
	for _, c := range m.Conversations {
		if c.ID == id {
			return c, true
		}
	}
	return api.Conversation{}, false
}

// NewChat clears the thread. The backend assigns a conversation ID with the
// first answer.
func (m *Model) NewChat() {
	m.Thread.Reset()
	m.Offline = false
}

func (m *Model) debugf(format string, args ...any) {
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Model] "+format, args...)
	}
}
