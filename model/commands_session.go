package model

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"sichat/api"
	"sichat/storage"
)

// Login authenticates against the backend. The session uses the username and
// tenant ID the backend echoes back.
func (m *Model) Login(username, tenantID, apiKey string, remember bool) tea.Cmd {
	client := m.Client
	timeout := m.requestTimeout()
	s := api.Session{Username: username, TenantID: tenantID, APIKey: apiKey}

	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()

		res, err := client.Login(ctx, s)
		if err != nil {
			return LoginDoneMsg{Err: err}
		}
		if res.Username != "" {
			s.Username = res.Username
		}
		if res.TenantID != "" {
			s.TenantID = res.TenantID
		}
		return LoginDoneMsg{Session: s, Remember: remember}
	}
}

// ApplyLogin stores a successful login and loads the conversation list
func (m *Model) ApplyLogin(msg LoginDoneMsg) (tea.Cmd, error) {
	if msg.Err != nil {
		return nil, msg.Err
	}

	m.Session = msg.Session
	m.LoggedIn = true
	m.SessionExpired = false
	m.NewChat()
	m.debugf("Logged in as %s (tenant %s)", m.Session.Username, m.Session.TenantID)

	if m.Credentials != nil {
		if err := m.Credentials.SaveSession(m.Session); err != nil {
			m.debugf("Failed to save session: %v", err)
		}
		var err error
		if msg.Remember {
			err = m.Credentials.SaveRemembered(storage.RememberedLogin{
				Username: m.Session.Username,
				TenantID: m.Session.TenantID,
				APIKey:   m.Session.APIKey,
			})
		} else {
			err = m.Credentials.ClearRemembered()
		}
		if err != nil {
			m.debugf("Failed to update remembered login: %v", err)
		}
	}
	return m.FetchConversations(), nil
}

// RestoreSession loads the session saved by a previous run. When a key
// validation URL is configured, the stored API key is checked first.
func (m *Model) RestoreSession() tea.Cmd {
	creds := m.Credentials
	if creds == nil {
		return nil
	}
	client := m.Client
	timeout := m.requestTimeout()
	validate := m.Config != nil && m.Config.KeyValidationURL != ""

	return func() tea.Msg {
		s, ok, err := creds.LoadSession()
		if err != nil || !ok {
			return SessionRestoredMsg{Err: err}
		}
		if validate {
			ctx, cancel := requestContext(timeout)
			defer cancel()
			if err := client.ValidateAPIKey(ctx, s.TenantID, s.APIKey); err != nil {
				return SessionRestoredMsg{Session: s, Found: true, Err: err}
			}
		}
		return SessionRestoredMsg{Session: s, Found: true}
	}
}

// ApplyRestoredSession signs the user back in. A session whose key was
// rejected is discarded and marks the session expired.
func (m *Model) ApplyRestoredSession(msg SessionRestoredMsg) tea.Cmd {
	if !msg.Found {
		if msg.Err != nil {
			m.debugf("Failed to restore session: %v", msg.Err)
		}
		return nil
	}
	if msg.Err != nil {
		m.debugf("Stored session rejected: %v", msg.Err)
		if errors.Is(msg.Err, api.ErrUnauthorized) {
			m.SessionExpired = true
		}
		m.clearSession()
		return nil
	}

	m.Session = msg.Session
	m.LoggedIn = true
	return m.FetchConversations()
}

// LoadRemembered reads the "remember me" login that prefills the form
func (m *Model) LoadRemembered() tea.Cmd {
	creds := m.Credentials
	if creds == nil {
		return nil
	}
	return func() tea.Msg {
		r, ok, err := creds.LoadRemembered()
		if err != nil {
			return RememberedLoginMsg{}
		}
		return RememberedLoginMsg{Username: r.Username, TenantID: r.TenantID, APIKey: r.APIKey, Found: ok}
	}
}

// Logout ends the backend session. Local state is cleared right away so
// the login screen shows even if the backend is unreachable.
func (m *Model) Logout() tea.Cmd {
	client := m.Client
	timeout := m.requestTimeout()
	s := m.Session
	m.clearSession()

	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		if err := client.Logout(ctx, s); err != nil {
			return LogoutDoneMsg{Err: fmt.Errorf("failed to log out: %w", err)}
		}
		return LogoutDoneMsg{}
	}
}

// Expire handles a rejected API key from any call
func (m *Model) Expire() {
	m.SessionExpired = true
	m.clearSession()
}

func (m *Model) clearSession() {
	m.Session = api.Session{}
	m.LoggedIn = false
	m.Conversations = []api.Conversation{}
	m.Offline = false
	m.Thread.Reset()
	if m.Credentials != nil {
		if err := m.Credentials.ClearSession(); err != nil {
			m.debugf("Failed to clear session: %v", err)
		}
	}
}
