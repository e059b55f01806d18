package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"sichat/api"
	"sichat/config"
)

const (
	sessionFile    = "session.json"
	rememberedFile = "remembered.json"
)

// RememberedLogin prefills the login form
type RememberedLogin struct {
	Username string `json:"username"`
	TenantID string `json:"tenant_id"`
	APIKey   string `json:"api_key"`
}

// CredentialStore keeps the active session and the "remember me" login in
// the data directory. With the ssh_key method both files are sealed by the
// EncryptionManager and get a .enc suffix.
type CredentialStore struct {
	dir        string
	encManager *config.EncryptionManager
}

// NewCredentialStore expects encManager to be initialized already
func NewCredentialStore(dataDir string, encManager *config.EncryptionManager) (*CredentialStore, error) {
	if encManager == nil {
		encManager = config.NewEncryptionManager(config.EncryptionNone, "")
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &CredentialStore{dir: dataDir, encManager: encManager}, nil
}

func (c *CredentialStore) path(name string) string {
	if c.encManager.Method() == config.EncryptionSSHKey {
		name += ".enc"
	}
	return filepath.Join(c.dir, name)
}

// SaveSession persists the logged-in session so the next start skips login
func (c *CredentialStore) SaveSession(s api.Session) error {
	return c.write(sessionFile, s)
}

// LoadSession returns ok=false when no session is stored
func (c *CredentialStore) LoadSession() (api.Session, bool, error) {
	var s api.Session
	ok, err := c.read(sessionFile, &s)
	if err != nil || !ok {
		return api.Session{}, false, err
	}
	return s, s.Valid(), nil
}

func (c *CredentialStore) ClearSession() error {
	return c.remove(sessionFile)
}

func (c *CredentialStore) SaveRemembered(r RememberedLogin) error {
	return c.write(rememberedFile, r)
}

func (c *CredentialStore) LoadRemembered() (RememberedLogin, bool, error) {
	var r RememberedLogin
	ok, err := c.read(rememberedFile, &r)
	if err != nil || !ok {
		return RememberedLogin{}, false, err
	}
	return r, true, nil
}

func (c *CredentialStore) ClearRemembered() error {
	return c.remove(rememberedFile)
}

func (c *CredentialStore) write(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	sealed, err := c.encManager.Encrypt(data)
	if err != nil {
		return fmt.Errorf("failed to encrypt %s: %w", name, err)
	}
	// 0600: holds the API key
	if err := os.WriteFile(c.path(name), sealed, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func (c *CredentialStore) read(name string, v any) (bool, error) {
	sealed, err := os.ReadFile(c.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", name, err)
	}
	data, err := c.encManager.Decrypt(sealed)
	if err != nil {
		return false, fmt.Errorf("failed to decrypt %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", name, err)
	}
	return true, nil
}

func (c *CredentialStore) remove(name string) error {
	if err := os.Remove(c.path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}
	return nil
}
