package config

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/ssh"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv(EnvBackendURL, "")
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvSecretKey, "")
	t.Setenv(EnvPageSize, "")
	return home
}

func TestLoadFirstRunWritesTemplates(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	wantData := filepath.Join(home, ".local", "share", "sichat")
	if cfg.DataDir() != wantData {
		t.Errorf("DataDir() = %q, want %q", cfg.DataDir(), wantData)
	}
	if !FileExists(GetSettingsFilePath()) {
		t.Error("settings.toml was not created")
	}
	if !FileExists(UserConfigPath(wantData)) {
		t.Error("config.toml was not created")
	}
	info, err := os.Stat(wantData)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0700 {
		t.Errorf("data dir perms = %o, want 700", info.Mode().Perm())
	}

	if cfg.BackendURL != "http://localhost:8000" || cfg.PageSize != 5 || cfg.RequestTimeout != 60*time.Second {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.CredentialStorage != EncryptionNone {
		t.Errorf("CredentialStorage = %q", cfg.CredentialStorage)
	}
}

func TestLoadUserConfigAndEnvOverrides(t *testing.T) {
	isolate(t)
	dataDir := filepath.Join(t.TempDir(), "data")
	t.Setenv(EnvDataDir, dataDir)

	if err := EnsureDir(dataDir); err != nil {
		t.Fatal(err)
	}
	toml := `
[backend]
base_url = "https://chat.example"
request_timeout_seconds = 5
requests_per_second = 2.5

[display]
page_size = 20
`
	if err := os.WriteFile(UserConfigPath(dataDir), []byte(toml), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BackendURL != "https://chat.example" || cfg.RequestTimeout != 5*time.Second {
		t.Errorf("backend = %q %v", cfg.BackendURL, cfg.RequestTimeout)
	}
	if cfg.RequestsPerSecond != 2.5 || cfg.PageSize != 20 {
		t.Errorf("rps %v page size %d", cfg.RequestsPerSecond, cfg.PageSize)
	}
	if cfg.KeyValidationURL == "" {
		t.Error("missing keys should keep defaults")
	}

	t.Setenv(EnvBackendURL, "http://override")
	t.Setenv(EnvSecretKey, "c2VjcmV0")
	t.Setenv(EnvPageSize, "50")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BackendURL != "http://override" || cfg.SecretKey != "c2VjcmV0" || cfg.PageSize != 50 {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok", Config{BackendURL: "http://x", CredentialStorage: EncryptionNone}, false},
		{"ssh", Config{BackendURL: "http://x", CredentialStorage: EncryptionSSHKey}, false},
		{"no backend", Config{CredentialStorage: EncryptionNone}, true},
		{"bad storage", Config{BackendURL: "http://x", CredentialStorage: "vault"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveUserConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultUserConfig()
	cfg.Display.Theme = "light"

	if err := SaveUserConfig(cfg, dir); err != nil {
		t.Fatalf("SaveUserConfig() error = %v", err)
	}
	info, err := os.Stat(UserConfigPath(dir))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("perms = %o, want 600", info.Mode().Perm())
	}

	got, err := LoadUserConfig(dir)
	if err != nil {
		t.Fatalf("LoadUserConfig() error = %v", err)
	}
	if got.Display.Theme != "light" {
		t.Errorf("Theme = %q", got.Display.Theme)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	if err := LoadEnvFile(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing file should be ignored, got %v", err)
	}

	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("SICHAT_TEST_VALUE=from-file\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SICHAT_TEST_VALUE", "")
	os.Unsetenv("SICHAT_TEST_VALUE")
	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}
	if got := os.Getenv("SICHAT_TEST_VALUE"); got != "from-file" {
		t.Errorf("SICHAT_TEST_VALUE = %q", got)
	}
}

func TestDashboardURL(t *testing.T) {
	cfg := Config{InsightsGUIURL: "https://si/gui"}
	if got := cfg.DashboardURL("t1"); got != "https://si/gui/t1#dashboard?activeDashboardId=storageSystem" {
		t.Errorf("DashboardURL() = %q", got)
	}
	if cfg.DashboardURL("") != "" {
		t.Error("empty tenant should give empty URL")
	}
}

func TestExpandPath(t *testing.T) {
	home := isolate(t)
	if got := ExpandPath("~/x/y"); got != filepath.Join(home, "x", "y") {
		t.Errorf("ExpandPath(~/x/y) = %q", got)
	}
	if got := ExpandPath("~"); got != home {
		t.Errorf("ExpandPath(~) = %q", got)
	}
	if ExpandPath("") != "" {
		t.Error("empty path should stay empty")
	}
}

func writeTestKey(t *testing.T, dir, name string, passphrase string) string {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	var block *pem.Block
	if passphrase == "" {
		block, err = ssh.MarshalPrivateKey(priv, "test")
	} else {
		block, err = ssh.MarshalPrivateKeyWithPassphrase(priv, "test", []byte(passphrase))
	}
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEncryptionManagerSSHKey(t *testing.T) {
	keyPath := writeTestKey(t, t.TempDir(), "id_ed25519", "")

	em := NewEncryptionManager(EncryptionSSHKey, keyPath)
	if _, err := em.Encrypt([]byte("x")); err == nil {
		t.Error("Encrypt() before Initialize() should fail")
	}
	if err := em.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	sealed, err := em.Encrypt([]byte(`{"api_key":"k"}`))
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	if string(sealed) == `{"api_key":"k"}` {
		t.Fatal("ciphertext equals plaintext")
	}

	// A fresh manager over the same key derives the same AES key.
	other := NewEncryptionManager(EncryptionSSHKey, keyPath)
	if err := other.Initialize(); err != nil {
		t.Fatal(err)
	}
	opened, err := other.Decrypt(sealed)
	if err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}
	if string(opened) != `{"api_key":"k"}` {
		t.Errorf("Decrypt() = %s", opened)
	}

	sealed[len(sealed)-1] ^= 0xff
	if _, err := other.Decrypt(sealed); err == nil {
		t.Error("tampered ciphertext should not decrypt")
	}
}

func TestEncryptionManagerPassphrase(t *testing.T) {
	keyPath := writeTestKey(t, t.TempDir(), "id_ed25519", "hunter2")

	em := NewEncryptionManager(EncryptionSSHKey, keyPath)
	if err := em.Initialize(); !errors.Is(err, ErrPassphraseRequired) {
		t.Fatalf("Initialize() error = %v, want ErrPassphraseRequired", err)
	}
	em.SetPassphrase("wrong")
	if err := em.Initialize(); err == nil {
		t.Error("wrong passphrase should fail")
	}
	em.SetPassphrase("hunter2")
	if err := em.Initialize(); err != nil {
		t.Errorf("Initialize() error = %v", err)
	}
}

func TestEncryptionManagerNone(t *testing.T) {
	em := NewEncryptionManager(EncryptionNone, "")
	if err := em.Initialize(); err != nil {
		t.Fatal(err)
	}
	out, err := em.Encrypt([]byte("plain"))
	if err != nil || string(out) != "plain" {
		t.Errorf("Encrypt() = %q, %v", out, err)
	}
}

func TestFindSSHKeys(t *testing.T) {
	home := isolate(t)
	sshDir := filepath.Join(home, ".ssh")
	if err := os.MkdirAll(sshDir, 0700); err != nil {
		t.Fatal(err)
	}
	writeTestKey(t, sshDir, "id_ed25519", "")
	writeTestKey(t, sshDir, "sichat_ed25519", "")
	if err := os.WriteFile(filepath.Join(sshDir, "id_rsa"), []byte("not a key"), 0600); err != nil {
		t.Fatal(err)
	}

	keys, err := FindSSHKeys()
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 || filepath.Base(keys[0]) != "sichat_ed25519" {
		t.Errorf("FindSSHKeys() = %v", keys)
	}
}
