package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type BackendConfig struct {
	BaseURL               string  `toml:"base_url"`
	KeyValidationURL      string  `toml:"key_validation_url"`
	InsightsGUIURL        string  `toml:"insights_gui_url"`
	RequestTimeoutSeconds int     `toml:"request_timeout_seconds"`
	RequestsPerSecond     float64 `toml:"requests_per_second"`
}

type DisplayConfig struct {
	PageSize int    `toml:"page_size"`
	Theme    string `toml:"theme"`
}

type SecurityConfig struct {
	CredentialStorage string `toml:"credential_storage"` // "plaintext" or "ssh_key"
	SSHKeyPath        string `toml:"ssh_key_path,omitempty"`
}

type UserConfig struct {
	Backend  BackendConfig  `toml:"backend"`
	Display  DisplayConfig  `toml:"display"`
	Security SecurityConfig `toml:"security"`
}

type Config struct {
	DataDirectory     string
	BackendURL        string
	KeyValidationURL  string
	InsightsGUIURL    string
	RequestTimeout    time.Duration
	RequestsPerSecond float64
	PageSize          int
	Theme             string
	CredentialStorage EncryptionMethod
	SSHKeyPath        string

	// SecretKey is the base64 AES key shared with the backend. It only ever
	// comes from the environment and is never written to disk.
	SecretKey string
}

const (
	EnvBackendURL = "SICHAT_BACKEND_URL"
	EnvDataDir    = "SICHAT_DATA_DIR"
	EnvSecretKey  = "SICHAT_SECRET_KEY"
	EnvDebug      = "SICHAT_DEBUG"
	EnvPageSize   = "SICHAT_PAGE_SIZE"
)

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// DashboardURL returns the Storage Insights dashboard link for a tenant
func (c *Config) DashboardURL(tenantID string) string {
	if c.InsightsGUIURL == "" || tenantID == "" {
		return ""
	}
	return c.InsightsGUIURL + "/" + tenantID + "#dashboard?activeDashboardId=storageSystem"
}

// LoadEnvFile reads a .env file into the environment. Variables that are
// already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if url := os.Getenv(EnvBackendURL); url != "" {
		c.BackendURL = url
	}
	if dataDir := os.Getenv(EnvDataDir); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if size, err := strconv.Atoi(os.Getenv(EnvPageSize)); err == nil && size > 0 {
		c.PageSize = size
	}
	c.SecretKey = os.Getenv(EnvSecretKey)
}

func (c *Config) applyUserConfig(u *UserConfig) {
	c.BackendURL = u.Backend.BaseURL
	c.KeyValidationURL = u.Backend.KeyValidationURL
	c.InsightsGUIURL = u.Backend.InsightsGUIURL
	if u.Backend.RequestTimeoutSeconds > 0 {
		c.RequestTimeout = time.Duration(u.Backend.RequestTimeoutSeconds) * time.Second
	}
	c.RequestsPerSecond = u.Backend.RequestsPerSecond
	if u.Display.PageSize > 0 {
		c.PageSize = u.Display.PageSize
	}
	if u.Display.Theme != "" {
		c.Theme = u.Display.Theme
	}
	if u.Security.CredentialStorage != "" {
		c.CredentialStorage = EncryptionMethod(u.Security.CredentialStorage)
	}
	c.SSHKeyPath = ExpandPath(u.Security.SSHKeyPath)
}

func CheckDebug() bool {
	debug := os.Getenv(EnvDebug)
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600: request paths and tenant IDs end up in here
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (%s=%s) ===", EnvDebug, os.Getenv(EnvDebug))
	DebugLog.Printf("Log path: %s", logPath)
}

// Load reads the system and user config files, creating them from templates
// on first run, then applies environment overrides.
func Load() (*Config, error) {
	def := DefaultUserConfig()
	cfg := &Config{
		DataDirectory:     DefaultSystemConfig().DataDirectory,
		RequestTimeout:    time.Duration(def.Backend.RequestTimeoutSeconds) * time.Second,
		PageSize:          def.Display.PageSize,
		Theme:             def.Display.Theme,
		CredentialStorage: EncryptionNone,
	}

	systemCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}
	cfg.DataDirectory = systemCfg.DataDirectory
	if dataDir := os.Getenv(EnvDataDir); dataDir != "" {
		cfg.DataDirectory = dataDir
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	cfg.applyUserConfig(userCfg)
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings the client cannot run with
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("backend URL is not set (config.toml [backend] base_url or %s)", EnvBackendURL)
	}
	switch c.CredentialStorage {
	case EncryptionNone, EncryptionSSHKey:
	default:
		return fmt.Errorf("unknown credential_storage %q (use %q or %q)", c.CredentialStorage, EncryptionNone, EncryptionSSHKey)
	}
	return nil
}
