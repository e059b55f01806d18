package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const userConfigFile = "config.toml"

func UserConfigPath(dataDir string) string {
	return filepath.Join(dataDir, userConfigFile)
}

func LoadSystemConfig() (*SystemConfig, error) {
	cfg := DefaultSystemConfig()
	settingsPath := GetSettingsFilePath()

	if !FileExists(settingsPath) {
		if err := writeTemplate(GetConfigDir(), settingsPath, GenerateSystemConfigTemplate()); err != nil {
			return nil, fmt.Errorf("failed to create system config: %w", err)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(settingsPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse system config: %w", err)
	}
	if cfg.DataDirectory == "" {
		cfg.DataDirectory = DefaultSystemConfig().DataDirectory
	}
	return cfg, nil
}

// LoadUserConfig decodes <dataDir>/config.toml over the defaults, so keys
// missing from an older file keep their default values.
func LoadUserConfig(dataDir string) (*UserConfig, error) {
	cfg := DefaultUserConfig()
	path := UserConfigPath(dataDir)

	if !FileExists(path) {
		if err := writeTemplate(dataDir, path, GenerateUserConfigTemplate()); err != nil {
			return nil, fmt.Errorf("failed to create user config: %w", err)
		}
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 && DebugLog != nil {
		DebugLog.Printf("[Config] Ignoring unknown keys in %s: %v", path, undecoded)
	}
	return cfg, nil
}

func SaveUserConfig(cfg *UserConfig, dataDir string) error {
	return encodeFile(dataDir, UserConfigPath(dataDir), cfg)
}

func encodeFile(dir, path string, v any) error {
	if err := EnsureDir(dir); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}

func writeTemplate(dir, path, content string) error {
	if err := EnsureDir(dir); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	if FileExists(path) {
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
