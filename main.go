package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"sichat/api"
	"sichat/config"
	"sichat/model"
	"sichat/storage"
	"sichat/ui"
)

const (
	Version = "v0.01.00"
	License = "Apache-2.0"
)

// showError displays a blocking error screen and exits
func showError(title, message string) {
	p := tea.NewProgram(
		ui.NewErrorModal(title, message),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}

func main() {
	// A .env next to the binary is optional
	_ = config.LoadEnvFile(".env")

	cfg, err := config.Load()
	if err != nil {
		showError("Configuration Error", err.Error())
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Main] sichat %s starting, backend %s", Version, cfg.BackendURL)
	}

	keys, err := config.LoadKeybindings(cfg.DataDir())
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Main] Falling back to default keybindings: %v", err)
		}
		keys = config.DefaultKeybindings()
	}

	enc := config.NewEncryptionManager(cfg.CredentialStorage, cfg.SSHKeyPath)
	unlocked := true
	if err := enc.Initialize(); err != nil {
		if !errors.Is(err, config.ErrPassphraseRequired) {
			showError("Credential Storage Error", err.Error())
		}

		finalModel, runErr := tea.NewProgram(
			ui.NewPassphraseModal(enc, enc.KeyPath()),
			tea.WithAltScreen(),
		).Run()
		if runErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
			os.Exit(1)
		}
		if pm, ok := finalModel.(ui.PassphraseModal); !ok || !pm.Unlocked() {
			unlocked = false
		}
	}

	// A skipped passphrase runs without stored sessions or remembered logins
	var creds *storage.CredentialStore
	if unlocked {
		creds, err = storage.NewCredentialStore(cfg.DataDir(), enc)
		if err != nil {
			showError("Storage Error", err.Error())
		}
	} else if config.DebugLog != nil {
		config.DebugLog.Printf("[Main] SSH key left locked, credentials will not be stored")
	}

	cache, err := storage.NewHistoryCache(cfg.DataDir())
	if err != nil {
		// The cache only serves offline fallbacks
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Main] History cache disabled: %v", err)
		}
		cache = nil
	}
	if cache != nil {
		defer cache.Close()
	}

	client, err := api.NewClient(api.Options{
		BaseURL:           cfg.BackendURL,
		KeyValidationURL:  cfg.KeyValidationURL,
		SecretKey:         cfg.SecretKey,
		Timeout:           cfg.RequestTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})
	if err != nil {
		showError("Configuration Error", err.Error())
	}

	m := model.NewModel(cfg, client, creds, cache, Version)

	p := tea.NewProgram(
		ui.NewApp(m, keys),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running sichat: %v\n", err)
		os.Exit(1)
	}
}
