package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sichat/config"
)

const (
	emptyPassphraseError     = "Passphrase cannot be empty"
	incorrectPassphraseError = "Incorrect passphrase. Please try again."
)

// PassphraseModal prompts for the passphrase of the SSH key that protects
// stored credentials. It checks the passphrase against the key before
// quitting, so a wrong entry can be retried.
type PassphraseModal struct {
	enc       *config.EncryptionManager
	keyPath   string
	input     textinput.Model
	err       string
	width     int
	height    int
	cancelled bool
	unlocked  bool
}

func NewPassphraseModal(enc *config.EncryptionManager, keyPath string) PassphraseModal {
	input := newPassphraseInput("Enter passphrase")
	input.Focus()

	return PassphraseModal{
		enc:     enc,
		keyPath: keyPath,
		input:   input,
	}
}

// newPassphraseInput creates a masked textinput for SSH passphrase entry
func newPassphraseInput(placeholder string) textinput.Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.Width = 50
	input.CharLimit = 200
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	return input
}

func (m PassphraseModal) Init() tea.Cmd {
	return textinput.Blink
}

func (m PassphraseModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit

		case "enter":
			passphrase := m.input.Value()
			if passphrase == "" {
				m.err = emptyPassphraseError
				return m, nil
			}
			if err := unlock(m.enc, passphrase); err != nil {
				m.err = incorrectPassphraseError
				m.input.SetValue("")
				return m, nil
			}
			m.unlocked = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// unlock sets the passphrase and derives the credential key with it
func unlock(enc *config.EncryptionManager, passphrase string) error {
	if enc == nil {
		return errors.New("no encryption manager")
	}
	enc.SetPassphrase(passphrase)
	if err := enc.Initialize(); err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] Passphrase rejected: %v", err)
		}
		return err
	}
	return nil
}

func (m PassphraseModal) View() string {
	if m.width < 20 || m.height < 10 {
		return "Terminal too small"
	}

	lines := []string{
		"Stored credentials are encrypted with your SSH key.",
		fmt.Sprintf("Key: %s", m.keyPath),
		"Please enter the passphrase:",
		"",
		m.input.View(),
	}
	if m.err != "" {
		lines = append(lines, "", lipgloss.NewStyle().
			Foreground(dangerColor).
			Bold(true).
			Render("⚠ "+m.err))
	}

	return RenderModal(
		"SSH Key Passphrase Required",
		lines,
		FormatFooter("Enter", "Continue", "Esc", "Skip"),
		ModalTypeInfo,
		70,
		m.width,
		m.height,
	)
}

// Unlocked reports whether a correct passphrase was entered
func (m PassphraseModal) Unlocked() bool {
	return m.unlocked && !m.cancelled
}
