package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"
)

// Preferred key names, most preferred first. ECDSA is left out: its
// signatures are randomized and cannot derive a stable key.
var sshKeyNames = []string{
	"sichat_ed25519",
	"id_ed25519",
	"id_rsa",
}

func LoadSSHPrivateKey(keyPath string) (ssh.Signer, error) {
	keyData, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read SSH key: %w", err)
	}
	signer, err := ssh.ParsePrivateKey(keyData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SSH key: %w", err)
	}
	return signer, nil
}

// IsSSHKeyEncrypted checks if an SSH private key needs a passphrase without
// attempting to decrypt it
func IsSSHKeyEncrypted(keyPath string) (bool, error) {
	keyData, err := os.ReadFile(keyPath)
	if err != nil {
		return false, fmt.Errorf("failed to read SSH key: %w", err)
	}

	_, err = ssh.ParsePrivateKey(keyData)
	if err == nil {
		return false, nil
	}
	var missing *ssh.PassphraseMissingError
	if errors.As(err, &missing) || strings.Contains(err.Error(), "encrypted") {
		return true, nil
	}
	return false, fmt.Errorf("invalid SSH key: %w", err)
}

func LoadSSHPrivateKeyWithPassphrase(keyPath string, passphrase string) (ssh.Signer, error) {
	keyData, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read SSH key: %w", err)
	}
	signer, err := ssh.ParsePrivateKeyWithPassphrase(keyData, []byte(passphrase))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SSH key (wrong passphrase?): %w", err)
	}
	return signer, nil
}

// FindSSHKeys scans ~/.ssh for usable private keys in preference order
func FindSSHKeys() ([]string, error) {
	sshDir := filepath.Join(GetHomeDir(), ".ssh")
	if _, err := os.Stat(sshDir); os.IsNotExist(err) {
		return nil, nil
	}

	var found []string
	for _, name := range sshKeyNames {
		keyPath := filepath.Join(sshDir, name)
		if isPrivateKey(keyPath) {
			found = append(found, keyPath)
		}
	}
	return found, nil
}

func isPrivateKey(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	content := string(data)
	return strings.Contains(content, "BEGIN") && strings.Contains(content, "PRIVATE KEY")
}
