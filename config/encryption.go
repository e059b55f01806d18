package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/ssh"
)

// EncryptionMethod selects how remembered credentials are stored on disk
type EncryptionMethod string

const (
	EncryptionNone   EncryptionMethod = "none"
	EncryptionSSHKey EncryptionMethod = "ssh_key"
)

// keyDerivationMessage is signed by the SSH key. Changing it makes every
// previously sealed credential file unreadable.
var keyDerivationMessage = []byte("sichat-credentials-key-v1")

var ErrPassphraseRequired = errors.New("SSH key is encrypted - passphrase required")

// EncryptionManager seals and opens credential files. With EncryptionNone
// it passes bytes through unchanged.
type EncryptionManager struct {
	method     EncryptionMethod
	sshKeyPath string
	passphrase string
	aesKey     []byte
}

func NewEncryptionManager(method EncryptionMethod, sshKeyPath string) *EncryptionManager {
	return &EncryptionManager{
		method:     method,
		sshKeyPath: sshKeyPath,
	}
}

func (e *EncryptionManager) SetPassphrase(passphrase string) {
	e.passphrase = passphrase
}

func (e *EncryptionManager) Method() EncryptionMethod {
	return e.method
}

// KeyPath returns the SSH key in use. It is empty until Initialize picked
// one when no path was configured.
func (e *EncryptionManager) KeyPath() string {
	return e.sshKeyPath
}

// Initialize loads the SSH key and derives the AES key. It returns
// ErrPassphraseRequired when the key is protected and no passphrase is set.
func (e *EncryptionManager) Initialize() error {
	switch e.method {
	case EncryptionNone:
		return nil
	case EncryptionSSHKey:
	default:
		return fmt.Errorf("unknown encryption method: %s", e.method)
	}

	if e.sshKeyPath == "" {
		keys, err := FindSSHKeys()
		if err != nil {
			return fmt.Errorf("failed to search for SSH keys: %w", err)
		}
		if len(keys) == 0 {
			return fmt.Errorf("no SSH private key found in ~/.ssh (set [security] ssh_key_path)")
		}
		e.sshKeyPath = keys[0]
	}

	encrypted, err := IsSSHKeyEncrypted(e.sshKeyPath)
	if err != nil {
		return fmt.Errorf("failed to check SSH key: %w", err)
	}
	if DebugLog != nil {
		DebugLog.Printf("[Encryption] Using %s (encrypted=%v)", e.sshKeyPath, encrypted)
	}
	if encrypted && e.passphrase == "" {
		return ErrPassphraseRequired
	}

	var signer ssh.Signer
	if encrypted {
		signer, err = LoadSSHPrivateKeyWithPassphrase(e.sshKeyPath, e.passphrase)
	} else {
		signer, err = LoadSSHPrivateKey(e.sshKeyPath)
	}
	if err != nil {
		return fmt.Errorf("failed to load SSH key: %w", err)
	}

	e.aesKey, err = DeriveAESKeyFromSSH(signer)
	if err != nil {
		return fmt.Errorf("failed to derive encryption key: %w", err)
	}
	return nil
}

func (e *EncryptionManager) Encrypt(plaintext []byte) ([]byte, error) {
	if e.method == EncryptionNone {
		return plaintext, nil
	}
	if e.aesKey == nil {
		return nil, fmt.Errorf("encryption manager not initialized")
	}
	return sealAESGCM(plaintext, e.aesKey)
}

func (e *EncryptionManager) Decrypt(ciphertext []byte) ([]byte, error) {
	if e.method == EncryptionNone {
		return ciphertext, nil
	}
	if e.aesKey == nil {
		return nil, fmt.Errorf("encryption manager not initialized")
	}
	return openAESGCM(ciphertext, e.aesKey)
}

// Format: [nonce][ciphertext + tag]
func sealAESGCM(plaintext, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func openAESGCM(ciphertext, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	n := gcm.NonceSize()
	if len(ciphertext) < n {
		return nil, fmt.Errorf("ciphertext too short")
	}
	plaintext, err := gcm.Open(nil, ciphertext[:n], ciphertext[n:], nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// DeriveAESKeyFromSSH hashes the signature of a fixed message into a 32-byte
// key. Only deterministic signature schemes (ed25519, RSA PKCS#1 v1.5) give
// the same key on every run.
func DeriveAESKeyFromSSH(signer ssh.Signer) ([]byte, error) {
	signature, err := signer.Sign(rand.Reader, keyDerivationMessage)
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}
	hash := sha256.Sum256(signature.Blob)
	return hash[:], nil
}
