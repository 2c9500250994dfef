package biometric

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// ErrIntegrity indicates a sealed template that cannot be opened: tampered
// bytes, a different master secret, or a truncated blob. Opening fails
// closed; partially decrypted data is never returned.
var ErrIntegrity = errors.New("sealed template failed integrity check")

const (
	// kdfSalt is deliberately a fixed constant: the sealing key must be
	// re-derivable from the master secret alone, with no auxiliary
	// storage. A KMS-backed key provider would replace this.
	kdfSalt       = "iris_gate_template_salt"
	kdfIterations = 100_000
	keySize       = 32
	nonceSize     = 12
)

// Cipher seals templates for at-rest storage and opens them for
// comparison, using AES-256-GCM under a key derived from the master
// secret with PBKDF2-HMAC-SHA256.
type Cipher struct {
	key []byte
}

// NewCipher derives the sealing key from the master secret.
func NewCipher(masterSecret string) (*Cipher, error) {
	if masterSecret == "" {
		return nil, fmt.Errorf("master secret is required")
	}
	key := pbkdf2.Key([]byte(masterSecret), []byte(kdfSalt), kdfIterations, keySize, sha256.New)
	return &Cipher{key: key}, nil
}

// Seal encrypts a template into an opaque blob: a random 12-byte nonce
// followed by the AES-GCM ciphertext of the JSON-encoded template.
func (c *Cipher) Seal(t Template) ([]byte, error) {
	plaintext, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encode template: %w", err)
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	aesgcm, err := c.aead()
	if err != nil {
		return nil, err
	}

	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts a sealed blob back into a template. Any failure along the
// way is reported as ErrIntegrity.
func (c *Cipher) Open(blob []byte) (Template, error) {
	if len(blob) < nonceSize+1 {
		return Template{}, ErrIntegrity
	}

	aesgcm, err := c.aead()
	if err != nil {
		return Template{}, err
	}

	plaintext, err := aesgcm.Open(nil, blob[:nonceSize], blob[nonceSize:], nil)
	if err != nil {
		return Template{}, ErrIntegrity
	}

	var t Template
	if err := json.Unmarshal(plaintext, &t); err != nil {
		return Template{}, ErrIntegrity
	}
	return t, nil
}

func (c *Cipher) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
