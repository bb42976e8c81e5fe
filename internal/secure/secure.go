// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package secure provides passphrase-based encryption for conversations
// at rest.
//
// Stored conversations are personal chat transcripts; users who opt in
// get AES-256-GCM authenticated encryption with PBKDF2-SHA-256 key
// derivation. Encrypted files carry the ENC: prefix followed by
// base64(salt | nonce | ciphertext).
package secure

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// EncryptedPrefix marks stored bytes as encrypted.
const EncryptedPrefix = "ENC:"

// NonceSize is the AES-GCM nonce size (96 bits).
const NonceSize = 12

// KeySize is the AES-256 key size.
const KeySize = 32

// SaltSize is the key-derivation salt size.
const SaltSize = 32

// PBKDF2Iterations is the key-derivation work factor.
// OWASP 2023 recommends 600,000+ for PBKDF2-SHA-256.
const PBKDF2Iterations = 600000

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrInvalidCiphertext indicates the ciphertext format is invalid.
	ErrInvalidCiphertext = errors.New("invalid ciphertext format")
	// ErrDecryptionFailed indicates a wrong passphrase or tampered data.
	ErrDecryptionFailed = errors.New("decryption failed: authentication tag mismatch")
)

// =============================================================================
// HELPERS
// =============================================================================

// ZeroBytes zeros sensitive byte slices to prevent memory disclosure.
// SECURITY: Zero key material to prevent memory disclosure via crash dumps.
func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// DeriveKey derives an AES-256 key from a passphrase and salt.
func DeriveKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, PBKDF2Iterations, KeySize, sha256.New)
}

// IsEncrypted reports whether data carries the encrypted-file prefix.
func IsEncrypted(data []byte) bool {
	return strings.HasPrefix(string(data), EncryptedPrefix)
}

// =============================================================================
// CIPHER
// =============================================================================

// Cipher encrypts and decrypts byte payloads with a passphrase.
// Each Encrypt call uses a fresh random salt and nonce, so identical
// plaintexts never produce identical files.
type Cipher struct {
	passphrase string
}

// NewCipher creates a cipher bound to a passphrase.
func NewCipher(passphrase string) (*Cipher, error) {
	if passphrase == "" {
		return nil, errors.New("passphrase must not be empty")
	}
	return &Cipher{passphrase: passphrase}, nil
}

// Encrypt seals plaintext into the ENC: on-disk format.
func (c *Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	key := DeriveKey(c.passphrase, salt)
	defer ZeroBytes(key)

	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aead.Seal(nil, nonce, plaintext, nil)

	payload := make([]byte, 0, len(salt)+len(nonce)+len(sealed))
	payload = append(payload, salt...)
	payload = append(payload, nonce...)
	payload = append(payload, sealed...)

	encoded := EncryptedPrefix + base64.StdEncoding.EncodeToString(payload)
	return []byte(encoded), nil
}

// Decrypt opens data produced by Encrypt.
func (c *Cipher) Decrypt(data []byte) ([]byte, error) {
	if !IsEncrypted(data) {
		return nil, ErrInvalidCiphertext
	}

	payload, err := base64.StdEncoding.DecodeString(string(data[len(EncryptedPrefix):]))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCiphertext, err)
	}
	if len(payload) < SaltSize+NonceSize+1 {
		return nil, ErrInvalidCiphertext
	}

	salt := payload[:SaltSize]
	nonce := payload[SaltSize : SaltSize+NonceSize]
	sealed := payload[SaltSize+NonceSize:]

	key := DeriveKey(c.passphrase, salt)
	defer ZeroBytes(key)

	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// newAEAD builds the AES-256-GCM AEAD for a derived key.
func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aead, nil
}
