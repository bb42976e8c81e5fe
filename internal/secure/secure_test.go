// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package secure

import (
	"bytes"
	"errors"
	"testing"
)

func TestCipher_RoundTrip(t *testing.T) {
	c, err := NewCipher("correct horse battery staple")
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}

	plaintext := []byte(`{"id":"conv_1","messages":[{"text":"hey"}]}`)
	sealed, err := c.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	if !IsEncrypted(sealed) {
		t.Error("encrypted output should carry the ENC: prefix")
	}
	if bytes.Contains(sealed, []byte("hey")) {
		t.Error("ciphertext should not contain plaintext")
	}

	opened, err := c.Decrypt(sealed)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(opened, plaintext) {
		t.Errorf("round trip mismatch: %q", opened)
	}
}

func TestCipher_WrongPassphrase(t *testing.T) {
	c, _ := NewCipher("right")
	sealed, err := c.Encrypt([]byte("secret"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	wrong, _ := NewCipher("wrong")
	if _, err := wrong.Decrypt(sealed); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("err = %v, want ErrDecryptionFailed", err)
	}
}

func TestCipher_FreshSaltPerEncrypt(t *testing.T) {
	c, _ := NewCipher("pass")
	a, err := c.Encrypt([]byte("same plaintext"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	b, err := c.Encrypt([]byte("same plaintext"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Error("identical plaintexts should not produce identical ciphertexts")
	}
}

func TestCipher_InvalidInput(t *testing.T) {
	c, _ := NewCipher("pass")

	if _, err := c.Decrypt([]byte("not encrypted")); !errors.Is(err, ErrInvalidCiphertext) {
		t.Errorf("missing prefix: err = %v, want ErrInvalidCiphertext", err)
	}
	if _, err := c.Decrypt([]byte("ENC:!!!not-base64!!!")); !errors.Is(err, ErrInvalidCiphertext) {
		t.Errorf("bad base64: err = %v, want ErrInvalidCiphertext", err)
	}
	if _, err := c.Decrypt([]byte("ENC:c2hvcnQ=")); !errors.Is(err, ErrInvalidCiphertext) {
		t.Errorf("truncated payload: err = %v, want ErrInvalidCiphertext", err)
	}
}

func TestNewCipher_EmptyPassphrase(t *testing.T) {
	if _, err := NewCipher(""); err == nil {
		t.Error("empty passphrase should be rejected")
	}
}

func TestZeroBytes(t *testing.T) {
	b := []byte{1, 2, 3}
	ZeroBytes(b)
	for i, v := range b {
		if v != 0 {
			t.Errorf("b[%d] = %d, want 0", i, v)
		}
	}
}
