// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// passphrase.go - Passphrase prompting and session store setup.

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/jeranaias/convolens/internal/config"
	"github.com/jeranaias/convolens/internal/secure"
	"github.com/jeranaias/convolens/internal/storage"
)

// PassphraseEnvVar lets scripts supply the passphrase non-interactively.
const PassphraseEnvVar = "CONVOLENS_PASSPHRASE"

// ReadPassphrase prompts for a passphrase without echoing it.
// The CONVOLENS_PASSPHRASE environment variable takes precedence.
func ReadPassphrase(prompt string) (string, error) {
	if pass := os.Getenv(PassphraseEnvVar); pass != "" {
		return pass, nil
	}

	if err := RequiresTTY("read passphrase"); err != nil {
		return "", err
	}

	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", WrapError(err, "failed to read passphrase")
	}
	defer secure.ZeroBytes(raw)

	pass := strings.TrimSpace(string(raw))
	if pass == "" {
		return "", NewValidationError("passphrase", "", "passphrase cannot be empty")
	}
	return pass, nil
}

// OpenSessionStore opens the conversation store using the configured
// directory, attaching a cipher when encryption at rest is enabled.
func OpenSessionStore(cfg *config.Config) (*storage.ConversationStore, error) {
	store, err := OpenSessionStoreNoPrompt(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Storage.Encrypt {
		pass, err := ReadPassphrase("Passphrase: ")
		if err != nil {
			return nil, err
		}
		cipher, err := secure.NewCipher(pass)
		if err != nil {
			return nil, WrapError(err, "failed to initialize encryption")
		}
		store.SetCipher(cipher)
	}

	return store, nil
}

// OpenSessionStoreNoPrompt opens the conversation store without ever
// prompting for a passphrase. Encrypted sessions stay locked and are
// skipped by listing operations.
func OpenSessionStoreNoPrompt(cfg *config.Config) (*storage.ConversationStore, error) {
	var store *storage.ConversationStore
	var err error

	if cfg.Storage.Dir != "" {
		store, err = storage.NewConversationStoreWithDir(cfg.Storage.Dir)
	} else {
		store, err = storage.NewConversationStore()
	}
	if err != nil {
		return nil, WrapError(err, "failed to open session store")
	}
	if cfg.Storage.MaxConversations > 0 {
		store.MaxConversations = cfg.Storage.MaxConversations
	}
	return store, nil
}

// UnlockIfNeeded retries a store operation that failed for want of a
// passphrase. It prompts once, attaches the cipher, and reruns fn.
func UnlockIfNeeded(store *storage.ConversationStore, err error, fn func() error) error {
	if err == nil || !errors.Is(err, storage.ErrPassphraseRequired) {
		return err
	}

	pass, perr := ReadPassphrase("Passphrase: ")
	if perr != nil {
		return perr
	}
	cipher, cerr := secure.NewCipher(pass)
	if cerr != nil {
		return WrapError(cerr, "failed to initialize encryption")
	}
	store.SetCipher(cipher)
	return fn()
}
