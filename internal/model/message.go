// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, messages,
// and rubric scores.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// =============================================================================
// SIDE TYPE
// =============================================================================

// Side identifies which participant sent a message.
type Side string

const (
	// SideSelf is the participant whose play is being reviewed.
	SideSelf Side = "self"
	// SideOther is the counterpart.
	SideOther Side = "other"
)

// String returns the string representation of the side.
func (s Side) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the side.
func (s Side) DisplayName() string {
	switch s {
	case SideSelf:
		return "You"
	case SideOther:
		return "Them"
	default:
		return string(s)
	}
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideSelf {
		return SideOther
	}
	return SideSelf
}

// IsValid reports whether the side is one of the known values.
func (s Side) IsValid() bool {
	return s == SideSelf || s == SideOther
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Side      Side      `json:"side"`
	Speaker   string    `json:"speaker,omitempty"` // display name, if known
	Timestamp time.Time `json:"timestamp,omitempty"`

	// Content
	Text string `json:"text"`

	// Sacrifice marks a deliberately vulnerable move (opening up,
	// risky honesty). A sacrifice that still scores highly is the
	// precondition for a Brilliant label.
	Sacrifice bool `json:"sacrifice,omitempty"`

	// Rubric holds manual per-category scores from labelling.
	// Nil means unlabelled; the review engine estimates one.
	Rubric *Rubric `json:"rubric,omitempty"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(side Side, text string) *Message {
	return &Message{
		ID:        generateID(),
		Side:      side,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// Preview returns a truncated one-line preview of the message text.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	runes := []rune(m.Text)
	if len(runes) <= maxLen {
		return m.Text
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no text.
func (m *Message) IsEmpty() bool {
	return len(m.Text) == 0
}

// IsLabelled returns true if the message carries a manual rubric.
func (m *Message) IsLabelled() bool {
	return m.Rubric != nil && !m.Rubric.IsEmpty()
}

// WordCount returns the number of whitespace-separated words.
func (m *Message) WordCount() int {
	n := 0
	inWord := false
	for _, r := range m.Text {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			inWord = false
			continue
		}
		if !inWord {
			n++
			inWord = true
		}
	}
	return n
}

// =============================================================================
// ID GENERATION
// =============================================================================

// generateID creates a unique message ID.
func generateID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "msg_" + hex.EncodeToString(bytes)
}
