// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, messages,
// and rubric scores.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"
)

// MaxMessages is the maximum number of messages kept in a conversation.
// When exceeded, the oldest messages are pruned to prevent unbounded
// memory growth on very long imports.
const MaxMessages = 1000

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds a complete two-sided exchange with metadata.
type Conversation struct {
	// Identity
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Messages
	Messages []*Message `json:"messages"`

	// Participant display names (optional)
	SelfName  string `json:"self_name,omitempty"`
	OtherName string `json:"other_name,omitempty"`
}

// NewConversation creates a new conversation with a generated ID.
func NewConversation() *Conversation {
	return &Conversation{
		ID:        generateConversationID(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Messages:  make([]*Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage adds a message to the conversation.
func (c *Conversation) AddMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	c.updateTitle()
	c.pruneOldMessages()
}

// AddSelfMessage creates and adds a message from the reviewed side.
func (c *Conversation) AddSelfMessage(text string) *Message {
	msg := NewMessage(SideSelf, text)
	c.AddMessage(msg)
	return msg
}

// AddOtherMessage creates and adds a message from the counterpart.
func (c *Conversation) AddOtherMessage(text string) *Message {
	msg := NewMessage(SideOther, text)
	c.AddMessage(msg)
	return msg
}

// GetLastMessage returns the most recent message, or nil if empty.
func (c *Conversation) GetLastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// GetMessageByID finds a message by its ID, or nil if not found.
func (c *Conversation) GetMessageByID(id string) *Message {
	for _, msg := range c.Messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

// MessagesBySide returns the messages sent by one side, in order.
func (c *Conversation) MessagesBySide(side Side) []*Message {
	var out []*Message
	for _, msg := range c.Messages {
		if msg.Side == side {
			out = append(out, msg)
		}
	}
	return out
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// LabelledCount returns the number of messages carrying a manual rubric.
func (c *Conversation) LabelledCount() int {
	n := 0
	for _, msg := range c.Messages {
		if msg.IsLabelled() {
			n++
		}
	}
	return n
}

// IsEmpty returns true if the conversation has no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// =============================================================================
// NAMING
// =============================================================================

// SpeakerName returns the display name for a side, falling back to the
// side's generic display name.
func (c *Conversation) SpeakerName(side Side) string {
	switch side {
	case SideSelf:
		if c.SelfName != "" {
			return c.SelfName
		}
	case SideOther:
		if c.OtherName != "" {
			return c.OtherName
		}
	}
	return side.DisplayName()
}

// SetTitle sets an explicit title, stopping auto-titling.
func (c *Conversation) SetTitle(title string) {
	c.Title = title
	c.UpdatedAt = time.Now()
}

// updateTitle derives a title from the first message when none is set.
func (c *Conversation) updateTitle() {
	if c.Title != "" || len(c.Messages) == 0 {
		return
	}
	first := c.Messages[0].Text
	first = strings.ReplaceAll(first, "\n", " ")
	runes := []rune(first)
	if len(runes) > 50 {
		first = string(runes[:47]) + "..."
	}
	c.Title = first
}

// Preview returns a short preview from the first message.
func (c *Conversation) Preview() string {
	if len(c.Messages) == 0 {
		return ""
	}
	return c.Messages[0].Preview(80)
}

// =============================================================================
// HELPERS
// =============================================================================

// Clone returns a deep copy of the conversation.
func (c *Conversation) Clone() *Conversation {
	clone := *c
	clone.Messages = make([]*Message, len(c.Messages))
	for i, msg := range c.Messages {
		m := *msg
		if msg.Rubric != nil {
			m.Rubric = msg.Rubric.Clone()
		}
		clone.Messages[i] = &m
	}
	return &clone
}

// pruneOldMessages drops the oldest messages when over MaxMessages.
func (c *Conversation) pruneOldMessages() {
	if len(c.Messages) <= MaxMessages {
		return
	}
	excess := len(c.Messages) - MaxMessages
	c.Messages = c.Messages[excess:]
}

// generateConversationID creates a unique conversation ID.
func generateConversationID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "conv_" + hex.EncodeToString(bytes)
}
