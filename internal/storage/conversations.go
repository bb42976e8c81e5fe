// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jeranaias/convolens/internal/model"
	"github.com/jeranaias/convolens/internal/review"
	"github.com/jeranaias/convolens/internal/secure"
	"github.com/jeranaias/convolens/internal/util"
)

// =============================================================================
// STORED CONVERSATION TYPE
// =============================================================================

// StoredConversation is the persisted form of a conversation. It carries
// the review results inline so a reviewed game can be reopened without
// re-running the labeller.
type StoredConversation struct {
	// Identity
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Participant display names (optional)
	SelfName  string `json:"self_name,omitempty"`
	OtherName string `json:"other_name,omitempty"`

	// Messages
	Messages []StoredMessage `json:"messages"`

	// Review summary (present once the conversation has been reviewed)
	Reviewed   bool               `json:"reviewed"`
	ReviewedAt time.Time          `json:"reviewed_at,omitempty"`
	FinalEval  float64            `json:"final_eval,omitempty"`
	Self       *review.SideSummary `json:"self,omitempty"`
	Other      *review.SideSummary `json:"other,omitempty"`
}

// StoredMessage is a persisted message with its review annotation.
type StoredMessage struct {
	ID        string     `json:"id"`
	Side      model.Side `json:"side"`
	Speaker   string     `json:"speaker,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
	Text      string     `json:"text"`
	Sacrifice bool       `json:"sacrifice,omitempty"`

	// Rubric scores (manual or heuristic)
	Rubric    *model.Rubric `json:"rubric,omitempty"`
	Estimated bool          `json:"estimated,omitempty"`

	// Review results
	Score       float64 `json:"score,omitempty"`
	Label       string  `json:"label,omitempty"`
	Explanation string  `json:"explanation,omitempty"`
	Eval        float64 `json:"eval,omitempty"`
}

// ConversationMeta contains metadata for listing conversations.
type ConversationMeta struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
	Reviewed     bool      `json:"reviewed"`
	Preview      string    `json:"preview"` // First message truncated
}

// =============================================================================
// MODEL CONVERSION
// =============================================================================

// FromModel converts a conversation and an optional review report into
// the stored form. A nil report stores the raw conversation only.
func FromModel(conv *model.Conversation, report *review.Report) *StoredConversation {
	sc := &StoredConversation{
		ID:        conv.ID,
		Title:     conv.Title,
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
		SelfName:  conv.SelfName,
		OtherName: conv.OtherName,
		Messages:  make([]StoredMessage, 0, len(conv.Messages)),
	}

	for _, msg := range conv.Messages {
		sm := StoredMessage{
			ID:        msg.ID,
			Side:      msg.Side,
			Speaker:   msg.Speaker,
			Timestamp: msg.Timestamp,
			Text:      msg.Text,
			Sacrifice: msg.Sacrifice,
		}
		if msg.Rubric != nil {
			sm.Rubric = msg.Rubric.Clone()
		}
		if report != nil {
			if ann := report.AnnotationFor(msg.ID); ann != nil {
				sm.Score = ann.Score
				sm.Label = ann.LabelName
				sm.Explanation = ann.Explanation
				sm.Eval = ann.Eval
				sm.Estimated = ann.Estimated
				if ann.Rubric != nil {
					sm.Rubric = ann.Rubric.Clone()
				}
			}
		}
		sc.Messages = append(sc.Messages, sm)
	}

	if report != nil {
		sc.Reviewed = true
		sc.ReviewedAt = report.GeneratedAt
		sc.FinalEval = report.FinalEval
		self := report.Self
		other := report.Other
		sc.Self = &self
		sc.Other = &other
	}

	return sc
}

// ToModel converts the stored form back to a live conversation.
// Review annotations are not carried back; rubrics are.
func (c *StoredConversation) ToModel() *model.Conversation {
	conv := &model.Conversation{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		SelfName:  c.SelfName,
		OtherName: c.OtherName,
		Messages:  make([]*model.Message, 0, len(c.Messages)),
	}

	for _, sm := range c.Messages {
		msg := &model.Message{
			ID:        sm.ID,
			Side:      sm.Side,
			Speaker:   sm.Speaker,
			Timestamp: sm.Timestamp,
			Text:      sm.Text,
			Sacrifice: sm.Sacrifice,
		}
		if sm.Rubric != nil {
			msg.Rubric = sm.Rubric.Clone()
		}
		conv.Messages = append(conv.Messages, msg)
	}

	return conv
}

// =============================================================================
// CONVERSATION STORE
// =============================================================================

// ConversationStore handles conversation persistence.
type ConversationStore struct {
	// BaseDir is the directory for storing conversations
	// Default: ~/.convolens/conversations/
	BaseDir string

	// MaxConversations limits stored conversations (0 = unlimited)
	MaxConversations int

	// cipher encrypts conversations at rest when set
	cipher *secure.Cipher
}

// NewConversationStore creates a new conversation store.
func NewConversationStore() (*ConversationStore, error) {
	// Get user home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	baseDir := filepath.Join(homeDir, ".convolens", "conversations")

	// Ensure directory exists
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &ConversationStore{
		BaseDir:          baseDir,
		MaxConversations: 100,
	}, nil
}

// NewConversationStoreWithDir creates a store with a custom directory.
func NewConversationStoreWithDir(baseDir string) (*ConversationStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &ConversationStore{
		BaseDir:          baseDir,
		MaxConversations: 100,
	}, nil
}

// SetCipher enables at-rest encryption for subsequent saves. Existing
// plaintext files remain readable; they are re-encrypted on next save.
func (s *ConversationStore) SetCipher(c *secure.Cipher) {
	s.cipher = c
}

// =============================================================================
// SAVE OPERATIONS
// =============================================================================

// Save persists a conversation and returns its ID.
func (s *ConversationStore) Save(conv *StoredConversation) (string, error) {
	// Generate ID if not set
	if conv.ID == "" {
		conv.ID = generateConversationID()
	}

	// Auto-generate title if not set
	if conv.Title == "" {
		conv.Title = s.generateTitle(conv)
	}

	// Update timestamp
	conv.UpdatedAt = time.Now()
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = conv.UpdatedAt
	}

	// Marshal to JSON
	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return "", err
	}

	// Encrypt at rest if a cipher is configured
	if s.cipher != nil {
		data, err = s.cipher.Encrypt(data)
		if err != nil {
			return "", err
		}
	}

	// RELIABILITY: Atomic write with fsync prevents data loss on crash
	filePath := s.filePath(conv.ID)
	if err := util.AtomicWriteFile(filePath, data, 0644); err != nil {
		return "", err
	}

	// Enforce max conversations limit
	if s.MaxConversations > 0 {
		s.enforceLimit()
	}

	return conv.ID, nil
}

// generateTitle creates a title from the first message.
func (s *ConversationStore) generateTitle(conv *StoredConversation) string {
	for _, msg := range conv.Messages {
		if msg.Text != "" {
			title := strings.ReplaceAll(msg.Text, "\n", " ")
			title = strings.ReplaceAll(title, "\r", "")
			return util.TruncateRunes(title, 50)
		}
	}
	return "New conversation"
}

// enforceLimit removes oldest conversations if over limit.
func (s *ConversationStore) enforceLimit() {
	metas, err := s.List()
	if err != nil || len(metas) <= s.MaxConversations {
		return
	}

	// Sort by updated time (oldest first)
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.Before(metas[j].UpdatedAt)
	})

	// Delete excess
	excess := len(metas) - s.MaxConversations
	for i := 0; i < excess; i++ {
		s.Delete(metas[i].ID)
	}
}

// =============================================================================
// LOAD OPERATIONS
// =============================================================================

// Load retrieves a conversation by ID.
func (s *ConversationStore) Load(id string) (*StoredConversation, error) {
	filePath := s.filePath(id)

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}

	if secure.IsEncrypted(data) {
		if s.cipher == nil {
			return nil, ErrPassphraseRequired
		}
		data, err = s.cipher.Decrypt(data)
		if err != nil {
			return nil, err
		}
	}

	var conv StoredConversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, err
	}

	return &conv, nil
}

// LoadByIndex loads a conversation by its index in the list (0 = most recent).
func (s *ConversationStore) LoadByIndex(index int) (*StoredConversation, error) {
	metas, err := s.List()
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(metas) {
		return nil, ErrConversationNotFound
	}

	return s.Load(metas[index].ID)
}

// =============================================================================
// LIST OPERATIONS
// =============================================================================

// List returns all saved conversations (most recent first).
func (s *ConversationStore) List() ([]ConversationMeta, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []ConversationMeta{}, nil
		}
		return nil, err
	}

	var metas []ConversationMeta

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		// Extract ID from filename
		id := strings.TrimSuffix(entry.Name(), ".json")

		// Load the conversation to get metadata
		conv, err := s.Load(id)
		if err != nil {
			continue // Skip corrupted or locked files
		}

		// Get first message as preview
		preview := ""
		if len(conv.Messages) > 0 {
			preview = util.TruncateRunes(conv.Messages[0].Text, 80)
		}

		metas = append(metas, ConversationMeta{
			ID:           conv.ID,
			Title:        conv.Title,
			CreatedAt:    conv.CreatedAt,
			UpdatedAt:    conv.UpdatedAt,
			MessageCount: len(conv.Messages),
			Reviewed:     conv.Reviewed,
			Preview:      preview,
		})
	}

	// Sort by updated time (most recent first)
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})

	return metas, nil
}

// Search finds conversations matching a query string.
func (s *ConversationStore) Search(query string) ([]ConversationMeta, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	var results []ConversationMeta

	for _, meta := range all {
		// Search in title and preview
		if strings.Contains(strings.ToLower(meta.Title), query) ||
			strings.Contains(strings.ToLower(meta.Preview), query) {
			results = append(results, meta)
		}
	}

	return results, nil
}

// SearchMessages searches conversations by message content.
// Returns conversations where any message contains the query string
// (case-insensitive).
func (s *ConversationStore) SearchMessages(query string) ([]ConversationMeta, error) {
	if query == "" {
		return s.List()
	}

	query = strings.ToLower(query)
	all, err := s.List()
	if err != nil {
		return nil, err
	}

	var results []ConversationMeta

	for _, meta := range all {
		// Load full conversation to search message content
		conv, err := s.Load(meta.ID)
		if err != nil {
			continue
		}

		// Search in all messages
		for _, msg := range conv.Messages {
			if strings.Contains(strings.ToLower(msg.Text), query) {
				results = append(results, meta)
				break // Found a match, move to next conversation
			}
		}
	}

	return results, nil
}

// =============================================================================
// DELETE OPERATIONS
// =============================================================================

// Delete removes a conversation by ID.
func (s *ConversationStore) Delete(id string) error {
	filePath := s.filePath(id)

	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return ErrConversationNotFound
		}
		return err
	}

	return nil
}

// Clear removes all saved conversations.
func (s *ConversationStore) Clear() error {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			filePath := filepath.Join(s.BaseDir, entry.Name())
			os.Remove(filePath)
		}
	}

	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// filePath returns the file path for a conversation ID.
func (s *ConversationStore) filePath(id string) string {
	return filepath.Join(s.BaseDir, id+".json")
}

// generateConversationID creates a unique conversation ID.
func generateConversationID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "conv_" + hex.EncodeToString(bytes)
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrConversationNotFound is returned when a conversation doesn't exist.
// Use errors.Is(err, ErrConversationNotFound) to check for this error.
var ErrConversationNotFound = &ConversationError{Message: "conversation not found"}

// ErrPassphraseRequired is returned when loading an encrypted conversation
// without a configured cipher.
var ErrPassphraseRequired = &ConversationError{Message: "conversation is encrypted: passphrase required"}

// ConversationError represents a conversation-related error.
// It implements the error interface and can be compared using errors.Is.
type ConversationError struct {
	Message string
}

// Error implements the error interface.
func (e *ConversationError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing conversation errors.
func (e *ConversationError) Is(target error) bool {
	t, ok := target.(*ConversationError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// =============================================================================
// SESSION LIST FORMATTING
// =============================================================================

// FormatSessionList formats a list of sessions for display in a table.
func FormatSessionList(sessions []ConversationMeta) string {
	if len(sessions) == 0 {
		return "No sessions found."
	}

	var sb strings.Builder
	sb.WriteString("Sessions:\n")
	sb.WriteString("--------------------------------------------------------------\n")
	sb.WriteString(util.PadRight("ID", 14) + " " + util.PadRight("Updated", 17) + " " +
		util.PadRight("Msgs", 5) + " " + util.PadRight("Rev", 4) + " Title\n")
	sb.WriteString("--------------------------------------------------------------\n")

	for _, s := range sessions {
		idStr := s.ID
		if len(idStr) > 14 {
			idStr = idStr[:14]
		}
		reviewed := "-"
		if s.Reviewed {
			reviewed = "yes"
		}
		sb.WriteString(util.PadRight(idStr, 14) + " " +
			util.PadRight(s.UpdatedAt.Format("2006-01-02 15:04"), 17) + " " +
			util.PadRight(util.IntToStr(s.MessageCount), 5) + " " +
			util.PadRight(reviewed, 4) + " " +
			util.TruncateRunes(s.Title, 30) + "\n")
	}
	return sb.String()
}

// =============================================================================
// SESSION EXPORT
// =============================================================================

// ExportJSON exports the conversation as a pretty-printed JSON byte array.
func (c *StoredConversation) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// GetPreview returns a preview string from the first message.
func (c *StoredConversation) GetPreview() string {
	for _, msg := range c.Messages {
		if msg.Text != "" {
			return util.TruncateRunes(msg.Text, 80)
		}
	}
	return ""
}

// MessageCount returns the number of messages in the conversation.
func (c *StoredConversation) MessageCount() int {
	return len(c.Messages)
}
