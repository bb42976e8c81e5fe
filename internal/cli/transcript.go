// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// transcript.go - Conversation loading for the review, label, and
// suggest commands.
//
// Three input shapes are accepted:
//   - a saved conversation JSON file (as written by the session store)
//   - a plain JSON array of {side, speaker, text} rows
//   - a plain text transcript with "me:" / "them:" line prefixes
//
// A non-file argument is resolved against the session store, first as
// a conversation ID and then as a list index (1 = most recent).
package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jeranaias/convolens/internal/model"
	"github.com/jeranaias/convolens/internal/storage"
)

// =============================================================================
// FILE LOADING
// =============================================================================

// LoadConversationFile reads a transcript from disk and converts it to
// a live conversation. JSON files are tried as a stored conversation
// first, then as a flat row array; everything else is parsed as a
// plain text transcript.
func LoadConversationFile(path string) (*model.Conversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapError(err, "failed to read transcript")
	}

	if strings.HasSuffix(strings.ToLower(path), ".json") {
		conv, err := parseJSONTranscript(data)
		if err != nil {
			return nil, err
		}
		if conv.Title == "" {
			conv.SetTitle(titleFromPath(path))
		}
		return conv, nil
	}

	conv, err := parseTextTranscript(data)
	if err != nil {
		return nil, err
	}
	if conv.Title == "" {
		conv.SetTitle(titleFromPath(path))
	}
	return conv, nil
}

// titleFromPath derives a title from the file name.
func titleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// =============================================================================
// JSON TRANSCRIPTS
// =============================================================================

// transcriptRow is one message in the flat JSON input format.
type transcriptRow struct {
	Side      string        `json:"side,omitempty"`
	Speaker   string        `json:"speaker,omitempty"`
	Text      string        `json:"text"`
	Timestamp time.Time     `json:"timestamp,omitempty"`
	Sacrifice bool          `json:"sacrifice,omitempty"`
	Rubric    *model.Rubric `json:"rubric,omitempty"`
}

// parseJSONTranscript accepts either a stored conversation object or a
// flat array of rows.
func parseJSONTranscript(data []byte) (*model.Conversation, error) {
	trimmed := strings.TrimSpace(string(data))

	if strings.HasPrefix(trimmed, "[") {
		var rows []transcriptRow
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, WrapError(err, "failed to parse transcript rows")
		}
		return rowsToConversation(rows)
	}

	var stored storage.StoredConversation
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, WrapError(err, "failed to parse conversation")
	}
	if len(stored.Messages) == 0 {
		return nil, NewValidationError("transcript", "", "conversation has no messages")
	}
	return stored.ToModel(), nil
}

// rowsToConversation builds a conversation from flat rows.
func rowsToConversation(rows []transcriptRow) (*model.Conversation, error) {
	if len(rows) == 0 {
		return nil, NewValidationError("transcript", "", "no messages found")
	}

	conv := model.NewConversation()
	for _, row := range rows {
		side := normalizeSide(row.Side, row.Speaker)
		msg := model.NewMessage(side, row.Text)
		msg.Speaker = row.Speaker
		msg.Sacrifice = row.Sacrifice
		msg.Rubric = row.Rubric
		if !row.Timestamp.IsZero() {
			msg.Timestamp = row.Timestamp
		}
		conv.AddMessage(msg)
		rememberSpeaker(conv, side, row.Speaker)
	}
	return conv, nil
}

// normalizeSide maps free-form side and speaker strings onto a Side.
// An explicit side wins; otherwise "me"-like speakers are SideSelf and
// everyone else is SideOther.
func normalizeSide(side, speaker string) model.Side {
	switch strings.ToLower(strings.TrimSpace(side)) {
	case "self", "me", "left", "you":
		return model.SideSelf
	case "other", "them", "right":
		return model.SideOther
	}
	switch strings.ToLower(strings.TrimSpace(speaker)) {
	case "me", "self", "you":
		return model.SideSelf
	}
	return model.SideOther
}

// rememberSpeaker records a display name for a side the first time one
// shows up.
func rememberSpeaker(conv *model.Conversation, side model.Side, speaker string) {
	if speaker == "" {
		return
	}
	lower := strings.ToLower(speaker)
	if lower == "me" || lower == "them" || lower == "self" || lower == "other" {
		return
	}
	switch side {
	case model.SideSelf:
		if conv.SelfName == "" {
			conv.SelfName = speaker
		}
	case model.SideOther:
		if conv.OtherName == "" {
			conv.OtherName = speaker
		}
	}
}

// =============================================================================
// PLAIN TEXT TRANSCRIPTS
// =============================================================================

// parseTextTranscript parses a line-oriented transcript. Each message
// starts with a "speaker:" prefix; lines without one continue the
// previous message. Lines starting with "#" are comments.
//
//	me: hey! how was the interview?
//	them: it went really well actually
//	     they want me back thursday
func parseTextTranscript(data []byte) (*model.Conversation, error) {
	conv := model.NewConversation()
	var current *model.Message

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		speaker, text, ok := splitSpeakerLine(trimmed)
		if !ok {
			// Continuation of the previous message.
			if current != nil {
				current.Text += "\n" + trimmed
			}
			continue
		}

		side := normalizeSide("", speaker)
		current = model.NewMessage(side, text)
		current.Speaker = speaker
		conv.AddMessage(current)
		rememberSpeaker(conv, side, speaker)
	}

	if conv.IsEmpty() {
		return nil, NewValidationErrorWithExample(
			"transcript",
			"",
			"no messages found",
			"me: hey!\nthem: hi, what's up?",
		)
	}
	return conv, nil
}

// splitSpeakerLine splits "speaker: text" lines. The speaker part must
// be short and contain no spaces, so URLs and clock times in message
// bodies don't start new messages.
func splitSpeakerLine(line string) (speaker, text string, ok bool) {
	idx := strings.Index(line, ":")
	if idx <= 0 || idx > 20 {
		return "", "", false
	}
	speaker = strings.TrimSpace(line[:idx])
	if speaker == "" || strings.ContainsAny(speaker, " \t/") {
		return "", "", false
	}
	if _, err := strconv.Atoi(speaker); err == nil {
		// Looks like a clock time ("14:02"), not a speaker.
		return "", "", false
	}
	return speaker, strings.TrimSpace(line[idx+1:]), true
}

// =============================================================================
// SESSION STORE RESOLUTION
// =============================================================================

// ResolveStored resolves a reference against the session store. The
// reference may be a conversation ID or a 1-based list index.
func ResolveStored(store *storage.ConversationStore, ref string) (*storage.StoredConversation, error) {
	if conv, err := store.Load(ref); err == nil {
		return conv, nil
	}

	if n, err := strconv.Atoi(ref); err == nil && n >= 1 {
		conv, err := store.LoadByIndex(n - 1)
		if err == nil {
			return conv, nil
		}
	}

	// Fall back to prefix matching on IDs.
	metas, err := store.List()
	if err != nil {
		return nil, err
	}
	for _, meta := range metas {
		if strings.HasPrefix(meta.ID, ref) {
			return store.Load(meta.ID)
		}
	}

	return nil, NewNotFoundError("conversation", ref)
}

// LoadConversationRef loads a conversation from a file path or, if no
// such file exists, from the session store.
func LoadConversationRef(store *storage.ConversationStore, ref string) (*model.Conversation, error) {
	if _, err := os.Stat(ref); err == nil {
		return LoadConversationFile(ref)
	}
	stored, err := ResolveStored(store, ref)
	if err != nil {
		return nil, err
	}
	return stored.ToModel(), nil
}
