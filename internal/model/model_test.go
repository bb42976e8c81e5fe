// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, messages,
// and rubric scores.
package model

import (
	"strings"
	"testing"
)

// =============================================================================
// RUBRIC TESTS
// =============================================================================

func TestRubric_Average(t *testing.T) {
	tests := []struct {
		name     string
		rubric   Rubric
		expected float64
	}{
		{
			name: "all_fives",
			rubric: Rubric{
				Understandability: 5, Interestingness: 5, Contextuality: 5,
				Naturalness: 5, Timeliness: 5, Repetitiveness: 5, Appropriateness: 5,
			},
			expected: 5.0,
		},
		{
			name: "mixed_scores",
			rubric: Rubric{
				Understandability: 4, Interestingness: 2, Contextuality: 3,
				Naturalness: 4, Timeliness: 5, Repetitiveness: 3, Appropriateness: 5,
			},
			expected: 26.0 / 7.0,
		},
		{
			// Missing categories are skipped, not counted as zero.
			name:     "partial_rubric_skips_unset",
			rubric:   Rubric{Understandability: 4, Naturalness: 2},
			expected: 3.0,
		},
		{
			// appropriateness == 1 is a hard blunder regardless of the rest.
			name: "inappropriate_forces_zero",
			rubric: Rubric{
				Understandability: 5, Interestingness: 5, Contextuality: 5,
				Naturalness: 5, Timeliness: 5, Repetitiveness: 5, Appropriateness: 1,
			},
			expected: 0,
		},
		{
			name:     "empty_rubric",
			rubric:   Rubric{},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rubric.Average()
			if diff := got - tt.expected; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Average() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRubric_Weakest(t *testing.T) {
	r := Rubric{Understandability: 4, Contextuality: 2, Timeliness: 3}
	cat, score := r.Weakest()
	if cat != CategoryContextuality || score != 2 {
		t.Errorf("Weakest() = (%s, %d), want (contextuality, 2)", cat, score)
	}

	// Ties resolve to canonical order.
	tie := Rubric{Interestingness: 2, Naturalness: 2}
	cat, _ = tie.Weakest()
	if cat != CategoryInterestingness {
		t.Errorf("tie Weakest() = %s, want interestingness", cat)
	}

	empty := Rubric{}
	cat, score = empty.Weakest()
	if cat != "" || score != 0 {
		t.Errorf("empty Weakest() = (%s, %d), want (\"\", 0)", cat, score)
	}
}

func TestRubric_SetClamps(t *testing.T) {
	var r Rubric
	r.Set(CategoryTimeliness, 9)
	if r.Timeliness != MaxScore {
		t.Errorf("Set(9) = %d, want clamped to %d", r.Timeliness, MaxScore)
	}
	r.Set(CategoryTimeliness, -3)
	if r.Timeliness != MinScore {
		t.Errorf("Set(-3) = %d, want clamped to %d", r.Timeliness, MinScore)
	}
	r.Set(CategoryTimeliness, 0)
	if r.Timeliness != 0 {
		t.Errorf("Set(0) should clear the category, got %d", r.Timeliness)
	}
}

func TestRubric_Completeness(t *testing.T) {
	var r Rubric
	if !r.IsEmpty() || r.IsComplete() {
		t.Error("zero rubric should be empty and not complete")
	}
	for _, c := range Categories() {
		r.Set(c, 3)
	}
	if r.IsEmpty() || !r.IsComplete() {
		t.Error("fully set rubric should be complete and not empty")
	}
}

// =============================================================================
// SIDE TESTS
// =============================================================================

func TestSide(t *testing.T) {
	if SideSelf.Opponent() != SideOther || SideOther.Opponent() != SideSelf {
		t.Error("Opponent() should swap sides")
	}
	if !SideSelf.IsValid() || Side("referee").IsValid() {
		t.Error("IsValid() mismatch")
	}
	if SideSelf.DisplayName() != "You" || SideOther.DisplayName() != "Them" {
		t.Error("DisplayName() mismatch")
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestMessage_Preview(t *testing.T) {
	msg := NewMessage(SideSelf, strings.Repeat("a", 100))
	preview := msg.Preview(20)
	if len([]rune(preview)) != 20 || !strings.HasSuffix(preview, "...") {
		t.Errorf("Preview(20) = %q", preview)
	}

	short := NewMessage(SideSelf, "hey")
	if short.Preview(20) != "hey" {
		t.Errorf("short Preview = %q", short.Preview(20))
	}
}

func TestMessage_WordCount(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"hey", 1},
		{"how was your day", 4},
		{"  spaced   out\nlines\t", 3},
	}
	for _, tt := range tests {
		msg := Message{Text: tt.text}
		if got := msg.WordCount(); got != tt.want {
			t.Errorf("WordCount(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestMessage_IsLabelled(t *testing.T) {
	msg := NewMessage(SideSelf, "hello")
	if msg.IsLabelled() {
		t.Error("message without rubric should not be labelled")
	}
	msg.Rubric = &Rubric{}
	if msg.IsLabelled() {
		t.Error("message with empty rubric should not be labelled")
	}
	msg.Rubric.Set(CategoryNaturalness, 4)
	if !msg.IsLabelled() {
		t.Error("message with a set rubric score should be labelled")
	}
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversation_AddMessage(t *testing.T) {
	conv := NewConversation()
	if !conv.IsEmpty() {
		t.Error("new conversation should be empty")
	}

	conv.AddSelfMessage("hey, how was the show?")
	conv.AddOtherMessage("so good!!")

	if conv.MessageCount() != 2 {
		t.Fatalf("MessageCount = %d, want 2", conv.MessageCount())
	}
	if conv.Messages[0].Side != SideSelf || conv.Messages[1].Side != SideOther {
		t.Error("message sides not preserved")
	}
	if conv.Title != "hey, how was the show?" {
		t.Errorf("auto title = %q", conv.Title)
	}
}

func TestConversation_MessagesBySide(t *testing.T) {
	conv := NewConversation()
	conv.AddSelfMessage("one")
	conv.AddOtherMessage("two")
	conv.AddSelfMessage("three")

	self := conv.MessagesBySide(SideSelf)
	if len(self) != 2 || self[0].Text != "one" || self[1].Text != "three" {
		t.Errorf("MessagesBySide(self) = %v", self)
	}
}

func TestConversation_SpeakerName(t *testing.T) {
	conv := NewConversation()
	if conv.SpeakerName(SideSelf) != "You" {
		t.Error("default self name should be You")
	}
	conv.SelfName = "Sam"
	conv.OtherName = "Alex"
	if conv.SpeakerName(SideSelf) != "Sam" || conv.SpeakerName(SideOther) != "Alex" {
		t.Error("explicit names not used")
	}
}

func TestConversation_Prune(t *testing.T) {
	conv := NewConversation()
	for i := 0; i < MaxMessages+10; i++ {
		conv.AddSelfMessage("filler")
	}
	if conv.MessageCount() != MaxMessages {
		t.Errorf("MessageCount = %d, want %d after prune", conv.MessageCount(), MaxMessages)
	}
}

func TestConversation_Clone(t *testing.T) {
	conv := NewConversation()
	msg := conv.AddSelfMessage("original")
	msg.Rubric = &Rubric{Naturalness: 4}

	clone := conv.Clone()
	clone.Messages[0].Text = "changed"
	clone.Messages[0].Rubric.Naturalness = 1

	if conv.Messages[0].Text != "original" || conv.Messages[0].Rubric.Naturalness != 4 {
		t.Error("Clone() should not share message data")
	}
}

func TestGenerateIDs(t *testing.T) {
	a, b := NewConversation(), NewConversation()
	if a.ID == b.ID {
		t.Error("conversation IDs should be unique")
	}
	if !strings.HasPrefix(a.ID, "conv_") {
		t.Errorf("conversation ID %q should have conv_ prefix", a.ID)
	}
	m := NewMessage(SideSelf, "x")
	if !strings.HasPrefix(m.ID, "msg_") {
		t.Errorf("message ID %q should have msg_ prefix", m.ID)
	}
}
