// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package label

import (
	"testing"
)

// TestFromScore tests the ordinary label ladder thresholds.
func TestFromScore(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name     string
		avg      float64
		expected Label
	}{
		{name: "perfect_score", avg: 5.0, expected: Best},
		{name: "best_boundary", avg: 4.5, expected: Best},
		{name: "excellent_boundary", avg: 4.3, expected: Excellent},
		{name: "just_below_best", avg: 4.49, expected: Excellent},
		{name: "good_boundary", avg: 4.0, expected: Good},
		{name: "inaccuracy_boundary", avg: 3.5, expected: Inaccuracy},
		{name: "mistake_boundary", avg: 3.0, expected: Mistake},
		{name: "just_below_mistake", avg: 2.99, expected: Blunder},
		{name: "zero_score", avg: 0, expected: Blunder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := th.FromScore(tt.avg); got != tt.expected {
				t.Errorf("FromScore(%v) = %s, want %s", tt.avg, got, tt.expected)
			}
		})
	}
}

// TestAssign tests the context-sensitive labelling rules.
func TestAssign(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name      string
		avg       float64
		prevAvg   float64
		sacrifice bool
		expected  Label
	}{
		// Sacrifice rules
		{name: "brilliant_sacrifice", avg: 4.7, prevAvg: NoPrev, sacrifice: true, expected: Brilliant},
		{name: "sacrifice_below_cutoff_uses_ladder", avg: 4.4, prevAvg: NoPrev, sacrifice: true, expected: Excellent},
		{name: "failed_sacrifice_is_blunder", avg: 2.0, prevAvg: NoPrev, sacrifice: true, expected: Blunder},
		// Brilliant outranks recovery Great
		{name: "sacrifice_wins_over_recovery", avg: 4.8, prevAvg: 2.0, sacrifice: true, expected: Brilliant},

		// Recovery rules (previous message below 3.0)
		{name: "great_recovery", avg: 4.2, prevAvg: 2.5, expected: Great},
		{name: "missed_recovery", avg: 3.4, prevAvg: 2.5, expected: Miss},
		{name: "recovery_floor_is_mistake_threshold", avg: 3.0, prevAvg: 2.5, expected: Miss},
		{name: "blundered_recovery", avg: 2.0, prevAvg: 2.5, expected: Blunder},

		// No recovery context: ordinary ladder
		{name: "first_message_ladder", avg: 4.2, prevAvg: NoPrev, expected: Good},
		{name: "healthy_prev_ladder", avg: 4.2, prevAvg: 4.0, expected: Good},
		{name: "prev_exactly_at_recovery_cutoff", avg: 4.2, prevAvg: 3.0, expected: Good},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := th.Assign(tt.avg, tt.prevAvg, tt.sacrifice)
			if got != tt.expected {
				t.Errorf("Assign(%v, %v, %v) = %s, want %s",
					tt.avg, tt.prevAvg, tt.sacrifice, got, tt.expected)
			}
		})
	}
}

// TestParse tests string round-tripping for dataset serialization.
func TestParse(t *testing.T) {
	for _, l := range All() {
		parsed, err := Parse(l.String())
		if err != nil {
			t.Errorf("Parse(%q): %v", l.String(), err)
		}
		if parsed != l {
			t.Errorf("Parse(%q) = %s, want %s", l.String(), parsed, l)
		}
	}

	if _, err := Parse("checkmate"); err == nil {
		t.Error("Parse of unknown label should fail")
	}
}

// TestOrdering tests severity ordering and predicates.
func TestOrdering(t *testing.T) {
	if !Brilliant.IsGood() || !Good.IsGood() {
		t.Error("Brilliant and Good should be good play")
	}
	if Good.IsBad() || !Inaccuracy.IsBad() || !Blunder.IsBad() {
		t.Error("IsBad boundary should sit between Good and Inaccuracy")
	}
	if Brilliant.Severity() >= Blunder.Severity() {
		t.Error("severity should increase from Brilliant to Blunder")
	}
	for _, l := range All() {
		if !l.IsValid() {
			t.Errorf("%s should be valid", l)
		}
		if l.Glyph() == "·" {
			t.Errorf("%s missing glyph", l)
		}
	}
	if Label(42).IsValid() {
		t.Error("out-of-range label should be invalid")
	}
}

// TestThresholds_Validate tests the descending-ladder invariant.
func TestThresholds_Validate(t *testing.T) {
	if err := DefaultThresholds().Validate(); err != nil {
		t.Errorf("default thresholds should validate: %v", err)
	}

	bad := DefaultThresholds()
	bad.Good = 4.6 // above Best
	if err := bad.Validate(); err == nil {
		t.Error("non-descending thresholds should fail validation")
	}
}
