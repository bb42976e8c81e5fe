// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package label defines the chess-style move labels assigned to messages
// and the rules mapping rubric scores to labels.
//
// Labels follow chess game review conventions: Brilliant for a sacrifice
// that lands, Great and Miss for how a player handles a recovery
// position, and the Best..Blunder ladder for ordinary moves.
package label

import "fmt"

// ============================================================================
// LABEL TYPE
// ============================================================================

// Label represents a move-quality label for a message.
// Ordered from best to worst play.
type Label int

const (
	// Brilliant is a sacrifice that still scored highly: a risky,
	// vulnerable message that landed.
	Brilliant Label = iota
	// Great is a strong recovery after the previous message tanked.
	Great
	// Best is the top of the ordinary ladder (average >= 4.5).
	Best
	// Excellent is average >= 4.3.
	Excellent
	// Good is average >= 4.0.
	Good
	// Inaccuracy is average >= 3.5.
	Inaccuracy
	// Mistake is average >= 3.0.
	Mistake
	// Miss is a squandered recovery: a mediocre reply when the
	// conversation needed saving.
	Miss
	// Blunder is everything below 3.0, and any inappropriate message.
	Blunder
)

// String returns the lowercase name of the label, matching the dataset
// serialization format.
func (l Label) String() string {
	switch l {
	case Brilliant:
		return "brilliant"
	case Great:
		return "great"
	case Best:
		return "best"
	case Excellent:
		return "excellent"
	case Good:
		return "good"
	case Inaccuracy:
		return "inaccuracy"
	case Mistake:
		return "mistake"
	case Miss:
		return "miss"
	case Blunder:
		return "blunder"
	default:
		return fmt.Sprintf("Label(%d)", l)
	}
}

// Glyph returns the chess-annotation glyph for the label.
func (l Label) Glyph() string {
	switch l {
	case Brilliant:
		return "!!"
	case Great:
		return "!"
	case Best:
		return "★"
	case Excellent:
		return "✓✓"
	case Good:
		return "✓"
	case Inaccuracy:
		return "?!"
	case Mistake:
		return "?"
	case Miss:
		return "✗"
	case Blunder:
		return "??"
	default:
		return "·"
	}
}

// DisplayName returns the capitalized human-readable name.
func (l Label) DisplayName() string {
	switch l {
	case Brilliant:
		return "Brilliant"
	case Great:
		return "Great"
	case Best:
		return "Best"
	case Excellent:
		return "Excellent"
	case Good:
		return "Good"
	case Inaccuracy:
		return "Inaccuracy"
	case Mistake:
		return "Mistake"
	case Miss:
		return "Miss"
	case Blunder:
		return "Blunder"
	default:
		return l.String()
	}
}

// IsGood returns true for labels that are at least Good play.
func (l Label) IsGood() bool {
	return l <= Good
}

// IsBad returns true for Inaccuracy and worse.
func (l Label) IsBad() bool {
	return l >= Inaccuracy
}

// Severity returns the numeric order of the label for comparison.
// Lower values mean better play.
func (l Label) Severity() int {
	return int(l)
}

// IsValid reports whether the label is one of the defined values.
func (l Label) IsValid() bool {
	return l >= Brilliant && l <= Blunder
}

// All returns every label from best to worst.
func All() []Label {
	return []Label{Brilliant, Great, Best, Excellent, Good, Inaccuracy, Mistake, Miss, Blunder}
}

// Parse converts a serialized label name back to a Label.
func Parse(s string) (Label, error) {
	for _, l := range All() {
		if l.String() == s {
			return l, nil
		}
	}
	return Blunder, fmt.Errorf("unknown label %q", s)
}

// ============================================================================
// THRESHOLDS
// ============================================================================

// Thresholds holds the score cutoffs for the ordinary label ladder and
// the special-case rules. Values are averages on the 1-5 rubric scale.
type Thresholds struct {
	Best       float64 // >= Best       -> Best
	Excellent  float64 // >= Excellent  -> Excellent
	Good       float64 // >= Good       -> Good
	Inaccuracy float64 // >= Inaccuracy -> Inaccuracy
	Mistake    float64 // >= Mistake    -> Mistake, below -> Blunder

	// Brilliance is the minimum average for a sacrifice to earn
	// Brilliant rather than its ladder label.
	Brilliance float64

	// Recovery is the previous-message average below which the
	// recovery rules (Great / Miss / Blunder) apply.
	Recovery float64
}

// DefaultThresholds returns the canonical labelling thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Best:       4.5,
		Excellent:  4.3,
		Good:       4.0,
		Inaccuracy: 3.5,
		Mistake:    3.0,
		Brilliance: 4.5,
		Recovery:   3.0,
	}
}

// Validate checks that the ladder is strictly descending and in range.
func (t Thresholds) Validate() error {
	if t.Best > 5 || t.Mistake < 1 {
		return fmt.Errorf("thresholds out of 1-5 range")
	}
	if !(t.Best > t.Excellent && t.Excellent > t.Good && t.Good > t.Inaccuracy && t.Inaccuracy > t.Mistake) {
		return fmt.Errorf("thresholds must descend: best > excellent > good > inaccuracy > mistake")
	}
	return nil
}

// ============================================================================
// ASSIGNMENT
// ============================================================================

// FromScore maps an average rubric score to its ordinary ladder label.
func (t Thresholds) FromScore(avg float64) Label {
	switch {
	case avg >= t.Best:
		return Best
	case avg >= t.Excellent:
		return Excellent
	case avg >= t.Good:
		return Good
	case avg >= t.Inaccuracy:
		return Inaccuracy
	case avg >= t.Mistake:
		return Mistake
	default:
		return Blunder
	}
}

// Assign applies the full labelling rules to a message score.
//
// prevAvg is the previous message's average score; pass NoPrev for the
// first message of a conversation. Rules, in priority order:
//
//  1. A sacrifice scoring >= Brilliance is Brilliant.
//  2. If the previous message scored below Recovery, this is a recovery
//     position: >= Good average is Great, a middling score (Mistake up
//     to Good) is a Miss, anything lower is a Blunder.
//  3. Otherwise the ordinary ladder applies.
func (t Thresholds) Assign(avg, prevAvg float64, sacrifice bool) Label {
	if sacrifice && avg >= t.Brilliance {
		return Brilliant
	}
	if prevAvg != NoPrev && prevAvg < t.Recovery {
		switch {
		case avg >= t.Good:
			return Great
		case avg >= t.Mistake:
			return Miss
		default:
			return Blunder
		}
	}
	return t.FromScore(avg)
}

// NoPrev is the prevAvg sentinel for the first message of a
// conversation, where the recovery rules cannot apply.
const NoPrev = -1.0
