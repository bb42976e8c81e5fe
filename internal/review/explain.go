// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// REVIEW: Label explanations for annotated messages
package review

import (
	"fmt"

	"github.com/jeranaias/convolens/internal/label"
	"github.com/jeranaias/convolens/internal/model"
)

// Explain builds the human-readable reason for a label. The wording
// leads with the label, then the decisive factor: sacrifice outcome,
// recovery context, tone gate, or the weakest rubric category. The
// thresholds must be the same ones that assigned the label.
func Explain(th label.Thresholds, l label.Label, r *model.Rubric, prevAvg float64, sacrifice bool) string {
	switch l {
	case label.Brilliant:
		return fmt.Sprintf("Brilliant: a sacrifice that landed, scoring %s/5 despite the risk.",
			trimFloat(r.Average()))

	case label.Great:
		return "Great: exactly the reply this position needed after the conversation dipped."

	case label.Miss:
		return "Miss: the conversation needed saving here and this reply let the moment slip."

	case label.Blunder:
		if r.Appropriateness == 1 {
			return "Blunder: the tone crosses the line. Nothing else about the message matters."
		}
		if prevAvg != label.NoPrev && prevAvg < th.Recovery {
			return "Blunder: a weak reply in a position that was already losing."
		}
		return explainLadder(l, r)

	default:
		return explainLadder(l, r)
	}
}

// explainLadder explains an ordinary ladder label from the score and
// the weakest rubric category.
func explainLadder(l label.Label, r *model.Rubric) string {
	avg := trimFloat(r.Average())

	if l.IsGood() {
		weakest, score := r.Weakest()
		if score >= 4 || weakest == "" {
			return fmt.Sprintf("%s: %s/5 across the rubric with no real weaknesses.", l.DisplayName(), avg)
		}
		return fmt.Sprintf("%s: %s/5 overall, though %s (%d/5) left something on the table.",
			l.DisplayName(), avg, weakest, score)
	}

	weakest, score := r.Weakest()
	if weakest == "" {
		return fmt.Sprintf("%s: scored %s/5.", l.DisplayName(), avg)
	}
	return fmt.Sprintf("%s: %s/5 overall, dragged down by %s (%d/5).",
		l.DisplayName(), avg, weakest, score)
}

// trimFloat formats a score without trailing zeros ("4.5", "4", "4.33").
func trimFloat(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	for len(s) > 0 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}
