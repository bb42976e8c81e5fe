// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package review runs chess-style game review over conversations.
//
// The engine walks a conversation ply by ply: it resolves a rubric for
// each message (manual label if present, heuristic estimate otherwise),
// averages it into a score, assigns a label with the contextual rules,
// explains the label, and advances the evaluation bar.
//
// # Key Types
//
//   - Engine: the reviewer, configured with label thresholds
//   - Report: full review with annotations and per-side summaries
//   - Annotation: score, label, explanation, and eval for one message
//   - SideSummary: accuracy and label tally per participant
//
// # Evaluation Bar
//
// The eval is a running value in [-1, 1], positive favoring the
// reviewed side. Each message shifts it toward its sender in proportion
// to how far the score sits from the 2.5 midpoint; older swings decay
// exponentially, so a single early blunder does not pin the bar.
//
// # Usage
//
//	engine := review.NewDefaultEngine()
//	report, err := engine.Review(conv)
//	for _, a := range report.Annotations {
//	    fmt.Println(a.Label.Glyph(), a.Explanation)
//	}
package review
