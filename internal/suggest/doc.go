// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package suggest generates best-move suggestions for weak plies.
//
// For every message a review labels Inaccuracy or worse, the generator
// builds candidate replacement replies from rewrite templates keyed on
// the conversation context, scores each candidate through the same
// rubric heuristics the review engine uses, and returns the top few
// with the label each would have earned in the original position.
//
// Suggestions are deterministic: templates plus heuristic scoring, no
// randomness, so the same review always produces the same advice.
//
// # Usage
//
//	gen := suggest.NewGenerator()
//	for _, move := range gen.ForReport(conv, report) {
//	    fmt.Printf("ply %d (%s):\n", move.Index, move.Label)
//	    for _, s := range move.Suggestions {
//	        fmt.Printf("  %s (%.2f, %s)\n", s.Text, s.PredictedScore, s.LabelName)
//	    }
//	}
package suggest
