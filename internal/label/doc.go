// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package label defines the chess-style move labels for messages.
//
// # Key Types
//
//   - Label: the Brilliant..Blunder enumeration with glyphs and ordering
//   - Thresholds: score cutoffs for the label ladder and special rules
//
// # Labelling Rules
//
// Ordinary messages are labelled from their average rubric score:
// Best (>=4.5), Excellent (>=4.3), Good (>=4.0), Inaccuracy (>=3.5),
// Mistake (>=3.0), Blunder otherwise.
//
// Two context-sensitive rules override the ladder:
//
//   - Brilliant: a message marked as a sacrifice that still scores >=4.5.
//   - Recovery: when the previous message scored below 3.0, a strong
//     reply (>=4.0) is Great, a middling one is a Miss, and a weak one
//     is a Blunder.
//
// # Usage
//
//	t := label.DefaultThresholds()
//	l := t.Assign(avg, prevAvg, msg.Sacrifice)
//	fmt.Println(l.DisplayName(), l.Glyph())
package label
