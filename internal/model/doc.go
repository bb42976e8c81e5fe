// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, messages,
// and rubric scores.
//
// A Conversation is a two-sided exchange of Messages. Each message belongs
// to a Side: SideSelf is the participant whose play is under review,
// SideOther is the counterpart (White/Black, in chess terms).
//
// A Rubric holds the seven per-category quality scores (1-5) that the
// labelling pipeline averages into a message score. Rubrics are either
// attached by hand during labelling or estimated heuristically.
//
// # Key Types
//
//   - Conversation: ordered messages plus metadata
//   - Message: one chat bubble with side, text, and optional rubric
//   - Rubric: per-category quality scores
//   - Side: which participant sent a message
//
// # Usage
//
// Build a conversation and add messages:
//
//	conv := model.NewConversation()
//	conv.AddSelfMessage("hey, how was the show?")
//	conv.AddOtherMessage("so good!! you should have come")
package model
