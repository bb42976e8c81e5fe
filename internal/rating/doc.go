// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package rating implements the Elo-like rating system for conversation
// participants.
//
// Each reviewed conversation is treated as a rated game between its two
// participants. The outcome is derived from the review accuracies: equal
// accuracy is a draw, and every two points of accuracy edge moves the
// game score one percent toward a win. Ratings then move by the standard
// Elo update, with a larger K factor while a player is provisional.
//
// # Key Types
//
//   - Player: rated participant with history and peak tracking
//   - Params: K factors, provisional window, floor, initial rating
//   - Store: one-JSON-file-per-player persistence with a leaderboard
//
// # Usage
//
//	store, _ := rating.NewStore("")
//	params := rating.DefaultParams()
//	self, _ := store.FindOrCreate("Sam", params)
//	other, _ := store.FindOrCreate("Alex", params)
//	rating.RateConversation(report, self, other, params)
//	store.Save(self)
//	store.Save(other)
package rating
