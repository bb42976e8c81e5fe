// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui implements the interactive review screen for convolens.
//
// The screen is a bubbletea program: the annotated transcript scrolls
// in a viewport with chat-style bubbles and label badges, the running
// evaluation renders as a vertical bar alongside (positive favors the
// self side, like White on a chess eval bar), and Enter opens a detail
// pane with the selected move's explanation and suggested
// alternatives.
//
// Navigation is vim-flavored: j/k scroll, n/p step between messages,
// g/G jump, q quits.
package ui
