// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the convolens
// review TUI.
//
// Colors are lipgloss AdaptiveColor pairs so every style works on both
// light and dark terminals. The label palette mirrors the chess.com
// move classification colors: teal for brilliant, greens for good
// play, yellow and orange for slips, red for blunders.
//
// Theme bundles the configured styles and the detected terminal
// capabilities (color profile, background) in one place.
package styles
