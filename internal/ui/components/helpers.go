// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the
// convolens review TUI.
package components

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wordWrap wraps text to the given display width, breaking on spaces.
// Width is measured in terminal cells via runewidth so wide characters
// and emoji wrap correctly.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	if runewidth.StringWidth(line) <= width {
		return []string{line}
	}

	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{line}
	}

	var lines []string
	current := ""
	for _, word := range words {
		// A single word longer than the width gets hard-truncated
		// rather than overflowing the bubble.
		if runewidth.StringWidth(word) > width {
			word = runewidth.Truncate(word, width, "…")
		}
		if current == "" {
			current = word
			continue
		}
		if runewidth.StringWidth(current)+1+runewidth.StringWidth(word) <= width {
			current += " " + word
		} else {
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// truncate shortens a string to the given display width with an
// ellipsis when it overflows.
func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}

// maxLineWidth returns the widest line of a multi-line string in
// terminal cells.
func maxLineWidth(s string) int {
	max := 0
	for _, line := range strings.Split(s, "\n") {
		if w := runewidth.StringWidth(line); w > max {
			max = w
		}
	}
	return max
}

// padRight pads a string to the specified display width with spaces.
func padRight(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, ""), width)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
