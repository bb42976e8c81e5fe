// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/convolens/internal/label"
	"github.com/jeranaias/convolens/internal/ui/styles"
)

// =============================================================================
// LABEL BADGE COMPONENT
// =============================================================================

// LabelBadge renders a move classification as a colored badge.
type LabelBadge struct {
	Label label.Label
	Score float64
	// ShowScore appends the rubric average to the badge.
	ShowScore bool
}

// NewLabelBadge creates a badge for a label.
func NewLabelBadge(l label.Label, score float64) LabelBadge {
	return LabelBadge{Label: l, Score: score, ShowScore: true}
}

// Render returns the full badge: glyph, name and optional score.
// Example: "!! Brilliant (4.7)"
func (b LabelBadge) Render() string {
	text := fmt.Sprintf("%s %s", b.Label.Glyph(), b.Label.DisplayName())
	if b.ShowScore {
		text += fmt.Sprintf(" (%.1f)", b.Score)
	}
	return lipgloss.NewStyle().
		Foreground(styles.LabelColor(b.Label)).
		Bold(true).
		Render(text)
}

// RenderGlyph returns just the colored glyph, for tight layouts.
func (b LabelBadge) RenderGlyph() string {
	return lipgloss.NewStyle().
		Foreground(styles.LabelColor(b.Label)).
		Bold(true).
		Render(b.Label.Glyph())
}
