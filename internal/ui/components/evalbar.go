// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/convolens/internal/ui/styles"
)

// =============================================================================
// EVALUATION BAR COMPONENT
// =============================================================================

// EvalBar renders the running conversation evaluation as a vertical
// bar, like a chess engine eval bar. Positive eval favors the self
// side, which fills from the bottom in the light color.
type EvalBar struct {
	eval   float64 // [-1, 1]
	height int     // rows
	width  int     // columns per row
}

// NewEvalBar creates an eval bar with default dimensions.
func NewEvalBar() *EvalBar {
	return &EvalBar{
		eval:   0,
		height: 20,
		width:  2,
	}
}

// SetEval updates the displayed evaluation, clamped to [-1, 1].
func (b *EvalBar) SetEval(eval float64) {
	if eval > 1 {
		eval = 1
	}
	if eval < -1 {
		eval = -1
	}
	b.eval = eval
}

// Eval returns the current evaluation.
func (b *EvalBar) Eval() float64 {
	return b.eval
}

// SetHeight sets the bar height in rows.
func (b *EvalBar) SetHeight(height int) {
	if height < 3 {
		height = 3
	}
	b.height = height
}

// SelfRows returns how many rows of the bar belong to the self side.
func (b *EvalBar) SelfRows() int {
	share := (b.eval + 1) / 2
	rows := int(share*float64(b.height) + 0.5)
	// A live conversation never renders a completely empty or full
	// bar; both sides keep at least one row unless eval is pinned.
	if rows == 0 && b.eval > -1 {
		rows = 1
	}
	if rows == b.height && b.eval < 1 {
		rows = b.height - 1
	}
	return rows
}

// Render returns the vertical bar, one styled cell row per line, with
// the numeric eval below it.
func (b *EvalBar) Render() string {
	selfRows := b.SelfRows()
	otherRows := b.height - selfRows

	cell := strings.Repeat(" ", b.width)
	otherStyle := lipgloss.NewStyle().Background(styles.EvalOther)
	selfStyle := lipgloss.NewStyle().Background(styles.EvalSelf)

	var lines []string
	for i := 0; i < otherRows; i++ {
		lines = append(lines, otherStyle.Render(cell))
	}
	for i := 0; i < selfRows; i++ {
		lines = append(lines, selfStyle.Render(cell))
	}

	lines = append(lines, lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render(formatEval(b.eval)))

	return strings.Join(lines, "\n")
}

// RenderInline returns a one-line horizontal rendering for status bars.
// Format: "[####------] +0.35"
func (b *EvalBar) RenderInline(width int) string {
	if width < 4 {
		width = 4
	}
	share := (b.eval + 1) / 2
	filled := int(share*float64(width) + 0.5)
	if filled > width {
		filled = width
	}

	bar := "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
	return lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Render(bar + " " + formatEval(b.eval))
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

// formatEval formats an evaluation with an explicit sign, chess style.
func formatEval(eval float64) string {
	return fmt.Sprintf("%+.2f", eval)
}
