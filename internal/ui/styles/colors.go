// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the convolens TUI.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/convolens/internal/label"
)

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// Purple - Primary accent, headers, selections
var Purple = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// Cyan - Brand color, info, key hints
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Emerald - Good play, success states
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Rose - Blunders, errors, danger states
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - Inaccuracies, warnings, caution states
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// SurfaceDim - Slightly darker/lighter surface for headers/footers
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}

// Overlay - Borders, separators, subtle backgrounds
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}

// TextSecondary - Labels, less prominent text
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}

// TextMuted - Hints, timestamps, very subtle text
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// =============================================================================
// MESSAGE BUBBLE COLORS
// =============================================================================

// Self-side bubble - Blue tones, like the "you" side of a chat app
var SelfBubbleBg = lipgloss.AdaptiveColor{Light: "#DBEAFE", Dark: "#1D4ED8"}
var SelfBubbleFg = lipgloss.AdaptiveColor{Light: "#1E40AF", Dark: "#E0F2FE"}
var SelfBubbleBorder = lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#3B82F6"}

// Other-side bubble - Neutral gray tones
var OtherBubbleBg = lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#313244"}
var OtherBubbleFg = lipgloss.AdaptiveColor{Light: "#374151", Dark: "#CDD6F4"}
var OtherBubbleBorder = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

// =============================================================================
// LABEL COLORS
// =============================================================================

// Label colors follow the chess.com move classification palette:
// teal for brilliant, blue for great, greens for good play, yellow
// and orange for slips, red for blunders.

var BrilliantColor = lipgloss.AdaptiveColor{Light: "#0D9488", Dark: "#2DD4BF"}
var GreatColor = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"}
var BestColor = lipgloss.AdaptiveColor{Light: "#16A34A", Dark: "#4ADE80"}
var ExcellentColor = lipgloss.AdaptiveColor{Light: "#16A34A", Dark: "#86EFAC"}
var GoodColor = lipgloss.AdaptiveColor{Light: "#65A30D", Dark: "#BEF264"}
var InaccuracyColor = lipgloss.AdaptiveColor{Light: "#CA8A04", Dark: "#FDE047"}
var MistakeColor = lipgloss.AdaptiveColor{Light: "#EA580C", Dark: "#FB923C"}
var MissColor = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}
var BlunderColor = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#EF4444"}

// LabelColor returns the display color for a label.
func LabelColor(l label.Label) lipgloss.AdaptiveColor {
	switch l {
	case label.Brilliant:
		return BrilliantColor
	case label.Great:
		return GreatColor
	case label.Best:
		return BestColor
	case label.Excellent:
		return ExcellentColor
	case label.Good:
		return GoodColor
	case label.Inaccuracy:
		return InaccuracyColor
	case label.Mistake:
		return MistakeColor
	case label.Miss:
		return MissColor
	case label.Blunder:
		return BlunderColor
	default:
		return TextMuted
	}
}

// =============================================================================
// EVALUATION BAR COLORS
// =============================================================================

// EvalSelf - The self share of the evaluation bar (bottom, like White)
var EvalSelf = lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#F9FAFB"}

// EvalOther - The other share of the evaluation bar (top, like Black)
var EvalOther = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#374151"}

// =============================================================================
// STATUS HELPERS
// =============================================================================

// RenderSuccess renders a success message with high contrast green.
func RenderSuccess(message string) string {
	return lipgloss.NewStyle().Foreground(Emerald).Bold(true).Render("[OK] " + message)
}

// RenderError renders an error message with high contrast red.
func RenderError(message string) string {
	return lipgloss.NewStyle().Foreground(Rose).Bold(true).Render("[X] " + message)
}

// RenderWarning renders a warning message with high contrast amber.
func RenderWarning(message string) string {
	return lipgloss.NewStyle().Foreground(Amber).Bold(true).Render("[!] " + message)
}

// RenderInfo renders an info message with high contrast cyan.
func RenderInfo(message string) string {
	return lipgloss.NewStyle().Foreground(Cyan).Bold(true).Render("[i] " + message)
}
