// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the convolens TUI.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the review TUI.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	SelfBubble  lipgloss.Style
	OtherBubble lipgloss.Style
	Selected    lipgloss.Style
	Speaker     lipgloss.Style
	Timestamp   lipgloss.Style

	// ==========================================================================
	// DETAIL PANE STYLES
	// ==========================================================================

	DetailBox     lipgloss.Style
	DetailTitle   lipgloss.Style
	DetailText    lipgloss.Style
	SuggestionRow lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// SUMMARY STYLES
	// ==========================================================================

	SummaryLabel lipgloss.Style
	SummaryValue lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
// The mode is "dark", "light", or "auto"; auto defers to terminal
// background detection.
func NewTheme(mode string) *Theme {
	colorProfile := termenv.ColorProfile()
	hasTrueColor := colorProfile == termenv.TrueColor

	var isDark bool
	switch strings.ToLower(mode) {
	case "dark":
		isDark = true
	case "light":
		isDark = false
	default:
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: hasTrueColor,
		ColorProfile: colorProfile,
		Width:        80,
		Height:       24,
	}

	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)
	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.SelfBubble = lipgloss.NewStyle().
		Foreground(SelfBubbleFg).
		Background(SelfBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(SelfBubbleBorder).
		Padding(0, 1)
	t.OtherBubble = lipgloss.NewStyle().
		Foreground(OtherBubbleFg).
		Background(OtherBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(OtherBubbleBorder).
		Padding(0, 1)
	t.Selected = lipgloss.NewStyle().
		BorderStyle(lipgloss.ThickBorder()).
		BorderForeground(Cyan).
		Padding(0, 1)
	t.Speaker = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)
	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.DetailBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 1)
	t.DetailTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)
	t.DetailText = lipgloss.NewStyle().
		Foreground(TextPrimary)
	t.SuggestionRow = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)
	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.SummaryLabel = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.SummaryValue = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	return t
}

// SetSize updates the layout dimensions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}
