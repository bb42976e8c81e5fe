// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/convolens/internal/model"
	"github.com/jeranaias/convolens/internal/review"
	"github.com/jeranaias/convolens/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one annotated message as a chat bubble.
// Self messages sit on the right in blue, other messages on the left
// in neutral gray, each with its label badge in the header.
type MessageBubble struct {
	Message    *model.Message
	Annotation *review.Annotation
	Width      int
	Selected   bool
	// SpeakerName overrides the side display name when known.
	SpeakerName string
	ShowLabel   bool
	theme       *styles.Theme
}

// NewMessageBubble creates a bubble for a message and its annotation.
// The annotation may be nil for unreviewed transcripts.
func NewMessageBubble(msg *model.Message, ann *review.Annotation, theme *styles.Theme) *MessageBubble {
	if msg == nil {
		msg = &model.Message{Side: model.SideOther}
	}
	return &MessageBubble{
		Message:    msg,
		Annotation: ann,
		Width:      80,
		ShowLabel:  true,
		theme:      theme,
	}
}

// SetWidth sets the bubble width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the bubble.
func (b *MessageBubble) View() string {
	if b.Message.Side == model.SideSelf {
		return b.renderSelf()
	}
	return b.renderOther()
}

// ==========================================================================
// SELF BUBBLE - Blue tones, right-aligned
// ==========================================================================

func (b *MessageBubble) renderSelf() string {
	content, contentWidth := b.wrapContent()

	bubbleStyle := b.theme.SelfBubble
	if b.Selected {
		bubbleStyle = b.theme.Selected.
			Foreground(styles.SelfBubbleFg).
			Background(styles.SelfBubbleBg)
	}
	bubble := bubbleStyle.Width(contentWidth).Render(content)

	header := b.renderHeader()

	// Right-align with a left margin.
	leftMargin := b.Width - lipgloss.Width(bubble)
	if leftMargin < 0 {
		leftMargin = 0
	}
	marginStyle := lipgloss.NewStyle().MarginLeft(leftMargin)

	return lipgloss.JoinVertical(lipgloss.Right,
		marginStyle.Render(header),
		marginStyle.Render(bubble))
}

// ==========================================================================
// OTHER BUBBLE - Neutral tones, left-aligned
// ==========================================================================

func (b *MessageBubble) renderOther() string {
	content, contentWidth := b.wrapContent()

	bubbleStyle := b.theme.OtherBubble
	if b.Selected {
		bubbleStyle = b.theme.Selected.
			Foreground(styles.OtherBubbleFg).
			Background(styles.OtherBubbleBg)
	}
	bubble := bubbleStyle.Width(contentWidth).Render(content)

	header := b.renderHeader()

	return lipgloss.JoinVertical(lipgloss.Left, header, bubble)
}

// ==========================================================================
// SHARED PIECES
// ==========================================================================

// wrapContent wraps and highlights the message body, returning the
// rendered text and the bubble content width.
func (b *MessageBubble) wrapContent() (string, int) {
	content := b.Message.Text
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}

	content = RenderBody(content, maxContentWidth)
	wrapped := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+2, b.Width-8)
	return wrapped, contentWidth
}

// renderHeader builds the "speaker  15:04  !! Brilliant (4.7)" line.
func (b *MessageBubble) renderHeader() string {
	name := b.SpeakerName
	if name == "" {
		name = b.Message.Side.DisplayName()
	}

	parts := []string{b.theme.Speaker.Render(name)}

	if !b.Message.Timestamp.IsZero() {
		parts = append(parts, b.theme.Timestamp.Render(b.Message.Timestamp.Format("15:04")))
	}

	if b.ShowLabel && b.Annotation != nil {
		badge := NewLabelBadge(b.Annotation.Label, b.Annotation.Score)
		parts = append(parts, badge.Render())
	}

	return strings.Join(parts, "  ")
}
