// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/convolens/internal/review"
	"github.com/jeranaias/convolens/internal/ui/components"
	"github.com/jeranaias/convolens/internal/ui/styles"
)

const (
	// evalBarColumnWidth is the eval bar plus its gutter.
	evalBarColumnWidth = 8
	// detailPaneHeight is reserved when the detail pane is open.
	detailPaneHeight = 9
)

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}

	sections := []string{m.renderHeader()}

	transcript := m.viewport.View()
	if m.opts.ShowEval {
		bar := lipgloss.NewStyle().
			Padding(0, 2, 0, 1).
			Render(m.evalBar.Render())
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, bar, transcript))
	} else {
		sections = append(sections, transcript)
	}

	if m.showDetail {
		sections = append(sections, m.renderDetail())
	}

	if m.showHelp {
		sections = append(sections, m.renderHelp())
	} else {
		sections = append(sections, m.renderStatusBar())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// =============================================================================
// HEADER
// =============================================================================

func (m *Model) renderHeader() string {
	title := m.conv.Title
	if title == "" {
		title = "Conversation review"
	}

	var subtitle string
	if m.report != nil {
		subtitle = fmt.Sprintf("%s %.1f%% vs %s %.1f%%  final %+.2f",
			m.report.Self.Name, m.report.Self.Accuracy,
			m.report.Other.Name, m.report.Other.Accuracy,
			m.report.FinalEval)
	}

	line := m.theme.HeaderTitle.Render(title)
	if subtitle != "" {
		line += "  " + m.theme.HeaderSubtitle.Render(subtitle)
	}
	return m.theme.Header.Width(m.width).Render(line)
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

func (m *Model) renderTranscript() string {
	if m.conv == nil || len(m.conv.Messages) == 0 {
		return m.theme.DetailText.Render("No messages.")
	}

	width := m.transcriptWidth()
	var blocks []string
	for i, msg := range m.conv.Messages {
		var ann *review.Annotation
		if m.report != nil && i < len(m.report.Annotations) {
			ann = &m.report.Annotations[i]
		}

		bubble := components.NewMessageBubble(msg, ann, m.theme)
		bubble.SetWidth(width)
		bubble.Selected = i == m.cursor
		bubble.SpeakerName = m.conv.SpeakerName(msg.Side)
		bubble.ShowLabel = true

		block := bubble.View()
		if m.opts.ShowExplanations && !m.opts.CompactMode && ann != nil && ann.Explanation != "" {
			expl := lipgloss.NewStyle().
				Foreground(styles.TextMuted).
				Italic(true).
				PaddingLeft(2).
				Width(width - 2).
				Render(ann.Explanation)
			block = lipgloss.JoinVertical(lipgloss.Left, block, expl)
		}
		blocks = append(blocks, block)
	}

	return strings.Join(blocks, "\n\n")
}

// =============================================================================
// DETAIL PANE
// =============================================================================

func (m *Model) renderDetail() string {
	ann := m.Selected()
	if ann == nil {
		return m.theme.DetailBox.Width(m.width - 2).Render("No message selected.")
	}

	var lines []string

	badge := components.NewLabelBadge(ann.Label, ann.Score)
	header := fmt.Sprintf("Move %d  %s", ann.Index+1, badge.Render())
	if ann.Estimated {
		header += m.theme.HeaderSubtitle.Render("  (estimated rubric)")
	}
	lines = append(lines, m.theme.DetailTitle.Render(header))

	body := ann.Text
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(body); err == nil {
			body = strings.TrimSpace(rendered)
		}
	}
	lines = append(lines, m.theme.DetailText.Render(body))

	if ann.Explanation != "" {
		lines = append(lines, m.theme.SuggestionRow.Render(ann.Explanation))
	}

	if s, ok := m.suggestions[ann.MessageID]; ok && len(s.Suggestions) > 0 {
		lines = append(lines, m.theme.DetailTitle.Render("Better was:"))
		for _, alt := range s.Suggestions {
			lines = append(lines, m.theme.SuggestionRow.Render(
				fmt.Sprintf("  %s (%s, %.1f)", alt.Text, alt.LabelName, alt.PredictedScore)))
		}
	}

	return m.theme.DetailBox.Width(m.width - 2).Render(strings.Join(lines, "\n"))
}

// =============================================================================
// STATUS BAR AND HELP
// =============================================================================

func (m *Model) renderStatusBar() string {
	var parts []string
	for _, b := range m.keys.ShortHelp() {
		parts = append(parts,
			m.theme.ShortcutKey.Render(b.Help().Key)+" "+
				m.theme.ShortcutDesc.Render(b.Help().Desc))
	}

	pos := ""
	if m.report != nil && len(m.report.Annotations) > 0 {
		pos = fmt.Sprintf("  %d/%d", m.cursor+1, len(m.report.Annotations))
	}

	return m.theme.StatusBar.Width(m.width).Render(strings.Join(parts, "  ") + pos)
}

func (m *Model) renderHelp() string {
	var lines []string
	for _, group := range m.keys.FullHelp() {
		var cols []string
		for _, b := range group {
			cols = append(cols,
				m.theme.ShortcutKey.Render(b.Help().Key)+" "+
					m.theme.ShortcutDesc.Render(b.Help().Desc))
		}
		lines = append(lines, strings.Join(cols, "   "))
	}
	return m.theme.StatusBar.Width(m.width).Render(strings.Join(lines, "\n"))
}
