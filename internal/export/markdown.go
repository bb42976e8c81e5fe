// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/convolens/internal/label"
	"github.com/jeranaias/convolens/internal/model"
	"github.com/jeranaias/convolens/internal/storage"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports reviewed conversations to Markdown format.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a reviewed conversation to Markdown format.
func (e *MarkdownExporter) Export(conv *storage.StoredConversation) ([]byte, error) {
	if conv == nil {
		return nil, fmt.Errorf("conversation is nil")
	}
	if len(conv.Messages) == 0 {
		return nil, fmt.Errorf("conversation has no messages")
	}

	var sb strings.Builder

	// YAML frontmatter with metadata
	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", escapeYAML(conv.Title)))
		sb.WriteString(fmt.Sprintf("date: %s\n", conv.CreatedAt.Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("messages: %d\n", len(conv.Messages)))
		if conv.Reviewed {
			sb.WriteString(fmt.Sprintf("reviewed: %s\n", conv.ReviewedAt.Format(time.RFC3339)))
			sb.WriteString(fmt.Sprintf("final_eval: %.2f\n", conv.FinalEval))
		}
		sb.WriteString(fmt.Sprintf("exported: %s\n", time.Now().Format(time.RFC3339)))
		sb.WriteString("generator: convolens\n")
		sb.WriteString("---\n\n")
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(conv.Title)))

	// Review summary section
	if e.options.IncludeMetadata && conv.Reviewed {
		sb.WriteString("## Game Summary\n\n")
		sb.WriteString("| Player | Messages | Avg Score | Accuracy |\n")
		sb.WriteString("|--------|----------|-----------|----------|\n")
		if conv.Self != nil {
			sb.WriteString(fmt.Sprintf("| %s | %d | %s | %s |\n",
				escapeMarkdown(conv.Self.Name), conv.Self.Messages,
				formatScore(conv.Self.AvgScore), formatAccuracy(conv.Self.Accuracy)))
		}
		if conv.Other != nil {
			sb.WriteString(fmt.Sprintf("| %s | %d | %s | %s |\n",
				escapeMarkdown(conv.Other.Name), conv.Other.Messages,
				formatScore(conv.Other.AvgScore), formatAccuracy(conv.Other.Accuracy)))
		}
		sb.WriteString(fmt.Sprintf("\nFinal evaluation: %+.2f\n\n---\n\n", conv.FinalEval))
	}

	// Messages
	sb.WriteString("## Conversation\n\n")

	for i, msg := range conv.Messages {
		header := e.formatSpeaker(conv, &msg)
		if e.options.IncludeTimestamps && !msg.Timestamp.IsZero() {
			sb.WriteString(fmt.Sprintf("### %s <sub>%s</sub>\n\n",
				header, formatShortTimestamp(msg.Timestamp)))
		} else {
			sb.WriteString(fmt.Sprintf("### %s\n\n", header))
		}

		sb.WriteString(strings.TrimSpace(msg.Text))
		sb.WriteString("\n\n")

		if msg.Label != "" {
			sb.WriteString(e.formatAnnotation(&msg))
			sb.WriteString("\n\n")
		}

		if i < len(conv.Messages)-1 {
			sb.WriteString("---\n\n")
		}
	}

	// Footer
	sb.WriteString("\n---\n\n")
	sb.WriteString(fmt.Sprintf("*Exported from convolens on %s*\n",
		time.Now().Format("January 2, 2006 at 3:04 PM")))

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

// formatSpeaker renders the message header with the participant name.
func (e *MarkdownExporter) formatSpeaker(conv *storage.StoredConversation, msg *storage.StoredMessage) string {
	name := msg.Speaker
	if name == "" {
		switch msg.Side {
		case model.SideSelf:
			name = conv.SelfName
		case model.SideOther:
			name = conv.OtherName
		}
	}
	if name == "" {
		name = msg.Side.DisplayName()
	}
	return "[" + escapeMarkdown(name) + "]"
}

// formatAnnotation renders the label line under a message.
func (e *MarkdownExporter) formatAnnotation(msg *storage.StoredMessage) string {
	glyph := ""
	if l, err := label.Parse(msg.Label); err == nil {
		glyph = l.Glyph() + " "
	}

	line := fmt.Sprintf("> %s**%s** (%s)", glyph, labelTitle(msg.Label), formatScore(msg.Score))
	if msg.Explanation != "" {
		line += ": " + escapeMarkdown(msg.Explanation)
	}
	return line
}

// labelTitle upper-cases the first rune of a label name.
func labelTitle(name string) string {
	if name == "" {
		return name
	}
	runes := []rune(name)
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// escapeMarkdown escapes special Markdown characters in plain text.
func escapeMarkdown(s string) string {
	// Only escape characters that would break formatting in titles/headings
	s = strings.ReplaceAll(s, "#", "\\#")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return s
}

// escapeYAML escapes special YAML characters in values.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#|>@`\"'[]{}!%&*\n\r\\") || strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		s = strings.ReplaceAll(s, "\r", "\\r")
		return fmt.Sprintf("\"%s\"", s)
	}
	return s
}
