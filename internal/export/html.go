// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/jeranaias/convolens/internal/label"
	"github.com/jeranaias/convolens/internal/model"
	"github.com/jeranaias/convolens/internal/storage"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports reviewed conversations to HTML with embedded CSS.
// Messages render as chat bubbles with their labels; the final eval is
// drawn as a horizontal bar split between the two sides.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a reviewed conversation to HTML format.
func (e *HTMLExporter) Export(conv *storage.StoredConversation) ([]byte, error) {
	if conv == nil {
		return nil, fmt.Errorf("conversation is nil")
	}
	if len(conv.Messages) == 0 {
		return nil, fmt.Errorf("conversation has no messages")
	}

	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(conv.Title)))
	sb.WriteString("    <meta name=\"generator\" content=\"convolens\">\n")
	sb.WriteString(fmt.Sprintf("    <meta name=\"date\" content=\"%s\">\n", conv.CreatedAt.Format(time.RFC3339)))
	sb.WriteString(e.getCSS())
	sb.WriteString("</head>\n")
	sb.WriteString(fmt.Sprintf("<body class=\"%s-theme\">\n", e.options.Theme))
	sb.WriteString("    <div class=\"container\">\n")

	if e.options.IncludeMetadata {
		sb.WriteString(e.renderHeader(conv))
	}

	sb.WriteString("        <main class=\"conversation\">\n")
	for i := range conv.Messages {
		sb.WriteString(e.renderMessage(conv, &conv.Messages[i]))
	}
	sb.WriteString("        </main>\n")

	sb.WriteString("        <footer class=\"footer\">\n")
	sb.WriteString(fmt.Sprintf("            <p>Exported from <strong>convolens</strong> on %s</p>\n",
		time.Now().Format("January 2, 2006 at 3:04 PM")))
	sb.WriteString("        </footer>\n")
	sb.WriteString("    </div>\n")
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

// =============================================================================
// RENDERING FUNCTIONS
// =============================================================================

// renderHeader renders the review summary with the evaluation bar.
func (e *HTMLExporter) renderHeader(conv *storage.StoredConversation) string {
	var sb strings.Builder

	sb.WriteString("        <header class=\"header\">\n")
	sb.WriteString(fmt.Sprintf("            <h1>%s</h1>\n", html.EscapeString(conv.Title)))
	sb.WriteString("            <div class=\"metadata\">\n")
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Created:</strong> %s</span>\n", formatTimestamp(conv.CreatedAt)))
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Messages:</strong> %d</span>\n", len(conv.Messages)))
	sb.WriteString("            </div>\n")

	if conv.Reviewed {
		if conv.Self != nil && conv.Other != nil {
			sb.WriteString("            <div class=\"summary\">\n")
			sb.WriteString(e.renderSideSummary(conv.Self.Name, conv.Self.AvgScore, conv.Self.Accuracy))
			sb.WriteString(e.renderSideSummary(conv.Other.Name, conv.Other.AvgScore, conv.Other.Accuracy))
			sb.WriteString("            </div>\n")
		}

		// Eval in [-1, 1] maps to the self side's share of the bar
		selfShare := (conv.FinalEval + 1) / 2 * 100
		sb.WriteString("            <div class=\"eval-bar\">\n")
		sb.WriteString(fmt.Sprintf("                <div class=\"eval-self\" style=\"width: %.1f%%\"></div>\n", selfShare))
		sb.WriteString("            </div>\n")
	}

	sb.WriteString("        </header>\n")
	return sb.String()
}

// renderSideSummary renders one participant's score line.
func (e *HTMLExporter) renderSideSummary(name string, avgScore, accuracy float64) string {
	return fmt.Sprintf("                <span class=\"side-summary\"><strong>%s</strong> %s · accuracy %s</span>\n",
		html.EscapeString(name), formatScore(avgScore), formatAccuracy(accuracy))
}

// renderMessage renders a single message bubble with its label badge.
func (e *HTMLExporter) renderMessage(conv *storage.StoredConversation, msg *storage.StoredMessage) string {
	var sb strings.Builder

	sideClass := "other"
	if msg.Side == model.SideSelf {
		sideClass = "self"
	}

	sb.WriteString(fmt.Sprintf("            <div class=\"message %s-message\">\n", sideClass))
	sb.WriteString("                <div class=\"message-header\">\n")
	sb.WriteString(fmt.Sprintf("                    <span class=\"speaker\">%s</span>\n", html.EscapeString(speakerName(conv, msg))))
	if e.options.IncludeTimestamps && !msg.Timestamp.IsZero() {
		sb.WriteString(fmt.Sprintf("                    <span class=\"timestamp\">%s</span>\n", formatShortTimestamp(msg.Timestamp)))
	}
	sb.WriteString("                </div>\n")
	sb.WriteString(fmt.Sprintf("                <div class=\"message-content\">%s</div>\n", html.EscapeString(msg.Text)))

	if msg.Label != "" {
		glyph := ""
		if l, err := label.Parse(msg.Label); err == nil {
			glyph = l.Glyph()
		}
		sb.WriteString(fmt.Sprintf("                <div class=\"badge badge-%s\" title=\"%s\">%s %s · %s</div>\n",
			msg.Label, html.EscapeString(msg.Explanation), glyph, labelTitle(msg.Label), formatScore(msg.Score)))
	}

	sb.WriteString("            </div>\n")
	return sb.String()
}

// speakerName resolves the display name for a message.
func speakerName(conv *storage.StoredConversation, msg *storage.StoredMessage) string {
	if msg.Speaker != "" {
		return msg.Speaker
	}
	switch msg.Side {
	case model.SideSelf:
		if conv.SelfName != "" {
			return conv.SelfName
		}
	case model.SideOther:
		if conv.OtherName != "" {
			return conv.OtherName
		}
	}
	return msg.Side.DisplayName()
}

// getCSS returns the embedded stylesheet.
func (e *HTMLExporter) getCSS() string {
	return `    <style>
        :root {
            --bg: #ffffff; --fg: #1a1a2e; --bubble-self: #0b6e4f; --bubble-self-fg: #ffffff;
            --bubble-other: #e8e8ef; --bubble-other-fg: #1a1a2e; --muted: #6b7280;
        }
        .dark-theme {
            --bg: #16161e; --fg: #e5e7eb; --bubble-self: #14866d; --bubble-self-fg: #f0fdf4;
            --bubble-other: #24283b; --bubble-other-fg: #e5e7eb; --muted: #9ca3af;
        }
        body { background: var(--bg); color: var(--fg); font-family: -apple-system, "Segoe UI", sans-serif; margin: 0; }
        .container { max-width: 720px; margin: 0 auto; padding: 24px 16px; }
        .header h1 { margin: 0 0 8px; font-size: 1.4rem; }
        .metadata, .summary { color: var(--muted); font-size: 0.85rem; display: flex; gap: 16px; flex-wrap: wrap; }
        .summary { margin-top: 8px; }
        .eval-bar { height: 10px; border-radius: 5px; background: #3f3f46; overflow: hidden; margin: 12px 0 4px; }
        .eval-self { height: 100%; background: var(--bubble-self); }
        .conversation { margin-top: 24px; display: flex; flex-direction: column; gap: 12px; }
        .message { max-width: 80%; padding: 10px 14px; border-radius: 14px; }
        .self-message { align-self: flex-end; background: var(--bubble-self); color: var(--bubble-self-fg); }
        .other-message { align-self: flex-start; background: var(--bubble-other); color: var(--bubble-other-fg); }
        .message-header { display: flex; justify-content: space-between; gap: 12px; font-size: 0.75rem; opacity: 0.8; margin-bottom: 4px; }
        .message-content { white-space: pre-wrap; word-wrap: break-word; }
        .badge { margin-top: 6px; font-size: 0.75rem; font-weight: 600; }
        .badge-brilliant, .badge-great { color: #2dd4bf; }
        .badge-best, .badge-excellent, .badge-good { color: #a3e635; }
        .badge-inaccuracy, .badge-mistake { color: #fbbf24; }
        .badge-miss, .badge-blunder { color: #f87171; }
        .footer { margin-top: 32px; color: var(--muted); font-size: 0.8rem; text-align: center; }
    </style>
`
}
