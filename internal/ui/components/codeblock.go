// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/convolens/internal/ui/styles"
)

// =============================================================================
// MESSAGE BODY RENDERING
// =============================================================================

// RenderBody prepares a message body for display. Fenced code blocks
// (shared snippets happen even in texting) get chroma syntax
// highlighting; everything else passes through for the bubble's own
// wrapping.
func RenderBody(text string, width int) string {
	if !strings.Contains(text, "```") {
		return text
	}

	var out strings.Builder
	rest := text
	for {
		open := strings.Index(rest, "```")
		if open < 0 {
			out.WriteString(rest)
			break
		}
		out.WriteString(rest[:open])
		rest = rest[open+3:]

		close := strings.Index(rest, "```")
		if close < 0 {
			// Unterminated fence, emit verbatim.
			out.WriteString("```")
			out.WriteString(rest)
			break
		}

		block := rest[:close]
		rest = rest[close+3:]

		language := ""
		if nl := strings.Index(block, "\n"); nl >= 0 {
			language = strings.TrimSpace(block[:nl])
			block = block[nl+1:]
		}

		cb := NewCodeBlock(language, block)
		cb.SetMaxWidth(width)
		out.WriteString("\n" + cb.Render() + "\n")
	}

	return out.String()
}

// =============================================================================
// CODE BLOCK RENDERER
// =============================================================================

// CodeBlock represents a rendered code block.
type CodeBlock struct {
	Language string
	Code     string
	MaxWidth int
}

// NewCodeBlock creates a new code block.
func NewCodeBlock(language, code string) CodeBlock {
	return CodeBlock{
		Language: language,
		Code:     code,
		MaxWidth: 80,
	}
}

// SetMaxWidth sets the maximum width for the code block.
func (c *CodeBlock) SetMaxWidth(width int) {
	c.MaxWidth = width
}

// Render renders the code block with syntax highlighting and a
// language badge.
func (c CodeBlock) Render() string {
	code := strings.TrimRight(c.Code, "\n")

	language := c.Language
	if language == "" {
		language = detectLanguage(code)
	}

	highlighted := highlightCode(code, language)

	var header string
	if c.Language != "" {
		header = lipgloss.NewStyle().
			Foreground(styles.TextInverse).
			Background(styles.Overlay).
			Padding(0, 1).
			Render(c.Language)
	}

	body := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Overlay).
		Padding(0, 1).
		Render(highlighted)

	if header == "" {
		return body
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

// =============================================================================
// SYNTAX HIGHLIGHTING (Chroma-based)
// =============================================================================

// highlightCode applies syntax highlighting to code using the chroma
// library. Output is ANSI-safe for terminal display.
func highlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}

	return buf.String()
}

// detectLanguage attempts to detect the programming language of the
// given code.
func detectLanguage(code string) string {
	lexer := lexers.Analyse(code)
	if lexer != nil {
		return lexer.Config().Name
	}
	return ""
}
