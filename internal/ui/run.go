// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/convolens/internal/model"
	"github.com/jeranaias/convolens/internal/review"
	"github.com/jeranaias/convolens/internal/suggest"
)

// Run starts the review TUI for a reviewed conversation and blocks
// until the user quits.
func Run(conv *model.Conversation, report *review.Report, sugg []suggest.MoveSuggestions, opts Options) error {
	m := New(conv, report, sugg, opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("review UI failed: %w", err)
	}
	return nil
}
