// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/convolens/internal/model"
	"github.com/jeranaias/convolens/internal/review"
	"github.com/jeranaias/convolens/internal/suggest"
	"github.com/jeranaias/convolens/internal/ui/components"
	"github.com/jeranaias/convolens/internal/ui/styles"
)

// =============================================================================
// MODEL
// =============================================================================

// Options configures the review TUI.
type Options struct {
	Theme            string // "dark", "light", "auto"
	ShowEval         bool
	ShowExplanations bool
	CompactMode      bool
}

// DefaultOptions returns the standard TUI options.
func DefaultOptions() Options {
	return Options{
		Theme:            "auto",
		ShowEval:         true,
		ShowExplanations: true,
	}
}

// Model is the bubbletea model for the conversation review screen.
// It shows the annotated transcript in a viewport with the evaluation
// bar alongside, and a detail pane for the selected message.
type Model struct {
	conv        *model.Conversation
	report      *review.Report
	suggestions map[string]suggest.MoveSuggestions

	opts    Options
	theme   *styles.Theme
	keys    KeyMap
	evalBar *components.EvalBar

	viewport viewport.Model
	renderer *glamour.TermRenderer

	cursor     int // index into report.Annotations
	showDetail bool
	showHelp   bool
	width      int
	height     int
	ready      bool
}

// New creates a review model for a reviewed conversation.
// Suggestions may be nil; the detail pane then shows annotations only.
func New(conv *model.Conversation, report *review.Report, sugg []suggest.MoveSuggestions, opts Options) *Model {
	byID := make(map[string]suggest.MoveSuggestions, len(sugg))
	for _, s := range sugg {
		byID[s.MessageID] = s
	}

	m := &Model{
		conv:        conv,
		report:      report,
		suggestions: byID,
		opts:        opts,
		theme:       styles.NewTheme(opts.Theme),
		keys:        DefaultKeyMap(),
		evalBar:     components.NewEvalBar(),
		cursor:      0,
		width:       80,
		height:      24,
	}
	m.syncEval()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, m.keys.Detail):
			m.showDetail = !m.showDetail
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.Next):
			m.moveCursor(1)
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.moveCursor(-1)
			return m, nil
		case key.Matches(msg, m.keys.Home):
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, m.keys.End):
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// =============================================================================
// STATE TRANSITIONS
// =============================================================================

// Cursor returns the index of the selected annotation.
func (m *Model) Cursor() int {
	return m.cursor
}

// Selected returns the annotation under the cursor, or nil.
func (m *Model) Selected() *review.Annotation {
	if m.report == nil || m.cursor < 0 || m.cursor >= len(m.report.Annotations) {
		return nil
	}
	return &m.report.Annotations[m.cursor]
}

func (m *Model) moveCursor(delta int) {
	if m.report == nil || len(m.report.Annotations) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.report.Annotations) {
		m.cursor = len(m.report.Annotations) - 1
	}
	m.syncEval()
	m.refresh()
}

// syncEval points the eval bar at the running evaluation after the
// selected ply.
func (m *Model) syncEval() {
	if ann := m.Selected(); ann != nil {
		m.evalBar.SetEval(ann.Eval)
	} else if m.report != nil {
		m.evalBar.SetEval(m.report.FinalEval)
	}
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	headerHeight := 2
	statusHeight := 1
	vpHeight := height - headerHeight - statusHeight
	if m.showDetail {
		vpHeight -= detailPaneHeight
	}
	if vpHeight < 3 {
		vpHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(m.transcriptWidth(), vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = m.transcriptWidth()
		m.viewport.Height = vpHeight
	}
	m.evalBar.SetHeight(vpHeight - 1)

	if r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(m.transcriptWidth()-4),
	); err == nil {
		m.renderer = r
	}

	m.refresh()
}

// transcriptWidth is the viewport width after the eval bar column.
func (m *Model) transcriptWidth() int {
	w := m.width
	if m.opts.ShowEval {
		w -= evalBarColumnWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

// refresh re-renders the transcript into the viewport.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderTranscript())
	if atBottom {
		m.viewport.GotoBottom()
	}
}
