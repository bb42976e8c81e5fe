// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/jeranaias/convolens/internal/label"
	"github.com/jeranaias/convolens/internal/model"
	"github.com/jeranaias/convolens/internal/review"
	"github.com/jeranaias/convolens/internal/ui/styles"
)

// =============================================================================
// EVAL BAR TESTS
// =============================================================================

func TestEvalBarSelfRows(t *testing.T) {
	bar := NewEvalBar()
	bar.SetHeight(20)

	cases := []struct {
		eval float64
		want int
	}{
		{0, 10},
		{1, 20},
		{-1, 0},
		{0.5, 15},
		{-0.5, 5},
	}
	for _, tc := range cases {
		bar.SetEval(tc.eval)
		if got := bar.SelfRows(); got != tc.want {
			t.Errorf("SelfRows(eval=%.1f) = %d, want %d", tc.eval, got, tc.want)
		}
	}
}

func TestEvalBarClamps(t *testing.T) {
	bar := NewEvalBar()
	bar.SetEval(3.0)
	if bar.Eval() != 1.0 {
		t.Errorf("expected clamp to 1.0, got %g", bar.Eval())
	}
	bar.SetEval(-2.0)
	if bar.Eval() != -1.0 {
		t.Errorf("expected clamp to -1.0, got %g", bar.Eval())
	}
}

func TestEvalBarNeverEmptyMidGame(t *testing.T) {
	bar := NewEvalBar()
	bar.SetHeight(10)
	bar.SetEval(-0.99)
	if bar.SelfRows() < 1 {
		t.Error("self side should keep at least one row while eval > -1")
	}
	bar.SetEval(0.99)
	if bar.SelfRows() > 9 {
		t.Error("other side should keep at least one row while eval < 1")
	}
}

func TestEvalBarRenderShowsValue(t *testing.T) {
	bar := NewEvalBar()
	bar.SetEval(0.35)
	out := bar.Render()
	if !strings.Contains(out, "+0.35") {
		t.Errorf("expected eval value in output, got:\n%s", out)
	}
}

func TestEvalBarRenderInline(t *testing.T) {
	bar := NewEvalBar()
	bar.SetEval(-0.2)
	out := bar.RenderInline(10)
	if !strings.Contains(out, "-0.20") {
		t.Errorf("expected eval in inline output, got %q", out)
	}
	if !strings.Contains(out, "#") || !strings.Contains(out, "-") {
		t.Errorf("expected bar glyphs in inline output, got %q", out)
	}
}

// =============================================================================
// BADGE TESTS
// =============================================================================

func TestLabelBadgeRender(t *testing.T) {
	badge := NewLabelBadge(label.Brilliant, 4.71)
	out := badge.Render()
	if !strings.Contains(out, "!!") {
		t.Errorf("expected glyph in badge, got %q", out)
	}
	if !strings.Contains(out, "Brilliant") {
		t.Errorf("expected name in badge, got %q", out)
	}
	if !strings.Contains(out, "4.7") {
		t.Errorf("expected score in badge, got %q", out)
	}
}

func TestLabelBadgeWithoutScore(t *testing.T) {
	badge := NewLabelBadge(label.Blunder, 1.2)
	badge.ShowScore = false
	out := badge.Render()
	if strings.Contains(out, "1.2") {
		t.Errorf("expected no score in badge, got %q", out)
	}
}

// =============================================================================
// BUBBLE TESTS
// =============================================================================

func TestMessageBubbleSides(t *testing.T) {
	theme := styles.NewTheme("dark")

	self := model.NewMessage(model.SideSelf, "want to grab dinner friday?")
	ann := &review.Annotation{
		MessageID: self.ID,
		Label:     label.Best,
		Score:     4.6,
	}
	bubble := NewMessageBubble(self, ann, theme)
	bubble.SetWidth(60)
	out := bubble.View()
	if !strings.Contains(out, "dinner") {
		t.Errorf("expected message text in bubble")
	}
	if !strings.Contains(out, "Best") {
		t.Errorf("expected label badge in header")
	}
	if !strings.Contains(out, "You") {
		t.Errorf("expected side display name in header")
	}

	other := model.NewMessage(model.SideOther, "sure, sounds fun")
	bubble = NewMessageBubble(other, nil, theme)
	bubble.SetWidth(60)
	if !strings.Contains(bubble.View(), "Them") {
		t.Errorf("expected other side display name")
	}
}

func TestMessageBubbleSpeakerOverride(t *testing.T) {
	theme := styles.NewTheme("dark")
	msg := model.NewMessage(model.SideOther, "hi")
	bubble := NewMessageBubble(msg, nil, theme)
	bubble.SpeakerName = "Alex"
	if !strings.Contains(bubble.View(), "Alex") {
		t.Errorf("expected speaker name override in header")
	}
}

func TestMessageBubbleNilMessage(t *testing.T) {
	theme := styles.NewTheme("dark")
	bubble := NewMessageBubble(nil, nil, theme)
	// Must not panic, renders a placeholder.
	if bubble.View() == "" {
		t.Error("expected non-empty placeholder rendering")
	}
}

// =============================================================================
// HELPER TESTS
// =============================================================================

func TestWordWrap(t *testing.T) {
	out := wordWrap("the quick brown fox jumps over the lazy dog", 10)
	for _, line := range strings.Split(out, "\n") {
		if len([]rune(line)) > 10 {
			t.Errorf("line exceeds width: %q", line)
		}
	}
}

func TestWordWrapPreservesNewlines(t *testing.T) {
	out := wordWrap("one\ntwo", 20)
	if out != "one\ntwo" {
		t.Errorf("expected newlines preserved, got %q", out)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello world", 5); len([]rune(got)) > 5 {
		t.Errorf("truncate too long: %q", got)
	}
	if got := truncate("hi", 10); got != "hi" {
		t.Errorf("short string should pass through, got %q", got)
	}
}

func TestRenderBodyPlainText(t *testing.T) {
	if got := RenderBody("no code here", 40); got != "no code here" {
		t.Errorf("plain text should pass through, got %q", got)
	}
}

func TestRenderBodyFencedCode(t *testing.T) {
	body := "check this out\n```go\nfmt.Println(\"hi\")\n```\nneat right"
	out := RenderBody(body, 60)
	if !strings.Contains(out, "check this out") || !strings.Contains(out, "neat right") {
		t.Error("surrounding text should survive")
	}
	if !strings.Contains(out, "Println") {
		t.Error("code content should survive highlighting")
	}
}
