// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package review

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/convolens/internal/label"
	"github.com/jeranaias/convolens/internal/model"
)

// uniformRubric returns a complete rubric with every category at score.
func uniformRubric(score int) *model.Rubric {
	r := &model.Rubric{}
	for _, c := range model.Categories() {
		r.Set(c, score)
	}
	return r
}

func addScored(conv *model.Conversation, side model.Side, text string, score int) *model.Message {
	msg := model.NewMessage(side, text)
	msg.Rubric = uniformRubric(score)
	conv.AddMessage(msg)
	return msg
}

func TestReview_EmptyConversation(t *testing.T) {
	engine := NewDefaultEngine()

	_, err := engine.Review(model.NewConversation())
	if !errors.Is(err, ErrEmptyConversation) {
		t.Errorf("err = %v, want ErrEmptyConversation", err)
	}
	_, err = engine.Review(nil)
	if !errors.Is(err, ErrEmptyConversation) {
		t.Errorf("nil conversation err = %v, want ErrEmptyConversation", err)
	}
}

func TestReview_ManualRubricsRespected(t *testing.T) {
	conv := model.NewConversation()
	addScored(conv, model.SideSelf, "thoughtful opener", 4)

	report, err := NewDefaultEngine().Review(conv)
	require.NoError(t, err)
	require.Len(t, report.Annotations, 1)

	ann := report.Annotations[0]
	require.False(t, ann.Estimated, "manual rubric should not be re-estimated")
	require.Equal(t, 4.0, ann.Score)
	require.Equal(t, label.Good, ann.Label)
}

func TestReview_EstimatesUnlabelled(t *testing.T) {
	conv := model.NewConversation()
	conv.AddSelfMessage("hey, how was the show last night?")

	report, err := NewDefaultEngine().Review(conv)
	require.NoError(t, err)
	require.True(t, report.Annotations[0].Estimated)
	require.NotNil(t, report.Annotations[0].Rubric)
}

func TestReview_RecoverySequence(t *testing.T) {
	conv := model.NewConversation()
	addScored(conv, model.SideSelf, "ugh whatever", 2)             // blunder
	addScored(conv, model.SideOther, "hey, talk to me properly", 4) // recovery position -> Great

	report, err := NewDefaultEngine().Review(conv)
	require.NoError(t, err)

	require.Equal(t, label.Blunder, report.Annotations[0].Label)
	require.Equal(t, label.Great, report.Annotations[1].Label,
		"a strong reply after a sub-3.0 message should be Great")
}

func TestReview_BrilliantSacrifice(t *testing.T) {
	conv := model.NewConversation()
	msg := model.NewMessage(model.SideSelf, "honestly? i've liked you for months")
	msg.Sacrifice = true
	msg.Rubric = uniformRubric(5)
	conv.AddMessage(msg)

	report, err := NewDefaultEngine().Review(conv)
	require.NoError(t, err)
	require.Equal(t, label.Brilliant, report.Annotations[0].Label)
	require.Contains(t, report.Annotations[0].Explanation, "sacrifice")
}

func TestReview_EvalBar(t *testing.T) {
	conv := model.NewConversation()
	addScored(conv, model.SideSelf, "great message", 5)
	addScored(conv, model.SideSelf, "another great one", 5)

	report, err := NewDefaultEngine().Review(conv)
	require.NoError(t, err)

	series := report.EvalSeries()
	require.Len(t, series, 2)
	require.Greater(t, series[0], 0.0, "high-scoring self message should push eval positive")
	require.Greater(t, series[1], series[0], "consecutive strong plies should build the eval")
	require.LessOrEqual(t, report.FinalEval, 1.0)

	// The mirror conversation produces the mirrored eval.
	mirror := model.NewConversation()
	addScored(mirror, model.SideOther, "great message", 5)
	addScored(mirror, model.SideOther, "another great one", 5)

	mirrorReport, err := NewDefaultEngine().Review(mirror)
	require.NoError(t, err)
	require.InDelta(t, -report.FinalEval, mirrorReport.FinalEval, 1e-9)
}

func TestReview_EvalClamped(t *testing.T) {
	conv := model.NewConversation()
	for i := 0; i < 50; i++ {
		addScored(conv, model.SideSelf, "flawless", 5)
	}
	report, err := NewDefaultEngine().Review(conv)
	require.NoError(t, err)
	for _, eval := range report.EvalSeries() {
		require.LessOrEqual(t, eval, 1.0)
		require.GreaterOrEqual(t, eval, -1.0)
	}
}

func TestReview_SideSummaries(t *testing.T) {
	conv := model.NewConversation()
	conv.SelfName = "Sam"
	conv.OtherName = "Alex"
	addScored(conv, model.SideSelf, "one", 4)
	addScored(conv, model.SideOther, "two", 2)
	addScored(conv, model.SideSelf, "three", 4)

	report, err := NewDefaultEngine().Review(conv)
	require.NoError(t, err)

	require.Equal(t, "Sam", report.Self.Name)
	require.Equal(t, 2, report.Self.Messages)
	require.Equal(t, 4.0, report.Self.AvgScore)
	require.Equal(t, 80.0, report.Self.Accuracy)
	// msg three follows a sub-3.0 message: Great, not Good
	require.Equal(t, map[string]int{"good": 1, "great": 1}, report.Self.Labels)

	require.Equal(t, 1, report.Other.Messages)
	require.Equal(t, 40.0, report.Other.Accuracy)
	require.Equal(t, map[string]int{"blunder": 1}, report.Other.Labels)
}

func TestReport_AnnotationFor(t *testing.T) {
	conv := model.NewConversation()
	msg := addScored(conv, model.SideSelf, "findable", 4)

	report, err := NewDefaultEngine().Review(conv)
	require.NoError(t, err)

	require.NotNil(t, report.AnnotationFor(msg.ID))
	require.Nil(t, report.AnnotationFor("msg_missing"))
}

// =============================================================================
// EXPLAINER TESTS
// =============================================================================

func TestExplain(t *testing.T) {
	tests := []struct {
		name      string
		label     label.Label
		rubric    *model.Rubric
		prevAvg   float64
		sacrifice bool
		contains  string
	}{
		{
			name:     "inappropriate_blunder",
			label:    label.Blunder,
			rubric:   &model.Rubric{Appropriateness: 1},
			prevAvg:  label.NoPrev,
			contains: "tone crosses the line",
		},
		{
			name:      "brilliant_mentions_sacrifice",
			label:     label.Brilliant,
			rubric:    uniformRubric(5),
			prevAvg:   label.NoPrev,
			sacrifice: true,
			contains:  "sacrifice",
		},
		{
			name:     "great_mentions_position",
			label:    label.Great,
			rubric:   uniformRubric(4),
			prevAvg:  2.0,
			contains: "dipped",
		},
		{
			name:     "miss_mentions_moment",
			label:    label.Miss,
			rubric:   uniformRubric(3),
			prevAvg:  2.0,
			contains: "slip",
		},
		{
			name:    "ladder_names_weakest_category",
			label:   label.Mistake,
			rubric:  &model.Rubric{Understandability: 4, Timeliness: 2, Naturalness: 3},
			prevAvg: label.NoPrev,
			contains: "timeliness",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Explain(label.DefaultThresholds(), tt.label, tt.rubric, tt.prevAvg, tt.sacrifice)
			if !strings.Contains(got, tt.contains) {
				t.Errorf("Explain() = %q, want it to contain %q", got, tt.contains)
			}
		})
	}
}

func TestReview_RecoveryComparesRoundedScore(t *testing.T) {
	// Six 3s and a 2 average 20/7 = 2.857..., which rounds to 2.86.
	// With the cutoff at exactly 2.86 the rounded score decides: the
	// follow-up sits in an ordinary position, not a recovery.
	th := label.DefaultThresholds()
	th.Recovery = 2.86

	conv := model.NewConversation()
	first := model.NewMessage(model.SideSelf, "eh, fine I guess")
	first.Rubric = uniformRubric(3)
	first.Rubric.Set(model.CategoryRepetitiveness, 2)
	conv.AddMessage(first)
	addScored(conv, model.SideOther, "come on, tell me about it", 4)

	report, err := NewEngine(th).Review(conv)
	require.NoError(t, err)
	require.Equal(t, 2.86, report.Annotations[0].Score)
	require.Equal(t, label.Good, report.Annotations[1].Label,
		"a 2.86 previous ply is not below a 2.86 recovery cutoff")
}

func TestExplainUsesConfiguredRecovery(t *testing.T) {
	// A previous ply at 3.2 is a losing position only under the raised
	// cutoff, so the wording must follow the thresholds, not defaults.
	th := label.DefaultThresholds()
	th.Recovery = 3.5

	r := uniformRubric(2)
	raised := Explain(th, label.Blunder, r, 3.2, false)
	if !strings.Contains(raised, "already losing") {
		t.Errorf("raised cutoff: got %q, want recovery wording", raised)
	}

	stock := Explain(label.DefaultThresholds(), label.Blunder, r, 3.2, false)
	if strings.Contains(stock, "already losing") {
		t.Errorf("default cutoff: got %q, want ladder wording", stock)
	}
}

func TestTrimFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{4.5, "4.5"},
		{4.0, "4"},
		{4.33, "4.33"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := trimFloat(tt.in); got != tt.want {
			t.Errorf("trimFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
