// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package review runs game review over a conversation: scoring each
// message, assigning labels, explaining them, and tracking the
// evaluation bar.
package review

import (
	"errors"
	"time"

	"github.com/jeranaias/convolens/internal/label"
	"github.com/jeranaias/convolens/internal/model"
	"github.com/jeranaias/convolens/internal/rubric"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrEmptyConversation is returned when reviewing a conversation with
// no messages.
var ErrEmptyConversation = errors.New("conversation has no messages")

// =============================================================================
// ANNOTATION AND REPORT TYPES
// =============================================================================

// Annotation is the review result for a single message (one ply).
type Annotation struct {
	MessageID string      `json:"message_id"`
	Index     int         `json:"index"`
	Side      model.Side  `json:"side"`
	Text      string      `json:"text"`

	// Scoring
	Score     float64       `json:"score"` // average rubric score, 0-5
	Label     label.Label   `json:"-"`
	LabelName string        `json:"label"` // serialized form of Label
	Rubric    *model.Rubric `json:"rubric,omitempty"`
	Estimated bool          `json:"estimated"` // rubric was heuristic, not manual

	// Explanation is the human-readable reason for the label.
	Explanation string `json:"explanation"`

	// Eval is the running evaluation after this ply, in [-1, 1].
	// Positive favors SideSelf, like White in a chess eval bar.
	Eval float64 `json:"eval"`
}

// SideSummary aggregates review results for one participant.
type SideSummary struct {
	Side     model.Side          `json:"side"`
	Name     string              `json:"name"`
	Messages int                 `json:"messages"`
	AvgScore float64             `json:"avg_score"`
	Accuracy float64             `json:"accuracy"` // 0-100, chess.com style
	Labels   map[string]int      `json:"labels"`   // label name -> count
}

// Report is the complete review of a conversation.
type Report struct {
	ConversationID string       `json:"conversation_id"`
	Title          string       `json:"title"`
	GeneratedAt    time.Time    `json:"generated_at"`
	Annotations    []Annotation `json:"annotations"`
	Self           SideSummary  `json:"self"`
	Other          SideSummary  `json:"other"`
	FinalEval      float64      `json:"final_eval"`
}

// EvalSeries returns the evaluation trajectory, one value per ply.
func (r *Report) EvalSeries() []float64 {
	out := make([]float64, len(r.Annotations))
	for i, a := range r.Annotations {
		out[i] = a.Eval
	}
	return out
}

// Summary returns the side summary for the given side.
func (r *Report) Summary(side model.Side) SideSummary {
	if side == model.SideOther {
		return r.Other
	}
	return r.Self
}

// AnnotationFor returns the annotation for a message ID, or nil.
func (r *Report) AnnotationFor(messageID string) *Annotation {
	for i := range r.Annotations {
		if r.Annotations[i].MessageID == messageID {
			return &r.Annotations[i]
		}
	}
	return nil
}

// =============================================================================
// ENGINE
// =============================================================================

// evalDecay controls how quickly old swings fade from the evaluation
// bar. Each ply keeps this fraction of the prior eval and blends in the
// new message's contribution.
const evalDecay = 0.7

// Engine reviews conversations using configured label thresholds.
type Engine struct {
	thresholds label.Thresholds
}

// NewEngine creates a review engine with the given thresholds.
func NewEngine(t label.Thresholds) *Engine {
	return &Engine{thresholds: t}
}

// NewDefaultEngine creates a review engine with canonical thresholds.
func NewDefaultEngine() *Engine {
	return NewEngine(label.DefaultThresholds())
}

// Review annotates every message of a conversation and aggregates the
// per-side summaries.
//
// Manual rubrics attached to messages are used as-is; unlabelled
// messages get a heuristic estimate. The recovery rules look at the
// previous message's score regardless of which side sent it, matching
// the labelling pipeline.
func (e *Engine) Review(conv *model.Conversation) (*Report, error) {
	if conv == nil || conv.IsEmpty() {
		return nil, ErrEmptyConversation
	}

	report := &Report{
		ConversationID: conv.ID,
		Title:          conv.Title,
		GeneratedAt:    time.Now(),
		Annotations:    make([]Annotation, 0, len(conv.Messages)),
		Self:           newSideSummary(model.SideSelf, conv.SpeakerName(model.SideSelf)),
		Other:          newSideSummary(model.SideOther, conv.SpeakerName(model.SideOther)),
	}

	prevAvg := label.NoPrev
	eval := 0.0

	for i, msg := range conv.Messages {
		var prev *model.Message
		if i > 0 {
			prev = conv.Messages[i-1]
		}

		r := msg.Rubric
		estimated := false
		if r == nil || r.IsEmpty() {
			r = rubric.Estimate(msg, prev)
			estimated = true
		}

		avg := r.Average()
		lbl := e.thresholds.Assign(avg, prevAvg, msg.Sacrifice)
		eval = advanceEval(eval, avg, msg.Side)

		ann := Annotation{
			MessageID:   msg.ID,
			Index:       i,
			Side:        msg.Side,
			Text:        msg.Text,
			Score:       round2(avg),
			Label:       lbl,
			LabelName:   lbl.String(),
			Rubric:      r,
			Estimated:   estimated,
			Explanation: Explain(e.thresholds, lbl, r, prevAvg, msg.Sacrifice),
			Eval:        round2(eval),
		}
		report.Annotations = append(report.Annotations, ann)

		summary := &report.Self
		if msg.Side == model.SideOther {
			summary = &report.Other
		}
		summary.Messages++
		summary.AvgScore += avg
		summary.Labels[lbl.String()]++

		// The recovery check sees the rounded score, same as the one
		// persisted on the annotation.
		prevAvg = round2(avg)
	}

	finalizeSummary(&report.Self)
	finalizeSummary(&report.Other)
	report.FinalEval = round2(eval)

	return report, nil
}

// =============================================================================
// EVALUATION BAR
// =============================================================================

// advanceEval blends one message's contribution into the running eval.
// A message's contribution is its score centered on 2.5 and scaled to
// [-1, 1], signed toward the sender's side.
func advanceEval(eval, avg float64, side model.Side) float64 {
	contribution := (avg - 2.5) / 2.5
	if side == model.SideOther {
		contribution = -contribution
	}
	eval = eval*evalDecay + contribution*(1-evalDecay)
	return clamp(eval, -1, 1)
}

// =============================================================================
// HELPERS
// =============================================================================

func newSideSummary(side model.Side, name string) SideSummary {
	return SideSummary{
		Side:   side,
		Name:   name,
		Labels: make(map[string]int),
	}
}

// finalizeSummary converts the accumulated score sum into averages.
// Accuracy is the mean score rescaled to 0-100.
func finalizeSummary(s *SideSummary) {
	if s.Messages == 0 {
		return
	}
	s.AvgScore = round2(s.AvgScore / float64(s.Messages))
	s.Accuracy = round2(s.AvgScore / 5 * 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// round2 rounds to 2 decimal places for stable serialized output,
// matching the labelling pipeline's rounded average_score.
func round2(v float64) float64 {
	if v < 0 {
		return float64(int(v*100-0.5)) / 100
	}
	return float64(int(v*100+0.5)) / 100
}
