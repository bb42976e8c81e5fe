// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package suggest generates best-move suggestions for weak messages.
package suggest

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/jeranaias/convolens/internal/label"
	"github.com/jeranaias/convolens/internal/model"
	"github.com/jeranaias/convolens/internal/review"
	"github.com/jeranaias/convolens/internal/rubric"
)

// =============================================================================
// SUGGESTION TYPES
// =============================================================================

// Suggestion is one candidate replacement reply, scored as if it had
// been sent in the original position.
type Suggestion struct {
	Text           string      `json:"text"`
	PredictedScore float64     `json:"predicted_score"`
	PredictedLabel label.Label `json:"-"`
	LabelName      string      `json:"predicted_label"`
	Rationale      string      `json:"rationale"`
}

// MoveSuggestions pairs an annotated ply with its ranked alternatives.
type MoveSuggestions struct {
	Index       int          `json:"index"`
	MessageID   string       `json:"message_id"`
	Label       string       `json:"label"`
	Score       float64      `json:"score"`
	Suggestions []Suggestion `json:"suggestions"`
}

// =============================================================================
// GENERATOR
// =============================================================================

// DefaultTopN is the number of suggestions returned per weak message.
const DefaultTopN = 3

// Generator produces ranked reply suggestions.
type Generator struct {
	thresholds label.Thresholds
	topN       int
}

// NewGenerator creates a generator with canonical thresholds.
func NewGenerator() *Generator {
	return &Generator{thresholds: label.DefaultThresholds(), topN: DefaultTopN}
}

// NewGeneratorWithOptions creates a generator with explicit settings.
func NewGeneratorWithOptions(t label.Thresholds, topN int) *Generator {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Generator{thresholds: t, topN: topN}
}

// ForReport returns suggestions for every ply labelled Inaccuracy or
// worse. Good plies get none: there is nothing to improve on a Best.
func (g *Generator) ForReport(conv *model.Conversation, report *review.Report) []MoveSuggestions {
	var out []MoveSuggestions
	for i := range report.Annotations {
		ann := &report.Annotations[i]
		if !ann.Label.IsBad() {
			continue
		}
		suggestions := g.ForMessage(conv, report, ann.Index)
		if len(suggestions) == 0 {
			continue
		}
		out = append(out, MoveSuggestions{
			Index:       ann.Index,
			MessageID:   ann.MessageID,
			Label:       ann.LabelName,
			Score:       ann.Score,
			Suggestions: suggestions,
		})
	}
	return out
}

// ForMessage generates ranked alternatives for the message at index.
// Candidates are scored through the same heuristics the review engine
// uses for unlabelled text, in the same position: same sender, same
// timestamp, same preceding message.
func (g *Generator) ForMessage(conv *model.Conversation, report *review.Report, index int) []Suggestion {
	if index < 0 || index >= len(conv.Messages) {
		return nil
	}
	original := conv.Messages[index]

	var prev *model.Message
	prevAvg := label.NoPrev
	if index > 0 {
		prev = conv.Messages[index-1]
		prevAvg = report.Annotations[index-1].Score
	}

	ann := &report.Annotations[index]
	rationale := rationaleFor(ann.Rubric)

	var suggestions []Suggestion
	for _, text := range candidates(prev) {
		candidate := &model.Message{
			Side:      original.Side,
			Text:      text,
			Timestamp: original.Timestamp,
		}
		r := rubric.Estimate(candidate, prev)
		avg := r.Average()
		l := g.thresholds.Assign(avg, prevAvg, false)

		suggestions = append(suggestions, Suggestion{
			Text:           text,
			PredictedScore: avg,
			PredictedLabel: l,
			LabelName:      l.String(),
			Rationale:      rationale,
		})
	}

	// Rank best-first; ties keep template order for determinism.
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].PredictedScore > suggestions[j].PredictedScore
	})

	if len(suggestions) > g.topN {
		suggestions = suggestions[:g.topN]
	}
	return suggestions
}

// =============================================================================
// CANDIDATE TEMPLATES
// =============================================================================

// candidates builds topical replacement replies. With a previous
// message available the templates echo its topic; openers fall back to
// generic strong moves.
func candidates(prev *model.Message) []string {
	if prev == nil {
		return []string{
			"Hey! How has your week been treating you?",
			"Okay important question: best thing that happened to you today?",
			"I just thought of you! How are things going?",
		}
	}

	topic := topicOf(prev.Text)
	return []string{
		fmt.Sprintf("Honestly the %s sounds great! How did it go?", topic),
		fmt.Sprintf("Wait, tell me more about the %s! I want the full story.", topic),
		fmt.Sprintf("I was actually thinking about the %s! How are you feeling about it?", topic),
		"Sorry, that came out shorter than I meant! Tell me everything.",
	}
}

// topicStopwords are common words that make terrible topics.
var topicStopwords = map[string]bool{
	"about": true, "after": true, "again": true, "because": true,
	"could": true, "doing": true, "going": true, "having": true,
	"really": true, "should": true, "something": true, "thing": true,
	"think": true, "today": true, "tonight": true, "would": true,
	"there": true, "their": true, "where": true, "which": true,
	"right": true, "being": true, "still": true,
}

// topicOf picks the most topic-like token from a message: the longest
// non-stopword of at least four letters. Falls back to "whole thing".
func topicOf(text string) string {
	best := ""
	for _, f := range strings.Fields(strings.ToLower(text)) {
		f = strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if len([]rune(f)) < 4 || topicStopwords[f] {
			continue
		}
		if len(f) > len(best) {
			best = f
		}
	}
	if best == "" {
		return "whole thing"
	}
	return best
}

// =============================================================================
// RATIONALE
// =============================================================================

// rationaleFor turns the original message's weakest rubric category
// into one line of coaching.
func rationaleFor(r *model.Rubric) string {
	if r == nil {
		return "Play a move that keeps the conversation alive."
	}
	weakest, _ := r.Weakest()
	switch weakest {
	case model.CategoryUnderstandability:
		return "Make the point simpler; this one was hard to parse."
	case model.CategoryInterestingness:
		return "Give them something to respond to: a question or a detail."
	case model.CategoryContextuality:
		return "Engage with what they actually said instead of moving past it."
	case model.CategoryNaturalness:
		return "Drop the caps and write like you talk."
	case model.CategoryTimeliness:
		return "The clock hurt this move. A faster reply keeps the thread warm."
	case model.CategoryRepetitiveness:
		return "Vary the wording; the repetition is draining the thread."
	case model.CategoryAppropriateness:
		return "Cool it down before sending. Tone loses games on the spot."
	default:
		return "Play a move that keeps the conversation alive."
	}
}
