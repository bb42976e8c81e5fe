// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// RUBRIC: Heuristic per-category scoring for unlabelled messages
package rubric

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/convolens/internal/model"
)

// ============================================================================
// TEXT PREPARATION
// ============================================================================

// Normalize canonicalizes message text for analysis: NFC normalization
// and whitespace folding. Screenshot-derived transcripts arrive with
// decomposed accents and irregular spacing.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// tokens splits normalized text into lowercase word tokens, stripping
// punctuation from the edges.
func tokens(s string) []string {
	fields := strings.Fields(strings.ToLower(Normalize(s)))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// ============================================================================
// ESTIMATION
// ============================================================================

// Estimate derives a rubric for a message from text-shape heuristics.
// prev is the preceding message in the conversation, or nil for the
// opening message. The result is deterministic for a given input.
//
// These heuristics stand in for the trained labelling model and favor
// the same signals human labellers scored: reply shape, engagement,
// reference to context, tone, response delay, repetition, and civility.
func Estimate(msg, prev *model.Message) *model.Rubric {
	r := &model.Rubric{}
	toks := tokens(msg.Text)
	var prevToks []string
	if prev != nil {
		prevToks = tokens(prev.Text)
	}

	r.Understandability = scoreUnderstandability(msg.Text, toks)
	r.Interestingness = scoreInterestingness(msg.Text, toks)
	r.Contextuality = scoreContextuality(toks, prevToks)
	r.Naturalness = scoreNaturalness(msg.Text, toks)
	r.Timeliness = scoreTimeliness(msg, prev)
	r.Repetitiveness = scoreRepetitiveness(toks)
	r.Appropriateness = scoreAppropriateness(msg.Text, toks)

	return r
}

// ============================================================================
// CATEGORY HEURISTICS
// ============================================================================

// scoreUnderstandability checks that the message parses as readable
// language: reasonable word lengths, some letters, not a wall of text.
func scoreUnderstandability(text string, toks []string) int {
	if len(toks) == 0 {
		return 1 // empty or pure punctuation
	}

	letters, others := 0, 0
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsSpace(r):
			letters++
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			others++
		}
	}
	// Mostly symbols reads as keyboard mash
	if others > letters {
		return 2
	}

	// Very long average token length suggests run-together words
	total := 0
	for _, t := range toks {
		total += len([]rune(t))
	}
	if total/len(toks) > 12 {
		return 2
	}

	// Walls of text are hard to follow
	if len(toks) > 120 {
		return 3
	}
	return 5
}

// scoreInterestingness rewards questions, enthusiasm, and substance;
// bare acknowledgements score low.
func scoreInterestingness(text string, toks []string) int {
	// Dead-end acknowledgements
	flat := map[string]bool{
		"ok": true, "okay": true, "k": true, "kk": true,
		"lol": true, "lmao": true, "haha": true, "yeah": true,
		"ya": true, "yep": true, "nope": true, "sure": true,
		"cool": true, "nice": true, "fine": true,
	}
	if len(toks) <= 2 {
		allFlat := true
		for _, t := range toks {
			if !flat[t] {
				allFlat = false
				break
			}
		}
		if allFlat {
			return 2
		}
	}

	score := 3
	if strings.Contains(text, "?") {
		score++ // invites a reply
	}
	if strings.Contains(text, "!") || len(toks) >= 12 {
		score++ // energy or substance
	}
	if score > 5 {
		score = 5
	}
	return score
}

// scoreContextuality measures engagement with the previous message via
// token overlap. Openers default to neutral.
func scoreContextuality(toks, prevToks []string) int {
	if len(prevToks) == 0 {
		return 3
	}
	if len(toks) == 0 {
		return 1
	}

	prevSet := make(map[string]bool, len(prevToks))
	for _, t := range prevToks {
		if len(t) >= 3 { // skip glue words
			prevSet[t] = true
		}
	}
	if len(prevSet) == 0 {
		return 3
	}

	overlap := 0
	for _, t := range toks {
		if prevSet[t] {
			overlap++
		}
	}

	switch {
	case overlap >= 3:
		return 5
	case overlap == 2:
		return 4
	case overlap == 1:
		return 4
	default:
		return 2 // ignores what was said
	}
}

// scoreNaturalness penalizes shouting and stilted, run-on prose.
func scoreNaturalness(text string, toks []string) int {
	upper, lower := 0, 0
	for _, r := range text {
		if unicode.IsUpper(r) {
			upper++
		} else if unicode.IsLower(r) {
			lower++
		}
	}
	// ALL CAPS reads as shouting
	if upper > 3 && upper > lower*2 {
		return 2
	}

	// A single unbroken sentence of 40+ words reads as a speech
	if len(toks) >= 40 && !strings.ContainsAny(text, ".!?\n") {
		return 3
	}
	return 4
}

// scoreTimeliness scores the reply delay from timestamp gaps.
// Conversations without timestamps score neutral.
func scoreTimeliness(msg, prev *model.Message) int {
	if prev == nil || msg.Timestamp.IsZero() || prev.Timestamp.IsZero() {
		return 3
	}
	gap := msg.Timestamp.Sub(prev.Timestamp)
	if gap < 0 {
		return 3 // out-of-order import, don't punish
	}
	switch {
	case gap <= 5*time.Minute:
		return 5
	case gap <= time.Hour:
		return 4
	case gap <= 6*time.Hour:
		return 3
	case gap <= 24*time.Hour:
		return 2
	default:
		return 1 // left on read
	}
}

// scoreRepetitiveness rewards lexical variety within the message.
// Higher is better: 5 means no grinding repetition.
func scoreRepetitiveness(toks []string) int {
	if len(toks) <= 3 {
		return 5 // too short to repeat
	}
	seen := make(map[string]int, len(toks))
	for _, t := range toks {
		seen[t]++
	}
	unique := float64(len(seen)) / float64(len(toks))
	switch {
	case unique >= 0.8:
		return 5
	case unique >= 0.6:
		return 4
	case unique >= 0.4:
		return 3
	default:
		return 2
	}
}

// hostileWords flags the disqualifying tone markers. Deliberately short:
// false positives force an unjust hard blunder, false negatives only
// cost a few tenths of average.
var hostileWords = []string{
	"idiot", "stupid", "shut up", "hate you", "loser", "pathetic",
	"worthless", "screw you",
}

// scoreAppropriateness gates on tone. Hostile content scores 1, which
// the rubric average treats as a hard blunder.
func scoreAppropriateness(text string, toks []string) int {
	lowered := strings.ToLower(Normalize(text))
	for _, w := range hostileWords {
		if strings.Contains(lowered, w) {
			return 1
		}
	}

	// Shouting plus exclamation stacking is aggressive, not disqualifying
	upper := 0
	for _, r := range text {
		if unicode.IsUpper(r) {
			upper++
		}
	}
	if upper > 5 && strings.Contains(text, "!!") {
		return 3
	}
	return 5
}
