// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package rubric

import (
	"testing"
	"time"

	"github.com/jeranaias/convolens/internal/model"
)

func msgAt(side model.Side, text string, at time.Time) *model.Message {
	m := model.NewMessage(side, text)
	m.Timestamp = at
	return m
}

// TestEstimate_Deterministic verifies the same input yields the same rubric.
func TestEstimate_Deterministic(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	prev := msgAt(model.SideOther, "how was the concert last night?", base)
	msg := msgAt(model.SideSelf, "the concert was amazing! you would have loved the encore", base.Add(2*time.Minute))

	a := Estimate(msg, prev)
	b := Estimate(msg, prev)
	if *a != *b {
		t.Errorf("Estimate not deterministic: %+v vs %+v", a, b)
	}
}

// TestEstimate_EngagedReply checks a prompt, on-topic, warm reply scores
// well across the board.
func TestEstimate_EngagedReply(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	prev := msgAt(model.SideOther, "how was the concert last night?", base)
	msg := msgAt(model.SideSelf, "the concert was amazing! how was your weekend?", base.Add(2*time.Minute))

	r := Estimate(msg, prev)

	if r.Timeliness != 5 {
		t.Errorf("Timeliness = %d, want 5 for a 2 minute reply", r.Timeliness)
	}
	if r.Contextuality < 4 {
		t.Errorf("Contextuality = %d, want >= 4 for echoing the topic", r.Contextuality)
	}
	if r.Interestingness < 4 {
		t.Errorf("Interestingness = %d, want >= 4 for a question back", r.Interestingness)
	}
	if r.Appropriateness != 5 {
		t.Errorf("Appropriateness = %d, want 5", r.Appropriateness)
	}
	if r.Average() < 4.0 {
		t.Errorf("Average = %v, want >= 4.0 for an engaged reply", r.Average())
	}
}

// TestEstimate_DeadEndReply checks bare acknowledgements score low on
// interestingness and contextuality.
func TestEstimate_DeadEndReply(t *testing.T) {
	base := time.Now()
	prev := msgAt(model.SideOther, "i got the job offer today, still shaking", base)
	msg := msgAt(model.SideSelf, "ok", base.Add(time.Minute))

	r := Estimate(msg, prev)
	if r.Interestingness > 2 {
		t.Errorf("Interestingness = %d, want <= 2 for %q", r.Interestingness, "ok")
	}
	if r.Contextuality > 2 {
		t.Errorf("Contextuality = %d, want <= 2 for ignoring the news", r.Contextuality)
	}
}

// TestEstimate_HostileIsHardBlunder checks the appropriateness gate.
func TestEstimate_HostileIsHardBlunder(t *testing.T) {
	msg := model.NewMessage(model.SideSelf, "you are such an idiot honestly")
	r := Estimate(msg, nil)

	if r.Appropriateness != 1 {
		t.Fatalf("Appropriateness = %d, want 1", r.Appropriateness)
	}
	if r.Average() != 0 {
		t.Errorf("Average = %v, want 0 (hard blunder)", r.Average())
	}
}

// TestScoreTimeliness tests the reply-delay bands.
func TestScoreTimeliness(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	prev := msgAt(model.SideOther, "hello?", base)

	tests := []struct {
		name string
		gap  time.Duration
		want int
	}{
		{name: "instant", gap: time.Minute, want: 5},
		{name: "within_hour", gap: 30 * time.Minute, want: 4},
		{name: "same_afternoon", gap: 3 * time.Hour, want: 3},
		{name: "next_morning", gap: 20 * time.Hour, want: 2},
		{name: "left_on_read", gap: 3 * 24 * time.Hour, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := msgAt(model.SideSelf, "sorry, busy day", base.Add(tt.gap))
			if got := scoreTimeliness(msg, prev); got != tt.want {
				t.Errorf("gap %v: timeliness = %d, want %d", tt.gap, got, tt.want)
			}
		})
	}

	// No timestamps: neutral
	bare := model.Message{Text: "hey"}
	barePrev := model.Message{Text: "hi"}
	if got := scoreTimeliness(&bare, &barePrev); got != 3 {
		t.Errorf("missing timestamps: timeliness = %d, want 3", got)
	}
	// Opener: neutral
	if got := scoreTimeliness(msgAt(model.SideSelf, "hey", base), nil); got != 3 {
		t.Errorf("opener: timeliness = %d, want 3", got)
	}
}

// TestScoreRepetitiveness tests the lexical-variety bands.
func TestScoreRepetitiveness(t *testing.T) {
	if got := scoreRepetitiveness(tokens("no no no no no no no no")); got > 2 {
		t.Errorf("grinding repetition scored %d, want <= 2", got)
	}
	if got := scoreRepetitiveness(tokens("we should try that new ramen place on friday")); got != 5 {
		t.Errorf("varied sentence scored %d, want 5", got)
	}
	if got := scoreRepetitiveness(tokens("ok")); got != 5 {
		t.Errorf("short message scored %d, want 5 (too short to repeat)", got)
	}
}

// TestScoreNaturalness tests the shouting penalty.
func TestScoreNaturalness(t *testing.T) {
	caps := scoreNaturalness("WHY WOULD YOU DO THAT", tokens("WHY WOULD YOU DO THAT"))
	if caps != 2 {
		t.Errorf("all caps scored %d, want 2", caps)
	}
	normal := scoreNaturalness("haha fair enough", tokens("haha fair enough"))
	if normal < 4 {
		t.Errorf("casual text scored %d, want >= 4", normal)
	}
}

// TestNormalize tests NFC and whitespace folding.
func TestNormalize(t *testing.T) {
	// "café" with decomposed accent
	decomposed := "café   time"
	if got := Normalize(decomposed); got != "café time" {
		t.Errorf("Normalize = %q, want %q", got, "café time")
	}
}

// TestTokens tests punctuation stripping.
func TestTokens(t *testing.T) {
	got := tokens("Well... that was (kinda) fun!?")
	want := []string{"well", "that", "was", "kinda", "fun"}
	if len(got) != len(want) {
		t.Fatalf("tokens = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tokens[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
