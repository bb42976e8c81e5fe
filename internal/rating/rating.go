// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package rating implements the Elo-like rating system for conversation
// participants.
package rating

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/convolens/internal/model"
	"github.com/jeranaias/convolens/internal/review"
)

// =============================================================================
// PARAMETERS
// =============================================================================

// Params holds the Elo update parameters.
type Params struct {
	// K is the rating volatility for established players.
	K float64
	// ProvisionalK applies while a player has fewer than
	// ProvisionalGames rated conversations, letting new ratings
	// converge quickly.
	ProvisionalK     float64
	ProvisionalGames int
	// Floor is the minimum rating; nobody drops below it.
	Floor float64
	// Initial is the rating assigned to new players.
	Initial float64
}

// DefaultParams returns the standard rating parameters.
func DefaultParams() Params {
	return Params{
		K:                32,
		ProvisionalK:     64,
		ProvisionalGames: 10,
		Floor:            100,
		Initial:          1200,
	}
}

// =============================================================================
// PLAYER
// =============================================================================

// Player is a rated conversation participant.
type Player struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Rating  float64   `json:"rating"`
	Peak    float64   `json:"peak"`
	Games   int       `json:"games"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`

	// History holds rated conversations, most recent last.
	History []RatedGame `json:"history,omitempty"`
}

// RatedGame records one rating update.
type RatedGame struct {
	ConversationID string    `json:"conversation_id"`
	OpponentID     string    `json:"opponent_id"`
	OpponentName   string    `json:"opponent_name,omitempty"`
	Outcome        float64   `json:"outcome"` // 0-1 score for this player
	Accuracy       float64   `json:"accuracy"`
	RatingBefore   float64   `json:"rating_before"`
	RatingAfter    float64   `json:"rating_after"`
	PlayedAt       time.Time `json:"played_at"`
}

// NewPlayer creates a player with the initial rating.
func NewPlayer(name string, params Params) *Player {
	now := time.Now()
	return &Player{
		ID:      "player_" + uuid.NewString(),
		Name:    name,
		Rating:  params.Initial,
		Peak:    params.Initial,
		Created: now,
		Updated: now,
	}
}

// IsProvisional reports whether the player is still in the fast-moving
// provisional phase.
func (p *Player) IsProvisional(params Params) bool {
	return p.Games < params.ProvisionalGames
}

// kFactor selects the K to use for this player's next update.
func (p *Player) kFactor(params Params) float64 {
	if p.IsProvisional(params) {
		return params.ProvisionalK
	}
	return params.K
}

// =============================================================================
// ELO MATH
// =============================================================================

// ExpectedScore returns the standard Elo expectation for a player rated
// ra against an opponent rated rb.
func ExpectedScore(ra, rb float64) float64 {
	return 1 / (1 + math.Pow(10, (rb-ra)/400))
}

// OutcomeFromAccuracy maps the two sides' review accuracies (0-100) to
// a game score in [0, 1] for the first side. Equal accuracy is a draw;
// a 100-point sweep is a full win.
func OutcomeFromAccuracy(accA, accB float64) float64 {
	score := 0.5 + (accA-accB)/200
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// =============================================================================
// RATING UPDATES
// =============================================================================

// Update applies one rating change to a player and records the game.
func (p *Player) Update(outcome, accuracy float64, opponent *Player, conversationID string, params Params) {
	expected := ExpectedScore(p.Rating, opponent.Rating)
	k := p.kFactor(params)

	before := p.Rating
	p.Rating += k * (outcome - expected)
	if p.Rating < params.Floor {
		p.Rating = params.Floor
	}
	if p.Rating > p.Peak {
		p.Peak = p.Rating
	}
	p.Games++
	p.Updated = time.Now()
	p.History = append(p.History, RatedGame{
		ConversationID: conversationID,
		OpponentID:     opponent.ID,
		OpponentName:   opponent.Name,
		Outcome:        outcome,
		Accuracy:       accuracy,
		RatingBefore:   before,
		RatingAfter:    p.Rating,
		PlayedAt:       p.Updated,
	})
}

// RateConversation applies a dual rating update from a review report.
// self plays SideSelf of the report, other plays SideOther. Both
// expectations are computed from the pre-update ratings so the exchange
// is symmetric.
func RateConversation(report *review.Report, self, other *Player, params Params) {
	accSelf := report.Summary(model.SideSelf).Accuracy
	accOther := report.Summary(model.SideOther).Accuracy

	outcomeSelf := OutcomeFromAccuracy(accSelf, accOther)
	outcomeOther := 1 - outcomeSelf

	// Snapshot both sides so each update sees pre-game ratings.
	selfBefore := *self
	otherBefore := *other
	self.Update(outcomeSelf, accSelf, &otherBefore, report.ConversationID, params)
	other.Update(outcomeOther, accOther, &selfBefore, report.ConversationID, params)
}
