// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, messages,
// and rubric scores.
package model

// =============================================================================
// RUBRIC CATEGORIES
// =============================================================================

// Category identifies one rubric scoring dimension.
type Category string

const (
	CategoryUnderstandability Category = "understandability"
	CategoryInterestingness   Category = "interestingness"
	CategoryContextuality     Category = "contextuality"
	CategoryNaturalness       Category = "naturalness"
	CategoryTimeliness        Category = "timeliness"
	CategoryRepetitiveness    Category = "repetitiveness"
	CategoryAppropriateness   Category = "appropriateness"
)

// Categories returns all rubric categories in canonical order.
func Categories() []Category {
	return []Category{
		CategoryUnderstandability,
		CategoryInterestingness,
		CategoryContextuality,
		CategoryNaturalness,
		CategoryTimeliness,
		CategoryRepetitiveness,
		CategoryAppropriateness,
	}
}

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// IsValid reports whether the category is one of the known dimensions.
func (c Category) IsValid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// =============================================================================
// RUBRIC TYPE
// =============================================================================

// MinScore and MaxScore bound a single category score. Zero means unset.
const (
	MinScore = 1
	MaxScore = 5
)

// Rubric holds per-category quality scores for a message, each 1-5.
// A zero value means the category was not scored and is skipped when
// averaging, matching the labelling pipeline's handling of missing
// categories.
type Rubric struct {
	Understandability int `json:"understandability,omitempty"`
	Interestingness   int `json:"interestingness,omitempty"`
	Contextuality     int `json:"contextuality,omitempty"`
	Naturalness       int `json:"naturalness,omitempty"`
	Timeliness        int `json:"timeliness,omitempty"`
	Repetitiveness    int `json:"repetitiveness,omitempty"`
	Appropriateness   int `json:"appropriateness,omitempty"`
}

// Get returns the score for a category (0 if unset or unknown).
func (r *Rubric) Get(c Category) int {
	switch c {
	case CategoryUnderstandability:
		return r.Understandability
	case CategoryInterestingness:
		return r.Interestingness
	case CategoryContextuality:
		return r.Contextuality
	case CategoryNaturalness:
		return r.Naturalness
	case CategoryTimeliness:
		return r.Timeliness
	case CategoryRepetitiveness:
		return r.Repetitiveness
	case CategoryAppropriateness:
		return r.Appropriateness
	}
	return 0
}

// Set assigns the score for a category. Out-of-range scores are clamped
// to [MinScore, MaxScore]; zero clears the category.
func (r *Rubric) Set(c Category, score int) {
	if score != 0 {
		if score < MinScore {
			score = MinScore
		}
		if score > MaxScore {
			score = MaxScore
		}
	}
	switch c {
	case CategoryUnderstandability:
		r.Understandability = score
	case CategoryInterestingness:
		r.Interestingness = score
	case CategoryContextuality:
		r.Contextuality = score
	case CategoryNaturalness:
		r.Naturalness = score
	case CategoryTimeliness:
		r.Timeliness = score
	case CategoryRepetitiveness:
		r.Repetitiveness = score
	case CategoryAppropriateness:
		r.Appropriateness = score
	}
}

// Average returns the mean of all set categories.
//
// An appropriateness score of 1 short-circuits to 0: a hard blunder,
// no matter how the message scored elsewhere. Unset categories are
// skipped. An entirely unset rubric averages 0.
func (r *Rubric) Average() float64 {
	if r.Appropriateness == 1 {
		return 0
	}

	sum, n := 0, 0
	for _, c := range Categories() {
		if score := r.Get(c); score != 0 {
			sum += score
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// Weakest returns the lowest-scored set category and its score.
// Returns ("", 0) for an empty rubric. Ties resolve to the earlier
// category in canonical order, which keeps explanations deterministic.
func (r *Rubric) Weakest() (Category, int) {
	var weakest Category
	low := 0
	for _, c := range Categories() {
		score := r.Get(c)
		if score == 0 {
			continue
		}
		if low == 0 || score < low {
			weakest, low = c, score
		}
	}
	return weakest, low
}

// IsEmpty returns true if no category is set.
func (r *Rubric) IsEmpty() bool {
	for _, c := range Categories() {
		if r.Get(c) != 0 {
			return false
		}
	}
	return true
}

// IsComplete returns true if every category is set.
func (r *Rubric) IsComplete() bool {
	for _, c := range Categories() {
		if r.Get(c) == 0 {
			return false
		}
	}
	return true
}

// Clone returns a copy of the rubric.
func (r *Rubric) Clone() *Rubric {
	clone := *r
	return &clone
}
