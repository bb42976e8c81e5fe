// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package rubric estimates per-category quality scores for unlabelled
// messages using text-shape heuristics.
//
// Manual rubrics from the labelling pipeline always take precedence;
// this package only fills the gap for raw transcripts so the review
// engine can annotate anything. The heuristics examine the same seven
// dimensions human labellers score: understandability, interestingness,
// contextuality, naturalness, timeliness, repetitiveness, and
// appropriateness.
//
// # Usage
//
//	r := rubric.Estimate(msg, prevMsg)
//	avg := r.Average()
//
// Estimation is deterministic: the same message pair always yields the
// same rubric, which keeps reviews reproducible.
package rubric
