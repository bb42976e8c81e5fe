// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration management for
// convolens.
//
// Configuration lives in ~/.convolens/config.toml (TOML preferred,
// JSON fallback). Every field has a default, so a missing config file
// is never an error. Values can be read and written by dot-notation
// key through Get/Set, which backs the `convolens config` commands.
//
// The labeller and rating sections are bridged to their engines via
// Thresholds() and RatingParams().
package config
