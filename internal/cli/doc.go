// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the convolens command-line interface: argument
// parsing, transcript loading, and the handlers behind every command.
//
// The package is deliberately thin. Handlers parse flags, wire the
// domain packages together (review, suggest, rating, dataset, collect,
// storage, export), and format output; the domain logic lives in those
// packages. All handlers return errors instead of exiting so main can
// map them to exit codes in one place.
package cli
