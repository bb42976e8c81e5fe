// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dataset accumulates labelled messages into a SQLite corpus
// with full-text search, working toward a fixed collection target.
// Files can be imported directly or dropped into a watched inbox.
package dataset
