// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists conversations and their reviews as JSON files,
// one file per conversation, with atomic writes and optional at-rest
// encryption.
package storage
