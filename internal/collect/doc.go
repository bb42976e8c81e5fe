// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package collect downloads conversation screenshots from a community
// listing for later labelling. A persistent state file of post IDs and
// content hashes keeps reruns from downloading anything twice.
package collect
