// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the
// convolens review TUI: message bubbles with label badges, the
// vertical evaluation bar, and chroma-highlighted code blocks.
package components
