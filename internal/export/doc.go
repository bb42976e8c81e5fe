// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders reviewed conversations to Markdown, HTML, and
// JSON, with label badges, scores, and the final evaluation.
package export
