// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions shared across convolens.
//
// This package contains common helper functions used throughout the
// application for string display, type conversion, and file operations.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe string truncation with ellipsis
//   - TruncateWidth: display-width aware truncation (CJK safe)
//   - PadRight: display-width aware padding for table output
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	// Truncate long message previews safely for display
//	preview := util.TruncateRunes(msg.Text, 50)
//
//	// Write state files atomically to prevent data loss
//	err := util.AtomicWriteFile(path, data, 0644)
package util
