// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"
)

// TestTruncateRunes tests UTF-8 safe truncation.
func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{name: "short_string_unchanged", input: "hey", max: 10, expected: "hey"},
		{name: "exact_length_unchanged", input: "hello", max: 5, expected: "hello"},
		{name: "truncated_with_ellipsis", input: "hello world", max: 8, expected: "hello..."},
		{name: "zero_max", input: "hello", max: 0, expected: ""},
		{name: "tiny_max_no_ellipsis", input: "hello", max: 2, expected: "he"},
		{name: "emoji_not_split", input: "👍👍👍👍", max: 2, expected: "👍👍"},
		{name: "cjk_not_split", input: "日本語テキスト", max: 5, expected: "日本..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateRunes(tt.input, tt.max)
			if got != tt.expected {
				t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.expected)
			}
		})
	}
}

// TestTruncateWidth tests display-width aware truncation.
func TestTruncateWidth(t *testing.T) {
	// CJK characters are 2 columns wide
	got := TruncateWidth("日本語テキスト", 7)
	if StringWidth(got) > 7 {
		t.Errorf("TruncateWidth produced width %d, want <= 7", StringWidth(got))
	}

	if TruncateWidth("abc", 10) != "abc" {
		t.Error("short string should be unchanged")
	}
	if TruncateWidth("abc", 0) != "" {
		t.Error("zero width should return empty string")
	}
}

// TestPadRight tests width-aware padding.
func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 5); got != "ab   " {
		t.Errorf("PadRight = %q, want %q", got, "ab   ")
	}
	// Already at width: unchanged
	if got := PadRight("abcde", 5); got != "abcde" {
		t.Errorf("PadRight = %q, want %q", got, "abcde")
	}
}

// TestCollapseSpace tests whitespace collapsing for previews.
func TestCollapseSpace(t *testing.T) {
	if got := CollapseSpace("  hey\n\nthere\tyou  "); got != "hey there you" {
		t.Errorf("CollapseSpace = %q", got)
	}
}

// TestAtomicWriteFile tests that atomic writes produce complete files
// and replace existing content.
func TestAtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "state.json")

	// Creates parent directories
	if err := AtomicWriteFile(path, []byte(`{"v":1}`), 0644); err != nil {
		t.Fatalf("AtomicWriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != `{"v":1}` {
		t.Errorf("content = %q", data)
	}

	// Replaces existing content atomically
	if err := AtomicWriteFile(path, []byte(`{"v":2}`), 0644); err != nil {
		t.Fatalf("AtomicWriteFile overwrite: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != `{"v":2}` {
		t.Errorf("content after overwrite = %q", data)
	}

	// No temp files left behind
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected 1 file in dir, found %d", len(entries))
	}
}
