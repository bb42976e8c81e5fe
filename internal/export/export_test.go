// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/convolens/internal/model"
	"github.com/jeranaias/convolens/internal/review"
	"github.com/jeranaias/convolens/internal/storage"
)

func reviewedConversation() *storage.StoredConversation {
	return &storage.StoredConversation{
		ID:        "conv_export",
		Title:     "Dinner plans",
		CreatedAt: time.Date(2025, 3, 14, 19, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 3, 14, 19, 10, 0, 0, time.UTC),
		Messages: []storage.StoredMessage{
			{
				ID: "msg_1", Side: model.SideOther, Text: "want to grab dinner this weekend?",
				Timestamp: time.Date(2025, 3, 14, 19, 0, 0, 0, time.UTC),
				Label:     "good", Score: 4.0, Explanation: "solid and safe.", Eval: -0.18,
			},
			{
				ID: "msg_2", Side: model.SideSelf, Text: "yes! the new ramen place?",
				Timestamp: time.Date(2025, 3, 14, 19, 2, 0, 0, time.UTC),
				Label:     "excellent", Score: 4.4, Explanation: "strong move.", Eval: 0.05,
			},
		},
		Reviewed:   true,
		ReviewedAt: time.Date(2025, 3, 14, 19, 10, 0, 0, time.UTC),
		FinalEval:  0.05,
		Self:       &review.SideSummary{Side: model.SideSelf, Name: "You", Messages: 1, AvgScore: 4.4, Accuracy: 88},
		Other:      &review.SideSummary{Side: model.SideOther, Name: "Them", Messages: 1, AvgScore: 4.0, Accuracy: 80},
	}
}

func TestMarkdownExport(t *testing.T) {
	out, err := NewMarkdownExporter(nil).Export(reviewedConversation())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	md := string(out)

	for _, want := range []string{
		"# Dinner plans",
		"## Game Summary",
		"**Excellent**",
		"4.4/5",
		"want to grab dinner this weekend?",
		"strong move.",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestMarkdownExportEmptyConversation(t *testing.T) {
	_, err := NewMarkdownExporter(nil).Export(&storage.StoredConversation{})
	if err == nil {
		t.Error("empty conversation should not export")
	}
}

func TestHTMLExport(t *testing.T) {
	out, err := NewHTMLExporter(nil).Export(reviewedConversation())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	html := string(out)

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Dinner plans</title>",
		"badge-excellent",
		"eval-bar",
		"class=\"self-message\"",
		"class=\"other-message\"",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestHTMLEscapesText(t *testing.T) {
	conv := reviewedConversation()
	conv.Messages[0].Text = "<script>alert(1)</script>"

	out, err := NewHTMLExporter(nil).Export(conv)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if strings.Contains(string(out), "<script>alert") {
		t.Error("message text should be HTML-escaped")
	}
}

func TestJSONExportRoundTrip(t *testing.T) {
	out, err := NewJSONExporter().Export(reviewedConversation())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	var back storage.StoredConversation
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.ID != "conv_export" || len(back.Messages) != 2 {
		t.Errorf("round trip lost data: %+v", back)
	}
	if back.Messages[1].Label != "excellent" {
		t.Errorf("label = %q, want excellent", back.Messages[1].Label)
	}
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.OutputDir = dir
	opts.OpenAfterExport = false

	path, err := ExportToFile(reviewedConversation(), NewMarkdownExporter(opts), opts)
	if err != nil {
		t.Fatalf("ExportToFile: %v", err)
	}
	if !strings.HasSuffix(path, ".md") {
		t.Errorf("path = %q, want .md suffix", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("exported file missing: %v", err)
	}
	if !strings.Contains(path, "Dinner_plans") {
		t.Errorf("filename should carry sanitized title: %q", path)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Dinner plans", "Dinner_plans"},
		{"a/b\\c:d", "a-b-c-d"},
		{"", "conversation"},
	}

	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
