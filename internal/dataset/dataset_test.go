// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jeranaias/convolens/internal/model"
	"github.com/jeranaias/convolens/internal/storage"
)

func testDataset(t *testing.T) *Dataset {
	t.Helper()
	cfg := DefaultConfig(t.TempDir())
	ds, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { ds.Close() })
	return ds
}

func flatRows() []LabelledRow {
	return []LabelledRow{
		{ConversationID: "conv_a", Position: 0, Speaker: "Sam", Text: "want to grab dinner tonight?", Label: "good"},
		{ConversationID: "conv_a", Position: 1, Speaker: "Riley", Text: "yes! the ramen place?", Label: "excellent"},
		{ConversationID: "conv_a", Position: 2, Speaker: "Sam", Text: "k", Label: "inaccuracy"},
		{ConversationID: "conv_b", Position: 0, Speaker: "Riley", Text: "did you see the game last night", Label: "good"},
	}
}

func importRows(t *testing.T, ds *Dataset, rows []LabelledRow, source string) *ImportSummary {
	t.Helper()
	data, err := json.Marshal(rows)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	sum, err := ds.ImportBytes(context.Background(), data, source)
	if err != nil {
		t.Fatalf("ImportBytes: %v", err)
	}
	return sum
}

func TestImportFlatRows(t *testing.T) {
	ds := testDataset(t)

	sum := importRows(t, ds, flatRows(), "test.json")
	if sum.Messages != 4 {
		t.Errorf("messages = %d, want 4", sum.Messages)
	}
	if sum.Conversations != 2 {
		t.Errorf("conversations = %d, want 2", sum.Conversations)
	}

	n, err := ds.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 4 {
		t.Errorf("Count = %d, want 4", n)
	}
}

func TestImportSkipsInvalidLabels(t *testing.T) {
	ds := testDataset(t)

	rows := []LabelledRow{
		{ConversationID: "conv_a", Speaker: "Sam", Text: "hello there", Label: "good"},
		{ConversationID: "conv_a", Speaker: "Sam", Text: "bad label", Label: "checkmate"},
		{ConversationID: "conv_a", Speaker: "Sam", Text: "", Label: "good"},
	}
	sum := importRows(t, ds, rows, "test.json")

	if sum.Messages != 1 {
		t.Errorf("messages = %d, want 1", sum.Messages)
	}
	if sum.Skipped != 2 {
		t.Errorf("skipped = %d, want 2", sum.Skipped)
	}
}

func TestReimportReplacesConversation(t *testing.T) {
	ds := testDataset(t)

	importRows(t, ds, flatRows(), "first.json")
	importRows(t, ds, flatRows(), "second.json")

	n, _ := ds.Count()
	if n != 4 {
		t.Errorf("Count after re-import = %d, want 4", n)
	}

	stats, err := ds.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Conversations != 2 {
		t.Errorf("conversations = %d, want 2", stats.Conversations)
	}
}

func TestImportStoredConversation(t *testing.T) {
	ds := testDataset(t)

	stored := &storage.StoredConversation{
		ID: "conv_stored",
		Messages: []storage.StoredMessage{
			{ID: "msg_1", Side: model.SideSelf, Text: "hey, free this weekend?", Label: "good", Score: 4.1, Timestamp: time.Now()},
			{ID: "msg_2", Side: model.SideOther, Text: "unlabelled reply", Timestamp: time.Now()},
			{ID: "msg_3", Side: model.SideOther, Text: "totally, what did you have in mind?", Label: "excellent", Score: 4.4, Timestamp: time.Now()},
		},
	}
	data, err := json.Marshal(stored)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	sum, err := ds.ImportBytes(context.Background(), data, "conv_stored.json")
	if err != nil {
		t.Fatalf("ImportBytes: %v", err)
	}
	if sum.Messages != 2 {
		t.Errorf("messages = %d, want 2 (unlabelled rows don't count)", sum.Messages)
	}

	bundle, err := ds.Bundle("conv_stored")
	if err != nil {
		t.Fatalf("Bundle: %v", err)
	}
	if len(bundle.Messages) != 2 {
		t.Fatalf("bundle size = %d, want 2", len(bundle.Messages))
	}
	if bundle.Messages[0].Speaker != "You" {
		t.Errorf("speaker = %q, want %q", bundle.Messages[0].Speaker, "You")
	}
	if bundle.Messages[1].Label != "excellent" {
		t.Errorf("label = %q, want excellent", bundle.Messages[1].Label)
	}
}

func TestProgress(t *testing.T) {
	cfg := DefaultConfig(t.TempDir())
	cfg.Target = 8
	ds, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ds.Close()

	data, _ := json.Marshal(flatRows())
	if _, err := ds.ImportBytes(context.Background(), data, "test.json"); err != nil {
		t.Fatalf("ImportBytes: %v", err)
	}

	p, err := ds.Progress()
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if p.Messages != 4 || p.Target != 8 {
		t.Errorf("progress = %+v, want 4/8", p)
	}
	if p.Percent != 50 {
		t.Errorf("percent = %v, want 50", p.Percent)
	}
}

func TestSearch(t *testing.T) {
	ds := testDataset(t)
	importRows(t, ds, flatRows(), "test.json")

	results, err := ds.Search("ramen", nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].Label != "excellent" {
		t.Errorf("label = %q, want excellent", results[0].Label)
	}

	// Label filter should exclude non-matching rows
	filtered, err := ds.Search("dinner", &SearchOptions{Labels: []string{"blunder"}})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(filtered) != 0 {
		t.Errorf("filtered results = %d, want 0", len(filtered))
	}

	// Empty query is not an error
	empty, err := ds.Search("   ", nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("empty query results = %d, want 0", len(empty))
	}
}

func TestByLabel(t *testing.T) {
	ds := testDataset(t)
	importRows(t, ds, flatRows(), "test.json")

	good, err := ds.ByLabel("good", 0)
	if err != nil {
		t.Fatalf("ByLabel: %v", err)
	}
	if len(good) != 2 {
		t.Errorf("good messages = %d, want 2", len(good))
	}
}

func TestBundleNotFound(t *testing.T) {
	ds := testDataset(t)

	if _, err := ds.Bundle("conv_missing"); !errors.Is(err, ErrConvNotInSet) {
		t.Errorf("err = %v, want ErrConvNotInSet", err)
	}
}

func TestImportDirQuarantinesCorrupt(t *testing.T) {
	ds := testDataset(t)
	dir := t.TempDir()

	good, _ := json.Marshal(flatRows())
	if err := os.WriteFile(filepath.Join(dir, "good.json"), good, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	sum, err := ds.ImportDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("ImportDir: %v", err)
	}
	if sum.Messages != 4 {
		t.Errorf("messages = %d, want 4", sum.Messages)
	}

	if _, err := os.Stat(filepath.Join(dir, "bad.json.corrupt")); err != nil {
		t.Error("corrupt file should be quarantined with .corrupt suffix")
	}
}

func TestStats(t *testing.T) {
	ds := testDataset(t)
	importRows(t, ds, flatRows(), "test.json")

	stats, err := ds.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Messages != 4 {
		t.Errorf("messages = %d, want 4", stats.Messages)
	}
	if stats.Labels["good"] != 2 {
		t.Errorf("good count = %d, want 2", stats.Labels["good"])
	}
	if stats.Speakers != 2 {
		t.Errorf("speakers = %d, want 2", stats.Speakers)
	}
}
