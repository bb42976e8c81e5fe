// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jeranaias/convolens/internal/model"
	"github.com/jeranaias/convolens/internal/review"
	"github.com/jeranaias/convolens/internal/secure"
)

func testStore(t *testing.T) *ConversationStore {
	t.Helper()
	store, err := NewConversationStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewConversationStoreWithDir: %v", err)
	}
	return store
}

func testConversation() *StoredConversation {
	return &StoredConversation{
		Messages: []StoredMessage{
			{ID: "msg_1", Side: model.SideSelf, Text: "hey, how was the interview?", Timestamp: time.Now()},
			{ID: "msg_2", Side: model.SideOther, Text: "it went really well actually!", Timestamp: time.Now()},
		},
	}
}

func TestSaveAndLoad(t *testing.T) {
	store := testStore(t)

	id, err := store.Save(testConversation())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id == "" {
		t.Fatal("Save returned empty ID")
	}

	loaded, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Messages) != 2 {
		t.Errorf("message count = %d, want 2", len(loaded.Messages))
	}
	if loaded.Title == "" {
		t.Error("title should be auto-generated from first message")
	}
	if loaded.Messages[0].Side != model.SideSelf {
		t.Errorf("side = %q, want self", loaded.Messages[0].Side)
	}
}

func TestLoadNotFound(t *testing.T) {
	store := testStore(t)

	_, err := store.Load("conv_missing")
	if !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("err = %v, want ErrConversationNotFound", err)
	}
}

func TestFromModelRoundTrip(t *testing.T) {
	conv := model.NewConversation()
	conv.AddOtherMessage("want to grab dinner this weekend?")
	conv.AddSelfMessage("yes! I found a new ramen place we should try")

	report, err := review.NewDefaultEngine().Review(conv)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}

	stored := FromModel(conv, report)
	if !stored.Reviewed {
		t.Error("stored conversation should be marked reviewed")
	}
	if stored.Self == nil || stored.Other == nil {
		t.Fatal("side summaries should be stored")
	}
	for i, sm := range stored.Messages {
		if sm.Label == "" {
			t.Errorf("message %d missing label", i)
		}
		if sm.Rubric == nil {
			t.Errorf("message %d missing rubric", i)
		}
	}

	back := stored.ToModel()
	if back.ID != conv.ID {
		t.Errorf("ID = %q, want %q", back.ID, conv.ID)
	}
	if len(back.Messages) != len(conv.Messages) {
		t.Errorf("message count = %d, want %d", len(back.Messages), len(conv.Messages))
	}
	if back.Messages[1].Rubric == nil {
		t.Error("rubric should survive the round trip")
	}
}

func TestListOrdering(t *testing.T) {
	store := testStore(t)

	first := testConversation()
	first.UpdatedAt = time.Now().Add(-time.Hour)
	oldID, err := store.Save(first)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	// Save stamps UpdatedAt, so rewrite the old timestamp directly.
	loaded, _ := store.Load(oldID)
	loaded.UpdatedAt = time.Now().Add(-time.Hour)
	data, _ := loaded.ExportJSON()
	if err := writeRaw(store, oldID, data); err != nil {
		t.Fatalf("writeRaw: %v", err)
	}

	newID, err := store.Save(testConversation())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	metas, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("len(metas) = %d, want 2", len(metas))
	}
	if metas[0].ID != newID {
		t.Errorf("most recent first: got %q, want %q", metas[0].ID, newID)
	}
	if metas[1].ID != oldID {
		t.Errorf("oldest last: got %q, want %q", metas[1].ID, oldID)
	}
}

func TestSearchMessages(t *testing.T) {
	store := testStore(t)

	conv := testConversation()
	if _, err := store.Save(conv); err != nil {
		t.Fatalf("Save: %v", err)
	}

	hits, err := store.SearchMessages("INTERVIEW")
	if err != nil {
		t.Fatalf("SearchMessages: %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("hits = %d, want 1", len(hits))
	}

	none, err := store.SearchMessages("zebra")
	if err != nil {
		t.Fatalf("SearchMessages: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("hits = %d, want 0", len(none))
	}
}

func TestDelete(t *testing.T) {
	store := testStore(t)

	id, _ := store.Save(testConversation())
	if err := store.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Load(id); !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("err = %v, want ErrConversationNotFound", err)
	}
	if err := store.Delete(id); !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("double delete: err = %v, want ErrConversationNotFound", err)
	}
}

func TestMaxConversationsLimit(t *testing.T) {
	store := testStore(t)
	store.MaxConversations = 2

	for i := 0; i < 4; i++ {
		if _, err := store.Save(testConversation()); err != nil {
			t.Fatalf("Save %d: %v", i, err)
		}
		time.Sleep(5 * time.Millisecond) // distinct UpdatedAt ordering
	}

	metas, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 2 {
		t.Errorf("len(metas) = %d, want 2", len(metas))
	}
}

func TestEncryptedStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConversationStoreWithDir(dir)
	if err != nil {
		t.Fatalf("NewConversationStoreWithDir: %v", err)
	}

	cipher, err := secure.NewCipher("hunter2")
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}
	store.SetCipher(cipher)

	id, err := store.Save(testConversation())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Messages) != 2 {
		t.Errorf("message count = %d, want 2", len(loaded.Messages))
	}

	// A store without the cipher must refuse the file, not return garbage.
	locked, _ := NewConversationStoreWithDir(dir)
	if _, err := locked.Load(id); !errors.Is(err, ErrPassphraseRequired) {
		t.Errorf("err = %v, want ErrPassphraseRequired", err)
	}
}

// writeRaw overwrites a stored conversation file, bypassing Save's
// timestamp handling. Test helper only.
func writeRaw(s *ConversationStore, id string, data []byte) error {
	return os.WriteFile(s.filePath(id), data, 0644)
}
