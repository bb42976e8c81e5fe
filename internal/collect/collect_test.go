// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package collect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// fakeListing builds a minimal listing with single-image posts served
// off the test server itself.
func fakeListing(serverURL string, ids ...string) Listing {
	var listing Listing
	for _, id := range ids {
		var child struct {
			Data Post `json:"data"`
		}
		child.Data.ID = id
		child.Data.URL = serverURL + "/img/" + id + ".png"
		listing.Data.Children = append(listing.Data.Children, child)
	}
	return listing
}

func newTestServer(t *testing.T, images map[string][]byte) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	var server *httptest.Server

	mux.HandleFunc("/r/Textingtheory/new.json", func(w http.ResponseWriter, r *http.Request) {
		ids := make([]string, 0, len(images))
		for id := range images {
			ids = append(ids, id)
		}
		json.NewEncoder(w).Encode(fakeListing(server.URL, ids...))
	})
	mux.HandleFunc("/img/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/img/"), ".png")
		data, ok := images[id]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	})

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testCollector(t *testing.T, serverURL, saveDir string) *Collector {
	t.Helper()
	cfg := DefaultConfig(saveDir)
	cfg.BaseURL = serverURL
	cfg.RequestInterval = time.Millisecond
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestRunDownloadsNewImages(t *testing.T) {
	server := newTestServer(t, map[string][]byte{
		"post1": []byte("png-bytes-one"),
		"post2": []byte("png-bytes-two"),
	})
	saveDir := t.TempDir()
	c := testCollector(t, server.URL, saveDir)

	summary, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Downloaded != 2 {
		t.Errorf("downloaded = %d, want 2", summary.Downloaded)
	}
	if summary.RunID == "" {
		t.Error("run ID should be set")
	}

	entries, _ := os.ReadDir(saveDir)
	var files int
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".png") {
			files++
		}
	}
	if files != 2 {
		t.Errorf("saved files = %d, want 2", files)
	}
}

func TestRunSkipsSeenPosts(t *testing.T) {
	server := newTestServer(t, map[string][]byte{
		"post1": []byte("png-bytes-one"),
	})
	saveDir := t.TempDir()
	c := testCollector(t, server.URL, saveDir)

	if _, err := c.Run(context.Background()); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	summary, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if summary.Downloaded != 0 {
		t.Errorf("downloaded = %d, want 0", summary.Downloaded)
	}
	if summary.SkippedPosts != 1 {
		t.Errorf("skipped posts = %d, want 1", summary.SkippedPosts)
	}
}

func TestRunDedupesByHash(t *testing.T) {
	// Two posts serving identical bytes: the second is a content dupe.
	server := newTestServer(t, map[string][]byte{
		"post1": []byte("identical-bytes"),
		"post2": []byte("identical-bytes"),
	})
	saveDir := t.TempDir()
	c := testCollector(t, server.URL, saveDir)

	summary, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Downloaded != 1 {
		t.Errorf("downloaded = %d, want 1", summary.Downloaded)
	}
	if summary.SkippedHashes != 1 {
		t.Errorf("skipped hashes = %d, want 1", summary.SkippedHashes)
	}
}

func TestRunPersistsStateOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The first image request cancels the run, so post2 is reached
	// only through the cancellation path.
	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/r/Textingtheory/new.json", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(fakeListing(server.URL, "post1", "post2"))
	})
	mux.HandleFunc("/img/", func(w http.ResponseWriter, r *http.Request) {
		cancel()
		http.Error(w, "gone", http.StatusInternalServerError)
	})
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)

	saveDir := t.TempDir()
	c := testCollector(t, server.URL, saveDir)

	summary, err := c.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if summary == nil {
		t.Fatal("summary should be returned alongside the cancellation error")
	}

	// The interrupted run still flushes what it marked.
	state, err := LoadState(c.config.StatePath)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if !state.SeenPost("post1") {
		t.Error("post1 should be marked in the saved state")
	}
	if state.SeenPost("post2") {
		t.Error("post2 was never processed and should not be marked")
	}
}

func TestImageURLs(t *testing.T) {
	tests := []struct {
		name string
		post Post
		want []string
	}{
		{
			name: "single image on known host",
			post: Post{ID: "a", URL: "https://i.redd.it/abc.jpg"},
			want: []string{"https://i.redd.it/abc.jpg"},
		},
		{
			name: "direct external image",
			post: Post{ID: "b", URL: "https://example.com/shot.PNG"},
			want: []string{"https://example.com/shot.PNG"},
		},
		{
			name: "non-image link yields nothing",
			post: Post{ID: "c", URL: "https://example.com/article"},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.post.ImageURLs()
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("ImageURLs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestImageURLsGallery(t *testing.T) {
	var post Post
	post.ID = "g"
	post.IsGallery = true
	post.GalleryData.Items = []struct {
		MediaID string `json:"media_id"`
	}{{MediaID: "m1"}, {MediaID: "m2"}}
	post.MediaMetadata = map[string]struct {
		S struct {
			U string `json:"u"`
		} `json:"s"`
	}{}
	var m1, m2 struct {
		S struct {
			U string `json:"u"`
		} `json:"s"`
	}
	m1.S.U = "https://preview.redd.it/one.jpg?width=640&amp;s=abc"
	m2.S.U = "https://preview.redd.it/two.jpg?width=640&amp;s=def"
	post.MediaMetadata["m1"] = m1
	post.MediaMetadata["m2"] = m2

	urls := post.ImageURLs()
	if len(urls) != 2 {
		t.Fatalf("urls = %d, want 2", len(urls))
	}
	for _, u := range urls {
		if strings.Contains(u, "&amp;") {
			t.Errorf("entity not unescaped: %s", u)
		}
	}
}

func TestNormalizeImageURL(t *testing.T) {
	got := normalizeImageURL("https://preview.redd.it/abc.jpg?width=320&s=xyz")
	want := "https://preview.redd.it/abc.jpg"
	if got != want {
		t.Errorf("normalizeImageURL() = %q, want %q", got, want)
	}

	// External hosts are left alone
	ext := "https://example.com/a.jpg?size=big"
	if got := normalizeImageURL(ext); got != ext {
		t.Errorf("external URL changed: %q", got)
	}
}

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		url         string
		contentType string
		want        string
	}{
		{"https://i.redd.it/abc.PNG", "", ".png"},
		{"https://i.redd.it/abc", "image/webp", ".webp"},
		{"https://i.redd.it/abc", "image/jpeg", ".jpg"},
		{"https://i.redd.it/abc", "text/html", ".jpg"},
	}

	for _, tt := range tests {
		if got := extensionFor(tt.url, tt.contentType); got != tt.want {
			t.Errorf("extensionFor(%q, %q) = %q, want %q", tt.url, tt.contentType, got, tt.want)
		}
	}
}

func TestStateCorruptQuarantine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".download_state.json")
	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	state, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if state.SeenPost("anything") {
		t.Error("corrupt state should start fresh")
	}
	if _, err := os.Stat(path + ".corrupt"); err != nil {
		t.Error("corrupt state file should be backed up")
	}
}

func TestStateRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".download_state.json")

	state := NewState()
	state.MarkPost("p2")
	state.MarkPost("p1")
	state.MarkHash("hash1")
	if err := state.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if !loaded.SeenPost("p1") || !loaded.SeenPost("p2") {
		t.Error("post IDs should survive the round trip")
	}
	if !loaded.SeenHash("hash1") {
		t.Error("hashes should survive the round trip")
	}
	if len(loaded.SeenPostIDs) != 2 || loaded.SeenPostIDs[0] != "p1" {
		t.Errorf("post IDs should be sorted: %v", loaded.SeenPostIDs)
	}
}
