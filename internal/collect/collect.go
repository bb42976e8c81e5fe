// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package collect

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/time/rate"

	"github.com/jeranaias/convolens/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrListingFetch = errors.New("failed to fetch listing")
	ErrDownload     = errors.New("download failed")
)

// =============================================================================
// COLLECTOR
// =============================================================================

// DefaultUserAgent identifies the collector to the listing server.
const DefaultUserAgent = "convolens-collector/1.0"

// Config holds collector configuration.
type Config struct {
	// BaseURL is the listing server root (default https://www.reddit.com)
	BaseURL string

	// Community is the listing to pull from
	Community string

	// SaveDir is where downloaded screenshots land
	SaveDir string

	// StatePath is the dedup state file (default SaveDir/.download_state.json)
	StatePath string

	// PostLimit is how many posts to examine per run
	PostLimit int

	// UserAgent for outgoing requests
	UserAgent string

	// RequestInterval is the minimum gap between downloads
	RequestInterval time.Duration
}

// DefaultConfig returns the default collector configuration.
func DefaultConfig(saveDir string) *Config {
	return &Config{
		BaseURL:         "https://www.reddit.com",
		Community:       "Textingtheory",
		SaveDir:         saveDir,
		StatePath:       filepath.Join(saveDir, ".download_state.json"),
		PostLimit:       100,
		UserAgent:       DefaultUserAgent,
		RequestInterval: 300 * time.Millisecond,
	}
}

// Collector downloads conversation screenshots from a community
// listing, skipping posts and file contents it has seen before.
type Collector struct {
	config  *Config
	client  *http.Client
	limiter *rate.Limiter
}

// New creates a collector.
func New(config *Config) (*Collector, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}
	if config.SaveDir == "" {
		return nil, errors.New("save directory is required")
	}
	if config.StatePath == "" {
		config.StatePath = filepath.Join(config.SaveDir, ".download_state.json")
	}
	if config.PostLimit <= 0 {
		config.PostLimit = 100
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.RequestInterval <= 0 {
		config.RequestInterval = 300 * time.Millisecond
	}

	return &Collector{
		config:  config,
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Every(config.RequestInterval), 1),
	}, nil
}

// RunSummary reports the outcome of one collector run.
type RunSummary struct {
	RunID         string    `json:"run_id"`
	StartedAt     time.Time `json:"started_at"`
	Downloaded    int       `json:"downloaded"`
	SkippedPosts  int       `json:"skipped_posts"`  // already processed
	SkippedHashes int       `json:"skipped_hashes"` // duplicate content
	Failed        int       `json:"failed"`
	SaveDir       string    `json:"save_dir"`
}

// Run fetches the newest posts and downloads any unseen images.
// State is persisted even when individual downloads fail.
func (c *Collector) Run(ctx context.Context) (*RunSummary, error) {
	if err := os.MkdirAll(c.config.SaveDir, 0755); err != nil {
		return nil, err
	}

	state, err := LoadState(c.config.StatePath)
	if err != nil {
		return nil, err
	}

	listing, err := c.fetchListing(ctx)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		SaveDir:   c.config.SaveDir,
	}

	for _, child := range listing.Data.Children {
		post := child.Data

		select {
		case <-ctx.Done():
			if saveErr := state.Save(c.config.StatePath); saveErr != nil {
				return summary, fmt.Errorf("%w (saving state: %v)", ctx.Err(), saveErr)
			}
			return summary, ctx.Err()
		default:
		}

		if state.SeenPost(post.ID) {
			summary.SkippedPosts++
			continue
		}

		urls := post.ImageURLs()
		for i, u := range urls {
			saved, err := c.download(ctx, u, post.ID, i+1, state)
			if err != nil {
				summary.Failed++
				continue
			}
			if !saved {
				summary.SkippedHashes++
				continue
			}
			summary.Downloaded++
		}

		// Mark even empty or all-duplicate posts so they are not
		// re-examined every run.
		state.MarkPost(post.ID)
	}

	if err := state.Save(c.config.StatePath); err != nil {
		return summary, err
	}
	return summary, nil
}

// fetchListing pulls the newest posts from the community.
func (c *Collector) fetchListing(ctx context.Context) (*Listing, error) {
	endpoint := fmt.Sprintf("%s/r/%s/new.json?limit=%d",
		strings.TrimRight(c.config.BaseURL, "/"), c.config.Community, c.config.PostLimit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrListingFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrListingFetch, resp.StatusCode)
	}

	var listing Listing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrListingFetch, err)
	}
	return &listing, nil
}

// download fetches one image, hashes it, and writes it unless the
// content was seen before. Returns false when skipped as a duplicate.
func (c *Collector) download(ctx context.Context, rawURL, postID string, idx int, state *State) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("%w: status %d for %s", ErrDownload, resp.StatusCode, rawURL)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrDownload, err)
	}

	sum := sha256.Sum256(content)
	hash := hex.EncodeToString(sum[:])
	if state.SeenHash(hash) {
		return false, nil
	}

	ext := extensionFor(rawURL, resp.Header.Get("Content-Type"))
	name := fmt.Sprintf("%s_%d%s", postID, idx, ext)
	if err := util.AtomicWriteFile(filepath.Join(c.config.SaveDir, name), content, 0644); err != nil {
		return false, err
	}

	state.MarkHash(hash)
	return true, nil
}

// extensionFor picks a file extension from the URL path, falling back
// to the response Content-Type, then to .jpg.
func extensionFor(rawURL, contentType string) string {
	if u, err := url.Parse(rawURL); err == nil {
		base := norm.NFC.String(path.Base(u.Path))
		if ext := path.Ext(base); ext != "" {
			return strings.ToLower(ext)
		}
	}

	switch {
	case strings.Contains(contentType, "image/png"):
		return ".png"
	case strings.Contains(contentType, "image/jpeg"), strings.Contains(contentType, "image/jpg"):
		return ".jpg"
	case strings.Contains(contentType, "image/gif"):
		return ".gif"
	case strings.Contains(contentType, "image/webp"):
		return ".webp"
	}
	return ".jpg"
}
