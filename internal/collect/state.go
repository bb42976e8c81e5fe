// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package collect

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/jeranaias/convolens/internal/util"
)

// =============================================================================
// COLLECTOR STATE
// =============================================================================

// State tracks what the collector has already processed so reruns never
// re-download the same content.
type State struct {
	// SeenPostIDs are listing post IDs already processed
	SeenPostIDs []string `json:"seen_post_ids"`

	// SeenHashes are SHA-256 hashes of downloaded files
	SeenHashes []string `json:"seen_hashes"`

	postIDs map[string]struct{}
	hashes  map[string]struct{}
}

// NewState returns an empty state.
func NewState() *State {
	return &State{
		postIDs: make(map[string]struct{}),
		hashes:  make(map[string]struct{}),
	}
}

// LoadState reads collector state from disk. A missing file yields an
// empty state. An unreadable file is backed up with a .corrupt suffix
// and the collector starts fresh rather than failing the run.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, err
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		os.Rename(path, path+".corrupt")
		return NewState(), nil
	}

	s.postIDs = make(map[string]struct{}, len(s.SeenPostIDs))
	for _, id := range s.SeenPostIDs {
		s.postIDs[id] = struct{}{}
	}
	s.hashes = make(map[string]struct{}, len(s.SeenHashes))
	for _, h := range s.SeenHashes {
		s.hashes[h] = struct{}{}
	}

	return &s, nil
}

// Save writes the state atomically, with sorted slices for stable diffs.
func (s *State) Save(path string) error {
	s.SeenPostIDs = s.SeenPostIDs[:0]
	for id := range s.postIDs {
		s.SeenPostIDs = append(s.SeenPostIDs, id)
	}
	sort.Strings(s.SeenPostIDs)

	s.SeenHashes = s.SeenHashes[:0]
	for h := range s.hashes {
		s.SeenHashes = append(s.SeenHashes, h)
	}
	sort.Strings(s.SeenHashes)

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(path, data, 0644)
}

// SeenPost reports whether a post ID has been processed.
func (s *State) SeenPost(id string) bool {
	_, ok := s.postIDs[id]
	return ok
}

// MarkPost records a post ID as processed.
func (s *State) MarkPost(id string) {
	s.postIDs[id] = struct{}{}
}

// SeenHash reports whether file content with this hash was downloaded before.
func (s *State) SeenHash(hash string) bool {
	_, ok := s.hashes[hash]
	return ok
}

// MarkHash records a downloaded file hash.
func (s *State) MarkHash(hash string) {
	s.hashes[hash] = struct{}{}
}
