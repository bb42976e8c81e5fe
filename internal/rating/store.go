// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package rating

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jeranaias/convolens/internal/util"
)

// =============================================================================
// PLAYER STORE
// =============================================================================

// ErrPlayerNotFound is returned when a player does not exist in the store.
var ErrPlayerNotFound = errors.New("player not found")

// Store persists players to disk, one JSON file per player.
type Store struct {
	dir string
}

// NewStore creates a player store rooted at dir.
// An empty dir defaults to ~/.convolens/players/.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(homeDir, ".convolens", "players")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return &Store{dir: dir}, nil
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// Save persists a player.
func (s *Store) Save(p *Player) error {
	if p == nil {
		return nil
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	filename := filepath.Join(s.dir, p.ID+".json")
	return util.AtomicWriteFile(filename, data, 0644)
}

// Load retrieves a player by ID.
func (s *Store) Load(id string) (*Player, error) {
	filename := filepath.Join(s.dir, id+".json")

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	var p Player
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByName retrieves a player by display name (case-insensitive).
func (s *Store) FindByName(name string) (*Player, error) {
	players, err := s.List()
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return nil, ErrPlayerNotFound
}

// FindOrCreate retrieves a player by name, creating and saving a new
// one at the initial rating if absent.
func (s *Store) FindOrCreate(name string, params Params) (*Player, error) {
	p, err := s.FindByName(name)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrPlayerNotFound) {
		return nil, err
	}

	p = NewPlayer(name, params)
	if err := s.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a player by ID.
func (s *Store) Delete(id string) error {
	filename := filepath.Join(s.dir, id+".json")
	if err := os.Remove(filename); err != nil {
		if os.IsNotExist(err) {
			return ErrPlayerNotFound
		}
		return err
	}
	return nil
}

// =============================================================================
// LISTING
// =============================================================================

// List returns all players, unordered.
func (s *Store) List() ([]*Player, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var players []*Player
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		p, err := s.Load(id)
		if err != nil {
			continue // skip corrupted files
		}
		players = append(players, p)
	}
	return players, nil
}

// Leaderboard returns all players sorted by rating, highest first.
// Ties break on games played, then name, so the order is stable.
func (s *Store) Leaderboard() ([]*Player, error) {
	players, err := s.List()
	if err != nil {
		return nil, err
	}

	sort.Slice(players, func(i, j int) bool {
		if players[i].Rating != players[j].Rating {
			return players[i].Rating > players[j].Rating
		}
		if players[i].Games != players[j].Games {
			return players[i].Games > players[j].Games
		}
		return players[i].Name < players[j].Name
	})
	return players, nil
}
