// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dataset

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/convolens/internal/label"
	"github.com/jeranaias/convolens/internal/storage"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrDatabaseError   = errors.New("database error")
	ErrInvalidPath     = errors.New("invalid path")
	ErrUnknownFormat   = errors.New("unrecognized dataset file format")
	ErrNoLabels        = errors.New("file contains no labelled messages")
	ErrConvNotInSet    = errors.New("conversation not in dataset")
	ErrImportInFlight  = errors.New("import in progress")
)

// =============================================================================
// DATASET
// =============================================================================

// Dataset is the labelled-message corpus backed by SQLite.
type Dataset struct {
	db      *sql.DB
	watcher InboxWatcher
	mu      sync.RWMutex

	// Import state
	importing   bool
	importingMu sync.Mutex

	config *Config
}

// Config holds dataset configuration.
type Config struct {
	// DatabasePath is where to store the SQLite database
	DatabasePath string

	// InboxDir is watched for new labelled JSON files
	InboxDir string

	// Target is the collection goal for labelled messages
	Target int

	// EnableWatch enables inbox watching for automatic imports
	EnableWatch bool

	// WatchDebounce is the debounce duration for inbox file events
	WatchDebounce time.Duration
}

// DefaultConfig returns default configuration rooted at the given directory.
func DefaultConfig(baseDir string) *Config {
	return &Config{
		DatabasePath:  filepath.Join(baseDir, "dataset.db"),
		InboxDir:      filepath.Join(baseDir, "inbox"),
		Target:        DefaultTarget,
		EnableWatch:   false,
		WatchDebounce: 500 * time.Millisecond,
	}
}

// Open opens (creating if necessary) the dataset database.
func Open(config *Config) (*Dataset, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}
	if config.Target <= 0 {
		config.Target = DefaultTarget
	}

	// Create database directory if needed
	dbDir := filepath.Dir(config.DatabasePath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database
	db, err := sql.Open("sqlite", config.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	ds := &Dataset{
		db:     db,
		config: config,
	}

	if err := ds.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return ds, nil
}

// initSchema creates the database schema.
func (ds *Dataset) initSchema() error {
	if _, err := ds.db.Exec(Schema); err != nil {
		return err
	}
	if _, err := ds.db.Exec(InitMetadata); err != nil {
		return err
	}
	_, err := ds.db.Exec("UPDATE metadata SET value = ? WHERE key = 'target'", ds.config.Target)
	return err
}

// Close closes the dataset and releases resources.
func (ds *Dataset) Close() error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if ds.watcher != nil {
		ds.watcher.Close()
	}

	if ds.db != nil {
		return ds.db.Close()
	}
	return nil
}

// =============================================================================
// IMPORT FORMATS
// =============================================================================

// LabelledRow is the flat interchange format: one labelled message per row.
type LabelledRow struct {
	ConversationID string  `json:"conversation_id"`
	Position       int     `json:"position,omitempty"`
	Speaker        string  `json:"speaker"`
	Side           string  `json:"side,omitempty"`
	Text           string  `json:"text"`
	Label          string  `json:"label"`
	Score          float64 `json:"score,omitempty"`
	Sacrifice      bool    `json:"sacrifice,omitempty"`
}

// ImportSummary reports what an import added.
type ImportSummary struct {
	Source        string `json:"source"`
	Conversations int    `json:"conversations"`
	Messages      int    `json:"messages"`
	Skipped       int    `json:"skipped"` // rows with invalid labels
}

// =============================================================================
// IMPORT
// =============================================================================

// ImportFile imports a JSON file of labelled messages. Two formats are
// accepted: a flat array of labelled rows, or a reviewed conversation as
// written by the session store.
func (ds *Dataset) ImportFile(ctx context.Context, path string) (*ImportSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	return ds.ImportBytes(ctx, data, filepath.Base(path))
}

// ImportBytes imports labelled messages from raw JSON.
func (ds *Dataset) ImportBytes(ctx context.Context, data []byte, source string) (*ImportSummary, error) {
	ds.importingMu.Lock()
	if ds.importing {
		ds.importingMu.Unlock()
		return nil, ErrImportInFlight
	}
	ds.importing = true
	ds.importingMu.Unlock()

	defer func() {
		ds.importingMu.Lock()
		ds.importing = false
		ds.importingMu.Unlock()
	}()

	rows, err := decodeRows(data)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoLabels
	}

	return ds.insertRows(ctx, rows, source)
}

// ImportDir imports every .json file in a directory. Files that fail to
// parse are renamed with a .corrupt suffix and skipped.
func (ds *Dataset) ImportDir(ctx context.Context, dir string) (*ImportSummary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}

	total := &ImportSummary{Source: dir}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		select {
		case <-ctx.Done():
			return total, ctx.Err()
		default:
		}

		path := filepath.Join(dir, entry.Name())
		sum, err := ds.ImportFile(ctx, path)
		if errors.Is(err, ErrImportInFlight) {
			total.Skipped++
			continue
		}
		if err != nil {
			quarantine(path)
			continue
		}
		total.Conversations += sum.Conversations
		total.Messages += sum.Messages
		total.Skipped += sum.Skipped
	}

	return total, nil
}

// decodeRows normalizes either accepted format into flat labelled rows.
func decodeRows(data []byte) ([]LabelledRow, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, ErrUnknownFormat
	}

	if strings.HasPrefix(trimmed, "[") {
		var rows []LabelledRow
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, err)
		}
		return rows, nil
	}

	// Reviewed conversation format
	var conv storage.StoredConversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, err)
	}
	if conv.ID == "" || len(conv.Messages) == 0 {
		return nil, ErrUnknownFormat
	}

	var rows []LabelledRow
	for i, msg := range conv.Messages {
		if msg.Label == "" {
			continue // unlabelled messages don't count toward the corpus
		}
		speaker := msg.Speaker
		if speaker == "" {
			speaker = msg.Side.DisplayName()
		}
		rows = append(rows, LabelledRow{
			ConversationID: conv.ID,
			Position:       i,
			Speaker:        speaker,
			Side:           string(msg.Side),
			Text:           msg.Text,
			Label:          msg.Label,
			Score:          msg.Score,
			Sacrifice:      msg.Sacrifice,
		})
	}
	return rows, nil
}

// insertRows writes a batch of rows in one transaction.
func (ds *Dataset) insertRows(ctx context.Context, rows []LabelledRow, source string) (*ImportSummary, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	tx, err := ds.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	summary := &ImportSummary{Source: source}
	convIDs := make(map[string]int64) // external ID -> row ID
	positions := make(map[string]int)

	for _, row := range rows {
		if row.ConversationID == "" || row.Text == "" {
			summary.Skipped++
			continue
		}
		if _, err := label.Parse(row.Label); err != nil {
			summary.Skipped++
			continue
		}

		rowID, ok := convIDs[row.ConversationID]
		if !ok {
			rowID, err = ds.upsertConversation(tx, row.ConversationID, source)
			if err != nil {
				return nil, err
			}
			convIDs[row.ConversationID] = rowID
			summary.Conversations++

			// Re-import replaces the conversation's messages
			if _, err := tx.Exec("DELETE FROM messages WHERE conversation_id = ?", rowID); err != nil {
				return nil, err
			}
		}

		position := row.Position
		if position == 0 {
			position = positions[row.ConversationID]
		}
		positions[row.ConversationID] = position + 1

		speaker := row.Speaker
		if speaker == "" {
			speaker = "unknown"
		}

		_, err = tx.Exec(`
			INSERT INTO messages (conversation_id, position, speaker, side, text, label, score, sacrifice)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, rowID, position, speaker, row.Side, row.Text, strings.ToLower(row.Label), row.Score, boolToInt(row.Sacrifice))
		if err != nil {
			return nil, err
		}
		summary.Messages++
	}

	if summary.Messages == 0 {
		return nil, ErrNoLabels
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return summary, nil
}

// upsertConversation inserts or refreshes a conversation record.
func (ds *Dataset) upsertConversation(tx *sql.Tx, convID, source string) (int64, error) {
	var rowID int64
	err := tx.QueryRow("SELECT id FROM conversations WHERE conv_id = ?", convID).Scan(&rowID)
	if err == nil {
		_, err = tx.Exec("UPDATE conversations SET source = ?, imported_at = ? WHERE id = ?",
			source, time.Now().Unix(), rowID)
		return rowID, err
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	result, err := tx.Exec(`
		INSERT INTO conversations (conv_id, source, imported_at)
		VALUES (?, ?, ?)
	`, convID, source, time.Now().Unix())
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// quarantine renames an unreadable file so it is not retried forever.
func quarantine(path string) {
	os.Rename(path, path+".corrupt")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// =============================================================================
// PROGRESS AND STATS
// =============================================================================

// Progress reports corpus size against the collection target.
type Progress struct {
	Messages int     `json:"messages"`
	Target   int     `json:"target"`
	Percent  float64 `json:"percent"`
}

// Count returns the number of labelled messages in the dataset.
func (ds *Dataset) Count() (int, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	var n int
	if err := ds.db.QueryRow("SELECT COUNT(*) FROM messages").Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return n, nil
}

// Progress returns corpus size relative to the configured target.
func (ds *Dataset) Progress() (Progress, error) {
	n, err := ds.Count()
	if err != nil {
		return Progress{}, err
	}

	p := Progress{Messages: n, Target: ds.config.Target}
	if p.Target > 0 {
		p.Percent = float64(n) / float64(p.Target) * 100
		if p.Percent > 100 {
			p.Percent = 100
		}
	}
	return p, nil
}

// Stats summarizes the dataset contents.
type Stats struct {
	Conversations int            `json:"conversations"`
	Messages      int            `json:"messages"`
	Speakers      int            `json:"speakers"`
	Labels        map[string]int `json:"labels"`
	DatabaseSize  int64          `json:"database_size"`
}

// Stats returns current dataset statistics.
func (ds *Dataset) Stats() (Stats, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	stats := Stats{Labels: make(map[string]int)}

	if err := ds.db.QueryRow("SELECT COUNT(*) FROM conversations").Scan(&stats.Conversations); err != nil {
		return stats, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if err := ds.db.QueryRow("SELECT COUNT(*) FROM messages").Scan(&stats.Messages); err != nil {
		return stats, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if err := ds.db.QueryRow("SELECT COUNT(DISTINCT speaker) FROM messages").Scan(&stats.Speakers); err != nil {
		return stats, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	rows, err := ds.db.Query("SELECT label, COUNT(*) FROM messages GROUP BY label")
	if err != nil {
		return stats, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			continue
		}
		stats.Labels[name] = count
	}

	if info, err := os.Stat(ds.config.DatabasePath); err == nil {
		stats.DatabaseSize = info.Size()
	}

	return stats, nil
}

// =============================================================================
// BUNDLES
// =============================================================================

// Bundle is one conversation's labelled messages in order, the unit
// handed to downstream training pipelines.
type Bundle struct {
	ConversationID string        `json:"conversation_id"`
	Source         string        `json:"source"`
	Messages       []LabelledRow `json:"messages"`
}

// Bundle returns the labelled messages for one conversation.
func (ds *Dataset) Bundle(convID string) (*Bundle, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	var rowID int64
	var source sql.NullString
	err := ds.db.QueryRow("SELECT id, source FROM conversations WHERE conv_id = ?", convID).
		Scan(&rowID, &source)
	if err == sql.ErrNoRows {
		return nil, ErrConvNotInSet
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	bundle := &Bundle{ConversationID: convID, Source: source.String}

	rows, err := ds.db.Query(`
		SELECT position, speaker, side, text, label, score, sacrifice
		FROM messages
		WHERE conversation_id = ?
		ORDER BY position
	`, rowID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		row := LabelledRow{ConversationID: convID}
		var side sql.NullString
		var score sql.NullFloat64
		var sacrifice int
		if err := rows.Scan(&row.Position, &row.Speaker, &side, &row.Text, &row.Label, &score, &sacrifice); err != nil {
			continue
		}
		row.Side = side.String
		row.Score = score.Float64
		row.Sacrifice = sacrifice != 0
		bundle.Messages = append(bundle.Messages, row)
	}

	return bundle, nil
}

// Conversations lists the external IDs of every conversation in the
// dataset, most recently imported first.
func (ds *Dataset) Conversations() ([]string, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	rows, err := ds.db.Query("SELECT conv_id FROM conversations ORDER BY imported_at DESC")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
