// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dataset

import (
	"database/sql"
	"fmt"
	"strings"
)

// =============================================================================
// SEARCH RESULT
// =============================================================================

// SearchResult is a single matching labelled message.
type SearchResult struct {
	ConversationID string
	Position       int
	Speaker        string
	Text           string
	Label          string
	Score          float64
	Rank           float64 // Search relevance rank
}

// SearchOptions configures search behavior.
type SearchOptions struct {
	// MaxResults limits the number of results (0 = unlimited)
	MaxResults int

	// Labels filters by label names (empty = all labels)
	Labels []string

	// Speakers filters by speaker (empty = all)
	Speakers []string
}

// DefaultSearchOptions returns default search options.
func DefaultSearchOptions() *SearchOptions {
	return &SearchOptions{
		MaxResults: 50,
	}
}

// =============================================================================
// SEARCH METHODS
// =============================================================================

// Search finds labelled messages matching the query using full-text search.
func (ds *Dataset) Search(query string, options *SearchOptions) ([]SearchResult, error) {
	if options == nil {
		options = DefaultSearchOptions()
	}

	ds.mu.RLock()
	defer ds.mu.RUnlock()

	ftsQuery := buildFTSQuery(query)
	if ftsQuery == "" {
		// Empty query not allowed for FTS search
		return []SearchResult{}, nil
	}

	sqlQuery := `
		SELECT
			c.conv_id, m.position, m.speaker, m.text, m.label, m.score,
			fts.rank
		FROM messages_fts fts
		JOIN messages m ON m.id = fts.rowid
		JOIN conversations c ON c.id = m.conversation_id
		WHERE messages_fts MATCH ?
	`

	var args []interface{}
	args = append(args, ftsQuery)

	// Add filters
	var conditions []string

	if len(options.Labels) > 0 {
		placeholders := make([]string, len(options.Labels))
		for i, l := range options.Labels {
			placeholders[i] = "?"
			args = append(args, strings.ToLower(l))
		}
		conditions = append(conditions, "m.label IN ("+strings.Join(placeholders, ",")+")")
	}

	if len(options.Speakers) > 0 {
		placeholders := make([]string, len(options.Speakers))
		for i, sp := range options.Speakers {
			placeholders[i] = "?"
			args = append(args, sp)
		}
		conditions = append(conditions, "m.speaker IN ("+strings.Join(placeholders, ",")+")")
	}

	if len(conditions) > 0 {
		sqlQuery += " AND " + strings.Join(conditions, " AND ")
	}

	// Order by rank
	sqlQuery += " ORDER BY fts.rank"

	// Limit results
	if options.MaxResults > 0 {
		sqlQuery += " LIMIT ?"
		args = append(args, options.MaxResults)
	}

	rows, err := ds.db.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var result SearchResult
		var score sql.NullFloat64

		err := rows.Scan(
			&result.ConversationID,
			&result.Position,
			&result.Speaker,
			&result.Text,
			&result.Label,
			&score,
			&result.Rank,
		)
		if err != nil {
			continue
		}

		result.Score = score.Float64
		results = append(results, result)
	}

	return results, nil
}

// ByLabel returns messages carrying a given label, most recent imports first.
func (ds *Dataset) ByLabel(labelName string, limit int) ([]SearchResult, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	sqlQuery := `
		SELECT c.conv_id, m.position, m.speaker, m.text, m.label, m.score
		FROM messages m
		JOIN conversations c ON c.id = m.conversation_id
		WHERE m.label = ?
		ORDER BY c.imported_at DESC, m.position
	`
	args := []interface{}{strings.ToLower(labelName)}
	if limit > 0 {
		sqlQuery += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := ds.db.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var result SearchResult
		var score sql.NullFloat64
		if err := rows.Scan(&result.ConversationID, &result.Position, &result.Speaker,
			&result.Text, &result.Label, &score); err != nil {
			continue
		}
		result.Score = score.Float64
		results = append(results, result)
	}
	return results, nil
}

// buildFTSQuery sanitizes a user query for FTS5. Terms are quoted so
// punctuation in message text cannot break the match expression.
func buildFTSQuery(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}

	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, `"`, "")
		if f == "" {
			continue
		}
		terms = append(terms, `"`+f+`"`)
	}
	return strings.Join(terms, " ")
}
