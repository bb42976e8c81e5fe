// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dataset collects labelled messages into a searchable corpus.
package dataset

const (
	// SchemaVersion tracks the database schema version for migrations
	SchemaVersion = 1

	// DefaultTarget is the collection goal for labelled messages.
	DefaultTarget = 10000
)

// SQLite schema for the labelled-message dataset with FTS (Full Text Search)
const Schema = `
-- Metadata table for schema version and dataset state
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

-- Conversations table: one row per imported conversation
CREATE TABLE IF NOT EXISTS conversations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    conv_id TEXT NOT NULL UNIQUE,  -- external conversation ID
    title TEXT,
    source TEXT,                   -- file or collector the rows came from
    imported_at INTEGER NOT NULL   -- Unix timestamp
);

CREATE INDEX IF NOT EXISTS idx_conversations_conv_id ON conversations(conv_id);
CREATE INDEX IF NOT EXISTS idx_conversations_source ON conversations(source);

-- Messages table: labelled messages, position-ordered within a conversation
CREATE TABLE IF NOT EXISTS messages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    conversation_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    speaker TEXT NOT NULL,
    side TEXT,                  -- self, other (optional for collected data)
    text TEXT NOT NULL,
    label TEXT NOT NULL,        -- brilliant .. blunder
    score REAL,                 -- average rubric score when known
    sacrifice INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY(conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_messages_conversation_id ON messages(conversation_id);
CREATE INDEX IF NOT EXISTS idx_messages_label ON messages(label);
CREATE INDEX IF NOT EXISTS idx_messages_speaker ON messages(speaker);

-- Full-text search virtual table for messages
CREATE VIRTUAL TABLE IF NOT EXISTS messages_fts USING fts5(
    text,
    speaker,
    label,
    content='messages',
    content_rowid='id',
    tokenize='porter unicode61'
);

-- Triggers to keep FTS table in sync
CREATE TRIGGER IF NOT EXISTS messages_ai AFTER INSERT ON messages BEGIN
    INSERT INTO messages_fts(rowid, text, speaker, label)
    VALUES (new.id, new.text, new.speaker, new.label);
END;

CREATE TRIGGER IF NOT EXISTS messages_ad AFTER DELETE ON messages BEGIN
    DELETE FROM messages_fts WHERE rowid = old.id;
END;

CREATE TRIGGER IF NOT EXISTS messages_au AFTER UPDATE ON messages BEGIN
    DELETE FROM messages_fts WHERE rowid = old.id;
    INSERT INTO messages_fts(rowid, text, speaker, label)
    VALUES (new.id, new.text, new.speaker, new.label);
END;
`

// InitMetadata initializes the metadata table with default values
const InitMetadata = `
INSERT OR IGNORE INTO metadata (key, value) VALUES ('schema_version', '1');
INSERT OR IGNORE INTO metadata (key, value) VALUES ('created_at', strftime('%s', 'now'));
INSERT OR IGNORE INTO metadata (key, value) VALUES ('target', '10000');
`
