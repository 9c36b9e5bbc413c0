// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, conn *sql.DB, dialect Dialect) error {
	schema := sqliteSchema
	if dialect == Postgres {
		schema = postgresSchema
	}

	_, err := conn.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const sqliteSchema = `
-- Polls
CREATE TABLE IF NOT EXISTS poll (
    id TEXT PRIMARY KEY,
    type TEXT NOT NULL CHECK (type IN ('single', 'ranked', 'matrix')),
    question TEXT NOT NULL,
    options TEXT NOT NULL,
    created_at BIGINT NOT NULL,
    closed BOOLEAN NOT NULL DEFAULT FALSE,
    summary TEXT
);

CREATE INDEX IF NOT EXISTS idx_poll_created_at ON poll(created_at);

-- Votes (append-only)
CREATE TABLE IF NOT EXISTS vote (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    voter_name TEXT,
    ts BIGINT NOT NULL,
    payload TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_vote_poll_id ON vote(poll_id, id);
CREATE INDEX IF NOT EXISTS idx_vote_voter_name ON vote(poll_id, voter_name);
`

const postgresSchema = `
-- Polls
CREATE TABLE IF NOT EXISTS poll (
    id TEXT PRIMARY KEY,
    type TEXT NOT NULL CHECK (type IN ('single', 'ranked', 'matrix')),
    question TEXT NOT NULL,
    options JSONB NOT NULL,
    created_at BIGINT NOT NULL,
    closed BOOLEAN NOT NULL DEFAULT FALSE,
    summary TEXT
);

CREATE INDEX IF NOT EXISTS idx_poll_created_at ON poll(created_at);

-- Votes (append-only)
CREATE TABLE IF NOT EXISTS vote (
    id BIGSERIAL PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    voter_name TEXT,
    ts BIGINT NOT NULL,
    payload JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_vote_poll_id ON vote(poll_id, id);
CREATE INDEX IF NOT EXISTS idx_vote_voter_name ON vote(poll_id, voter_name);
`
