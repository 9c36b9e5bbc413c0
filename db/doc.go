// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens SQLite or PostgreSQL databases and creates the schema.

	conn, err := db.Open(ctx, db.SQLite, "polls.db")

SQLite uses the pure-Go modernc.org/sqlite driver; PostgreSQL uses lib/pq.
CreateSchema is safe to call repeatedly.

# Tables

  - poll: id, type, question, options (JSON), created_at, closed, summary
  - vote: append-only ledger; id orders events within a poll

	poll 1──* vote  (ON DELETE CASCADE)

Timestamps are stored as Unix microseconds in BIGINT columns so both
dialects round-trip them identically.

# Placeholders

Queries are written with '?' and passed through Rebind, which rewrites them
to $1, $2, ... for PostgreSQL.
*/
package db
