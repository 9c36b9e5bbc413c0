// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Poll API server.

Quickly Poll records votes for single-choice, ranked (Borda count) and
evaluation-matrix polls in an append-only ledger and computes results from
that ledger on every request.

# Starting the Server

	ADMIN_KEY_SALT=dev go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -admin-salt dev

# Configuration

Required settings:

  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC
  - DATABASE_URL (-d): Required when DATABASE_TYPE is postgres

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - DATA_DIR: Directory for the default SQLite file polls.db
  - PUBLIC_BASE_URL (-base-url): Base for vote links
  - SLACK_WEBHOOK_URL (-webhook): Announce new polls in Slack
  - SUMMARIZER_URL (-summarizer-url), SUMMARIZER_PROMPT: Generate summaries
  - LOG_LEVEL: debug, info, warn or error

Values may also come from a .env file (-env-file).

# Architecture

  - lifecycle: Per-poll serialized operations
  - admission: Ballot acceptance rules
  - aggregate: Tally, Borda and matrix results
  - store: Poll records and the vote ledger over database/sql
  - db: Drivers, schema, placeholder rebinding
  - handlers, router, middleware: HTTP layer
  - notify, summarize: Optional outbound collaborators
  - cliparse, logging: Configuration and logger setup

The pollctl command (cmd/pollctl) operates on the same database.
*/
package main
