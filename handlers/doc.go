// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Poll API.

# Handler Types

  - PollHandler: create, list, inspect, close, attach summary
  - VotingHandler: typed ballots and one-click vote links
  - ResultsHandler: live and final results

Handlers hold a *lifecycle.Manager and never touch the database directly, so
every write goes through the per-poll serialization in package lifecycle.

	pollHandler := handlers.NewPollHandler(manager, cfg, notifier, summarizer)

# Ballots

POST /polls/{id}/votes takes one of:

	{"option_index": 1}
	{"voter_name": "alice", "ranking": ["B", "A", "C"]}
	{"voter_name": "alice", "responses": {"Acme": {"Cheap": "Yes", "Support": 4}}}

The shape selects the ballot type; a shape that does not match the poll is
rejected with code type_mismatch.

# Errors

All failures are models.ErrorResponse bodies written by
middleware.WriteError. Admin endpoints answer 401 for a missing or wrong
X-Admin-Key before looking at the poll.
*/
package handlers
