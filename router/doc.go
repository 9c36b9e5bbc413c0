// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Poll API.

	mux := router.NewRouter(manager, cfg, notifier, summarizer)

notifier and summarizer may be nil; poll creation then skips the Slack
announcement and summaries must be supplied as text.

# Endpoints

	GET  /health
	GET  /

	POST /polls                 - Create poll (returns admin_key)
	GET  /polls                 - List polls with vote counts
	GET  /polls/{id}            - Poll with its vote events
	POST /polls/{id}/close      - Close voting (X-Admin-Key)
	POST /polls/{id}/summary    - Attach summary (X-Admin-Key, closed only)

	POST /polls/{id}/votes      - Cast a typed ballot
	GET  /polls/{id}/vote?option=N
	                            - One-click single-choice vote, N is 1-based

	GET  /polls/{id}/results    - Live or final results
*/
package router
