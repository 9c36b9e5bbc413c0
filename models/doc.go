// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain, request and response types shared by
every layer, plus the poll error taxonomy.

# Polls

A Poll has a Type (single, ranked, matrix) and an Options schema:

  - single, ranked: Labels, 2 to MaxOptions distinct entries
  - matrix: Items and Criteria; each Criterion has a Kind of yes_no,
    scale_1_5 or text

ValidateOptions enforces the schema; failures wrap ErrInvalidSchema.

# Ballots

Ballot is a closed union of SingleVote, RankedVote and MatrixVote. Stored
payloads are decoded with DecodeBallot using the poll's type.

# Errors

Every rejection wraps one of the Err* sentinels; ReasonCode turns an error
into the stable code sent to clients:

	ErrNotFound        not_found
	ErrPollClosed      poll_closed
	ErrDuplicateVoter  duplicate_voter
	...

# Results

Result carries exactly one of Tally, Ranked or Matrix, matching the poll
type.
*/
package models
