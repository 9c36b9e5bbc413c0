// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package lifecycle is the entry point for every poll operation.

# Serialization

Manager keeps one mutex per poll id. CastVote, ClosePoll and AttachSummary
hold it for the whole operation, and each runs its reads and writes in a
single store transaction:

	load poll -> admission.Admit (voter lookup by name) -> append

so a duplicate voter racing itself, or a vote racing a close, always sees the
other's committed effect. Operations on different polls proceed
independently.

# Reads

GetPoll and Aggregate read the poll and its ledger inside one transaction,
so results are computed from a consistent snapshot. Results are never
cached; every call recomputes them from the full ledger.
*/
package lifecycle
