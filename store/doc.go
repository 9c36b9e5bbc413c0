// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists polls and their append-only vote ledgers.

Store wraps a *sql.DB; Queries holds the statements and is handed to
callbacks of InTx bound to a transaction:

	err := s.InTx(ctx, func(q *store.Queries) error {
		poll, err := q.GetPoll(ctx, id)
		...
		_, err = q.AppendVote(ctx, id, ballot, s.Now())
		return err
	})

InTx retries on lock contention reported by PostgreSQL (serialization
failure, deadlock, lock not available) or SQLite (busy, locked).

Every database failure wraps models.ErrStorageIO. Missing polls wrap
models.ErrNotFound.
*/
package store
