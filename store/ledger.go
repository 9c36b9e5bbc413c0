// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/danielhkuo/quickly-poll/models"
)

// AppendVote appends a vote event to a poll's ledger. It enforces no poll
// rules; callers run admission first, inside the same transaction.
func (q *Queries) AppendVote(ctx context.Context, pollID string, ballot models.Ballot, ts time.Time) (models.VoteEvent, error) {
	payload, err := models.EncodeBallot(ballot)
	if err != nil {
		return models.VoteEvent{}, fmt.Errorf("failed to encode ballot: %w", err)
	}

	var voterName sql.NullString
	if name := models.VoterName(ballot); name != "" {
		voterName = sql.NullString{String: name, Valid: true}
	}

	var id int64
	err = q.q.QueryRowContext(ctx, q.rebind(`
		INSERT INTO vote (poll_id, voter_name, ts, payload)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`), pollID, voterName, ts.UnixMicro(), string(payload)).Scan(&id)
	if err != nil {
		return models.VoteEvent{}, storageErr("append vote", err)
	}

	return models.VoteEvent{
		ID:        id,
		PollID:    pollID,
		Timestamp: ts,
		Ballot:    ballot,
	}, nil
}

// HasVoted reports whether name already has an event in the poll's ledger.
// Names match exactly, case included.
func (q *Queries) HasVoted(ctx context.Context, pollID, name string) (bool, error) {
	var one int
	err := q.q.QueryRowContext(ctx, q.rebind(`
		SELECT 1 FROM vote WHERE poll_id = ? AND voter_name = ? LIMIT 1
	`), pollID, name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, storageErr("look up voter", err)
	}
	return true, nil
}

// EventsFor yields a poll's vote events in insertion order. Each range over
// the sequence runs a fresh query, so it can be iterated any number of times.
func (q *Queries) EventsFor(ctx context.Context, pollID string) iter.Seq2[models.VoteEvent, error] {
	return func(yield func(models.VoteEvent, error) bool) {
		rows, err := q.q.QueryContext(ctx, q.rebind(`
			SELECT v.id, v.ts, v.payload, p.type
			FROM vote v
			JOIN poll p ON p.id = v.poll_id
			WHERE v.poll_id = ?
			ORDER BY v.id
		`), pollID)
		if err != nil {
			yield(models.VoteEvent{}, storageErr("query votes", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var (
				ev       models.VoteEvent
				ts       int64
				payload  []byte
				pollType string
			)
			if err := rows.Scan(&ev.ID, &ts, &payload, &pollType); err != nil {
				yield(models.VoteEvent{}, storageErr("scan vote", err))
				return
			}

			ballot, err := models.DecodeBallot(models.PollType(pollType), payload)
			if err != nil {
				yield(models.VoteEvent{}, storageErr(fmt.Sprintf("decode vote %d", ev.ID), err))
				return
			}
			ev.PollID = pollID
			ev.Timestamp = time.UnixMicro(ts)
			ev.Ballot = ballot

			if !yield(ev, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(models.VoteEvent{}, storageErr("query votes", err))
		}
	}
}

// Events collects EventsFor into a slice.
func (q *Queries) Events(ctx context.Context, pollID string) ([]models.VoteEvent, error) {
	events := []models.VoteEvent{}
	for ev, err := range q.EventsFor(ctx, pollID) {
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}
