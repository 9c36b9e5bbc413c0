// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-poll/db"
	"github.com/danielhkuo/quickly-poll/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	conn, err := db.Open(context.Background(), db.SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	s := New(conn, db.SQLite, nil)
	s.backoff = time.Millisecond
	return s
}

// fixedClock returns a clock that advances one second per call.
func fixedClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func TestCreatePollRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		pollType models.PollType
		opts     models.Options
	}{
		{"single", models.TypeSingle, models.Options{Labels: []string{"Pizza", "Tacos"}}},
		{"ranked", models.TypeRanked, models.Options{Labels: []string{"A", "B", "C"}}},
		{"matrix", models.TypeMatrix, models.Options{
			Items: []string{"Acme", "Globex"},
			Criteria: []models.Criterion{
				{Label: "Cheap", Kind: models.KindYesNo},
				{Label: "Support", Kind: models.KindScale},
				{Label: "Notes", Kind: models.KindText},
			},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := s.CreatePoll(ctx, tt.pollType, "  Question?  ", tt.opts)
			require.NoError(t, err)
			assert.NotEmpty(t, created.ID)
			assert.Equal(t, "Question?", created.Question)
			assert.False(t, created.Closed)
			assert.Nil(t, created.Summary)

			got, err := s.GetPoll(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, created, got)
		})
	}
}

func TestCreatePollNormalizesOptions(t *testing.T) {
	s := newTestStore(t)

	poll, err := s.CreatePoll(context.Background(), models.TypeSingle, "Lunch?",
		models.Options{Labels: []string{" Pizza ", "", "Tacos", "   "}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pizza", "Tacos"}, poll.Options.Labels)
}

func TestCreatePollRejectsSchema(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		pollType models.PollType
		question string
		opts     models.Options
	}{
		{"blank question", models.TypeSingle, "  ", models.Options{Labels: []string{"A", "B"}}},
		{"too few options", models.TypeSingle, "Q", models.Options{Labels: []string{"A", " "}}},
		{"too many options", models.TypeRanked, "Q", models.Options{Labels: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11"}}},
		{"duplicate options", models.TypeRanked, "Q", models.Options{Labels: []string{"A", "A"}}},
		{"matrix without criteria", models.TypeMatrix, "Q", models.Options{Items: []string{"A"}}},
		{"unknown type", "approval", "Q", models.Options{Labels: []string{"A", "B"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreatePoll(ctx, tt.pollType, tt.question, tt.opts)
			assert.ErrorIs(t, err, models.ErrInvalidSchema)
		})
	}

	polls, err := s.ListPolls(ctx)
	require.NoError(t, err)
	assert.Empty(t, polls)
}

func TestGetPollNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetPoll(context.Background(), "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestClosePoll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	poll, err := s.CreatePoll(ctx, models.TypeSingle, "Q", models.Options{Labels: []string{"A", "B"}})
	require.NoError(t, err)

	require.NoError(t, s.ClosePoll(ctx, poll.ID))
	require.NoError(t, s.ClosePoll(ctx, poll.ID), "closing twice is a no-op")

	got, err := s.GetPoll(ctx, poll.ID)
	require.NoError(t, err)
	assert.True(t, got.Closed)

	assert.ErrorIs(t, s.ClosePoll(ctx, "nope"), models.ErrNotFound)
}

func TestAttachSummary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	poll, err := s.CreatePoll(ctx, models.TypeSingle, "Q", models.Options{Labels: []string{"A", "B"}})
	require.NoError(t, err)

	require.NoError(t, s.AttachSummary(ctx, poll.ID, "first"))
	require.NoError(t, s.AttachSummary(ctx, poll.ID, "second"))

	got, err := s.GetPoll(ctx, poll.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Summary)
	assert.Equal(t, "second", *got.Summary)

	assert.ErrorIs(t, s.AttachSummary(ctx, "nope", "x"), models.ErrNotFound)
}

func TestListPollsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	s.SetClock(fixedClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)))
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		poll, err := s.CreatePoll(ctx, models.TypeSingle, fmt.Sprintf("Q%d", i), models.Options{Labels: []string{"A", "B"}})
		require.NoError(t, err)
		ids = append(ids, poll.ID)
	}

	_, err := s.AppendVote(ctx, ids[0], models.SingleVote{OptionIndex: 1}, s.Now())
	require.NoError(t, err)
	_, err = s.AppendVote(ctx, ids[0], models.SingleVote{OptionIndex: 0}, s.Now())
	require.NoError(t, err)

	polls, err := s.ListPolls(ctx)
	require.NoError(t, err)
	require.Len(t, polls, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{polls[0].ID, polls[1].ID, polls[2].ID})

	summaries, err := s.ListSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, ids[0], summaries[2].ID)
	assert.Equal(t, 2, summaries[2].VoteCount)
	assert.Equal(t, 0, summaries[0].VoteCount)
}

func TestLedgerOrderAndRestart(t *testing.T) {
	s := newTestStore(t)
	s.SetClock(fixedClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)))
	ctx := context.Background()

	poll, err := s.CreatePoll(ctx, models.TypeRanked, "Q", models.Options{Labels: []string{"A", "B"}})
	require.NoError(t, err)
	other, err := s.CreatePoll(ctx, models.TypeRanked, "Other", models.Options{Labels: []string{"A", "B"}})
	require.NoError(t, err)

	names := []string{"u1", "u2", "u3"}
	for _, name := range names {
		_, err := s.AppendVote(ctx, poll.ID, models.RankedVote{VoterName: name, Ranking: []string{"B", "A"}}, s.Now())
		require.NoError(t, err)
		_, err = s.AppendVote(ctx, other.ID, models.RankedVote{VoterName: "x" + name, Ranking: []string{"A", "B"}}, s.Now())
		require.NoError(t, err)
	}

	collect := func() []string {
		var got []string
		for ev, err := range s.EventsFor(ctx, poll.ID) {
			require.NoError(t, err)
			assert.Equal(t, poll.ID, ev.PollID)
			got = append(got, models.VoterName(ev.Ballot))
		}
		return got
	}

	// The sequence restarts from the beginning on every range
	assert.Equal(t, names, collect())
	assert.Equal(t, names, collect())

	events, err := s.Events(ctx, poll.ID)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.True(t, events[0].ID < events[1].ID && events[1].ID < events[2].ID)
	assert.True(t, events[0].Timestamp.Before(events[1].Timestamp))
	assert.Equal(t, models.RankedVote{VoterName: "u1", Ranking: []string{"B", "A"}}, events[0].Ballot)
}

func TestLedgerEarlyBreak(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	poll, err := s.CreatePoll(ctx, models.TypeSingle, "Q", models.Options{Labels: []string{"A", "B"}})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := s.AppendVote(ctx, poll.ID, models.SingleVote{OptionIndex: i % 2}, s.Now())
		require.NoError(t, err)
	}

	for _, err := range s.EventsFor(ctx, poll.ID) {
		require.NoError(t, err)
		break
	}

	// The single SQLite connection must have been released by the break
	_, err = s.AppendVote(ctx, poll.ID, models.SingleVote{OptionIndex: 0}, s.Now())
	require.NoError(t, err)
}

func TestLedgerEmpty(t *testing.T) {
	s := newTestStore(t)
	events, err := s.Events(context.Background(), "no-such-poll")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestHasVoted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	poll, err := s.CreatePoll(ctx, models.TypeRanked, "Q", models.Options{Labels: []string{"A", "B"}})
	require.NoError(t, err)
	other, err := s.CreatePoll(ctx, models.TypeRanked, "Q2", models.Options{Labels: []string{"A", "B"}})
	require.NoError(t, err)

	_, err = s.AppendVote(ctx, poll.ID, models.RankedVote{VoterName: "alice", Ranking: []string{"B", "A"}}, s.Now())
	require.NoError(t, err)
	_, err = s.AppendVote(ctx, poll.ID, models.SingleVote{OptionIndex: 0}, s.Now())
	require.NoError(t, err)

	tests := []struct {
		name   string
		pollID string
		voter  string
		want   bool
	}{
		{"recorded voter", poll.ID, "alice", true},
		{"case differs", poll.ID, "Alice", false},
		{"unknown voter", poll.ID, "bob", false},
		{"other poll", other.ID, "alice", false},
		{"anonymous ballots have no name", poll.ID, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.HasVoted(ctx, tt.pollID, tt.voter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatrixPayloadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	poll, err := s.CreatePoll(ctx, models.TypeMatrix, "Q", models.Options{
		Items:    []string{"Acme"},
		Criteria: []models.Criterion{{Label: "Support", Kind: models.KindScale}, {Label: "Cheap", Kind: models.KindYesNo}},
	})
	require.NoError(t, err)

	_, err = s.AppendVote(ctx, poll.ID, models.MatrixVote{
		VoterName: "alice",
		Responses: map[string]map[string]any{"Acme": {"Support": 4, "Cheap": "Yes"}},
	}, s.Now())
	require.NoError(t, err)

	events, err := s.Events(ctx, poll.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)

	vote, ok := events[0].Ballot.(models.MatrixVote)
	require.True(t, ok)
	assert.Equal(t, "alice", vote.VoterName)
	n, ok := models.ScaleValue(vote.Responses["Acme"]["Support"])
	assert.True(t, ok)
	assert.Equal(t, 4, n)
	assert.Equal(t, "Yes", vote.Responses["Acme"]["Cheap"])
}

func TestInTxRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	poll, err := s.CreatePoll(ctx, models.TypeSingle, "Q", models.Options{Labels: []string{"A", "B"}})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.InTx(ctx, func(q *Queries) error {
		if _, err := q.AppendVote(ctx, poll.ID, models.SingleVote{OptionIndex: 0}, s.Now()); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	events, err := s.Events(ctx, poll.ID)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestInTxRetriesTransientErrors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	calls := 0
	err := s.InTx(ctx, func(q *Queries) error {
		calls++
		if calls < 3 {
			return &pq.Error{Code: "40001"}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = s.InTx(ctx, func(q *Queries) error {
		calls++
		return &pq.Error{Code: "40P01"}
	})
	assert.Error(t, err)
	assert.Equal(t, defaultAttempts, calls)

	calls = 0
	err = s.InTx(ctx, func(q *Queries) error {
		calls++
		return &pq.Error{Code: "23505"}
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls, "non-transient errors are not retried")
}

func TestStorageErrorsWrapSentinel(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Close())

	_, err := s.CreatePoll(context.Background(), models.TypeSingle, "Q", models.Options{Labels: []string{"A", "B"}})
	assert.ErrorIs(t, err, models.ErrStorageIO)
	assert.Equal(t, models.CodeStorageIO, models.ReasonCode(err))
}
