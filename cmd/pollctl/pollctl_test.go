// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-poll/auth"
	"github.com/danielhkuo/quickly-poll/db"
	"github.com/danielhkuo/quickly-poll/lifecycle"
	"github.com/danielhkuo/quickly-poll/models"
	"github.com/danielhkuo/quickly-poll/store"
	"github.com/danielhkuo/quickly-poll/testutil"
)

// fixture shares one in-memory database between the seeding manager and
// every pollctl invocation
type fixture struct {
	conn    *sql.DB
	manager *lifecycle.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	t.Setenv("DATABASE_TYPE", "sqlite")
	t.Setenv("DATABASE_URL", "unused.db")
	conn := testutil.SetupTestDB(t)
	return &fixture{conn: conn, manager: lifecycle.NewManager(store.New(conn, db.SQLite, nil), nil)}
}

func (f *fixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	open := func(context.Context, db.Dialect, string) (*sql.DB, func() error, error) {
		return f.conn, func() error { return nil }, nil
	}

	root := newRootCmd(open)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--env-file", ""}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (f *fixture) createPoll(t *testing.T, pollType models.PollType, question string, opts models.Options) models.Poll {
	t.Helper()
	poll, err := f.manager.CreatePoll(context.Background(), lifecycle.CreatePollInput{Type: pollType, Question: question, Options: opts})
	require.NoError(t, err)
	return poll
}

func TestListCommand(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "no polls")

	poll := f.createPoll(t, models.TypeSingle, "Lunch?", models.Options{Labels: []string{"Pizza", "Tacos"}})
	_, err = f.manager.CastVote(context.Background(), poll.ID, models.SingleVote{OptionIndex: 0})
	require.NoError(t, err)

	out, err = f.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, poll.ID)
	assert.Contains(t, out, "Lunch?")
	assert.Contains(t, out, "open")
}

func TestShowCommand(t *testing.T) {
	f := newFixture(t)
	poll := f.createPoll(t, models.TypeMatrix, "Vendors", models.Options{
		Items:    []string{"Acme"},
		Criteria: []models.Criterion{{Label: "Support", Kind: models.KindScale}},
	})
	_, err := f.manager.CastVote(context.Background(), poll.ID, models.MatrixVote{
		VoterName: "alice",
		Responses: map[string]map[string]any{"Acme": {"Support": 4}},
	})
	require.NoError(t, err)

	out, err := f.run(t, "show", poll.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Support (scale_1_5)")
	assert.Contains(t, out, "1 vote")
	assert.Contains(t, out, `"voter_name":"alice"`)

	_, err = f.run(t, "show", "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestResultsCommand(t *testing.T) {
	f := newFixture(t)
	poll := f.createPoll(t, models.TypeRanked, "Order?", models.Options{Labels: []string{"A", "B", "C"}})
	for _, b := range []models.RankedVote{
		{VoterName: "u1", Ranking: []string{"B", "A", "C"}},
		{VoterName: "u2", Ranking: []string{"B", "C", "A"}},
	} {
		_, err := f.manager.CastVote(context.Background(), poll.ID, b)
		require.NoError(t, err)
	}

	out, err := f.run(t, "results", poll.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "1st")
	assert.Contains(t, out, "6 points")

	out, err = f.run(t, "results", "--json", poll.ID)
	require.NoError(t, err)
	var result models.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.NotNil(t, result.Ranked)
	assert.Equal(t, "B", result.Ranked.Scores[0].Label)
}

func TestCloseAndSummaryCommands(t *testing.T) {
	f := newFixture(t)
	poll := f.createPoll(t, models.TypeSingle, "Lunch?", models.Options{Labels: []string{"Pizza", "Tacos"}})

	_, err := f.run(t, "summary", poll.ID, "too", "early")
	assert.ErrorIs(t, err, models.ErrPollStillOpen)

	out, err := f.run(t, "close", poll.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "closed "+poll.ID)

	_, err = f.run(t, "summary", poll.ID, "Nobody", "voted.")
	require.NoError(t, err)

	result, err := f.manager.Aggregate(context.Background(), poll.ID)
	require.NoError(t, err)
	assert.True(t, result.Closed)
	require.NotNil(t, result.Summary)
	assert.Equal(t, "Nobody voted.", *result.Summary)
}

func TestAdminKeyCommand(t *testing.T) {
	f := newFixture(t)
	poll := f.createPoll(t, models.TypeSingle, "Lunch?", models.Options{Labels: []string{"Pizza", "Tacos"}})

	t.Setenv("ADMIN_KEY_SALT", "")
	_, err := f.run(t, "admin-key", poll.ID)
	assert.ErrorIs(t, err, errNoSalt)

	out, err := f.run(t, "admin-key", "--admin-salt", "s3cret", poll.ID)
	require.NoError(t, err)
	assert.Equal(t, auth.GenerateAdminKey(poll.ID, "s3cret")+"\n", out)
}
