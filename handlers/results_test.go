// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-poll/models"
	"github.com/danielhkuo/quickly-poll/testutil"
)

func getResults(h *ResultsHandler, pollID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/polls/"+pollID+"/results", nil)
	req.SetPathValue("id", pollID)
	w := httptest.NewRecorder()
	h.GetResults(w, req)
	return w
}

func TestGetResults(t *testing.T) {
	manager, _ := testutil.SetupTestManager(t)
	cfg := testutil.GetTestConfig()
	handler := NewResultsHandler(manager)

	t.Run("single choice live", func(t *testing.T) {
		poll, _ := testutil.CreateTestPoll(t, manager, cfg, models.TypeSingle, "Lunch?", models.Options{Labels: []string{"Pizza", "Tacos"}})
		for _, idx := range []int{0, 1, 1} {
			_, err := manager.CastVote(context.Background(), poll.ID, models.SingleVote{OptionIndex: idx})
			require.NoError(t, err)
		}

		w := getResults(handler, poll.ID)
		testutil.AssertStatus(t, w, http.StatusOK)

		var result models.Result
		testutil.AssertJSON(t, w, &result)
		assert.False(t, result.Closed)
		assert.Equal(t, 3, result.TotalVotes)
		require.Len(t, result.Tally, 2)
		assert.Equal(t, 1, result.Tally[0].Count)
		assert.Equal(t, 2, result.Tally[1].Count)
	})

	t.Run("ranked final", func(t *testing.T) {
		poll, _ := testutil.CreateClosedPoll(t, manager, cfg, models.TypeRanked, "Order?", models.Options{Labels: []string{"A", "B", "C"}},
			models.RankedVote{VoterName: "u1", Ranking: []string{"A", "B", "C"}},
			models.RankedVote{VoterName: "u2", Ranking: []string{"B", "A", "C"}},
		)

		w := getResults(handler, poll.ID)
		testutil.AssertStatus(t, w, http.StatusOK)

		var result models.Result
		testutil.AssertJSON(t, w, &result)
		assert.True(t, result.Closed)
		require.NotNil(t, result.Ranked)
		assert.Equal(t, []models.OptionScore{
			{Label: "A", Score: 5, Rank: 1},
			{Label: "B", Score: 5, Rank: 2},
			{Label: "C", Score: 2, Rank: 3},
		}, result.Ranked.Scores)
		assert.Len(t, result.Ranked.Ballots, 2)
	})

	t.Run("matrix without responses", func(t *testing.T) {
		poll, _ := testutil.CreateTestPoll(t, manager, cfg, models.TypeMatrix, "Vendors", models.Options{
			Items:    []string{"Acme"},
			Criteria: []models.Criterion{{Label: "Cheap", Kind: models.KindYesNo}},
		})

		w := getResults(handler, poll.ID)
		testutil.AssertStatus(t, w, http.StatusOK)

		var result models.Result
		testutil.AssertJSON(t, w, &result)
		require.NotNil(t, result.Matrix)
		require.Len(t, result.Matrix.Cells, 1)
		assert.True(t, result.Matrix.Cells[0].NoData)
		assert.Nil(t, result.Matrix.Cells[0].YesRatio)
	})

	t.Run("not found", func(t *testing.T) {
		w := getResults(handler, "missing")
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}
