// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-poll/auth"
	"github.com/danielhkuo/quickly-poll/cliparse"
	"github.com/danielhkuo/quickly-poll/db"
	"github.com/danielhkuo/quickly-poll/lifecycle"
	"github.com/danielhkuo/quickly-poll/models"
	"github.com/danielhkuo/quickly-poll/store"
)

// SetupTestDB opens a private in-memory SQLite database with the full schema.
// It is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(context.Background(), db.SQLite, ":memory:")
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { conn.Close() })

	return conn
}

// SetupTestManager returns a lifecycle manager backed by a fresh database.
func SetupTestManager(t *testing.T) (*lifecycle.Manager, *sql.DB) {
	t.Helper()

	conn := SetupTestDB(t)
	return lifecycle.NewManager(store.New(conn, db.SQLite, nil), nil), conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   ":memory:",
		DatabaseType:  db.SQLite,
		AdminKeySalt:  "test-admin-salt",
		PublicBaseURL: "http://polls.test",
	}
}

// CreateTestPoll creates an open poll and returns it with its admin key.
func CreateTestPoll(t *testing.T, m *lifecycle.Manager, cfg cliparse.Config, pollType models.PollType, question string, opts models.Options) (models.Poll, string) {
	t.Helper()

	poll, err := m.CreatePoll(context.Background(), lifecycle.CreatePollInput{
		Type:     pollType,
		Question: question,
		Options:  opts,
	})
	require.NoError(t, err, "failed to create test poll")

	return poll, auth.GenerateAdminKey(poll.ID, cfg.AdminKeySalt)
}

// CreateClosedPoll creates a poll, records the given ballots and closes it.
func CreateClosedPoll(t *testing.T, m *lifecycle.Manager, cfg cliparse.Config, pollType models.PollType, question string, opts models.Options, ballots ...models.Ballot) (models.Poll, string) {
	t.Helper()

	poll, adminKey := CreateTestPoll(t, m, cfg, pollType, question, opts)
	for _, b := range ballots {
		_, err := m.CastVote(context.Background(), poll.ID, b)
		require.NoError(t, err, "failed to cast test vote")
	}
	require.NoError(t, m.ClosePoll(context.Background(), poll.ID))

	return poll, adminKey
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(v), "failed to decode JSON response")
}

// AssertErrorCode decodes an error body and checks its reason code.
func AssertErrorCode(t *testing.T, w *httptest.ResponseRecorder, code string) {
	t.Helper()
	var resp models.ErrorResponse
	AssertJSON(t, w, &resp)
	require.Equal(t, code, resp.Code, "message: %s", resp.Message)
}
