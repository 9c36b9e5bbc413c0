// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-poll/models"
)

// CreatePoll validates the schema, allocates a fresh id and persists an open
// poll. Malformed schemas fail with models.ErrInvalidSchema.
func (s *Store) CreatePoll(ctx context.Context, t models.PollType, question string, opts models.Options) (models.Poll, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return models.Poll{}, fmt.Errorf("%w: question is required", models.ErrInvalidSchema)
	}

	opts = models.NormalizeOptions(opts)
	if err := models.ValidateOptions(t, opts); err != nil {
		return models.Poll{}, err
	}

	poll := models.Poll{
		ID:        uuid.NewString(),
		Type:      t,
		Question:  question,
		Options:   opts,
		CreatedAt: s.Now(),
	}

	err := s.InTx(ctx, func(q *Queries) error {
		return q.InsertPoll(ctx, poll)
	})
	if err != nil {
		return models.Poll{}, err
	}

	s.logger.Info("poll stored", "poll_id", poll.ID, "type", poll.Type)
	return poll, nil
}

// InsertPoll writes a poll row as given. CreatePoll is the validated entry
// point; this is exposed for transactions and fixtures.
func (q *Queries) InsertPoll(ctx context.Context, p models.Poll) error {
	options, err := json.Marshal(p.Options)
	if err != nil {
		return fmt.Errorf("failed to encode options: %w", err)
	}

	_, err = q.q.ExecContext(ctx, q.rebind(`
		INSERT INTO poll (id, type, question, options, created_at, closed, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), p.ID, string(p.Type), p.Question, string(options), p.CreatedAt.UnixMicro(), p.Closed, nullString(p.Summary))
	if err != nil {
		return storageErr("insert poll", err)
	}
	return nil
}

const pollColumns = `id, type, question, options, created_at, closed, summary`

// GetPoll loads a poll by id, failing with models.ErrNotFound.
func (q *Queries) GetPoll(ctx context.Context, id string) (models.Poll, error) {
	row := q.q.QueryRowContext(ctx, q.rebind(`
		SELECT `+pollColumns+`
		FROM poll
		WHERE id = ?
	`), id)

	poll, err := scanPoll(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Poll{}, fmt.Errorf("%w: %s", models.ErrNotFound, id)
	}
	if err != nil {
		return models.Poll{}, err
	}
	return poll, nil
}

// ListPolls returns every poll, newest first.
func (q *Queries) ListPolls(ctx context.Context) ([]models.Poll, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT `+pollColumns+`
		FROM poll
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, storageErr("list polls", err)
	}
	defer rows.Close()

	polls := []models.Poll{}
	for rows.Next() {
		poll, err := scanPoll(rows)
		if err != nil {
			return nil, err
		}
		polls = append(polls, poll)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list polls", err)
	}
	return polls, nil
}

// ListSummaries returns every poll with its vote count, newest first.
func (q *Queries) ListSummaries(ctx context.Context) ([]models.PollSummary, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT p.id, p.type, p.question, p.closed, p.created_at,
		       (SELECT COUNT(*) FROM vote v WHERE v.poll_id = p.id)
		FROM poll p
		ORDER BY p.created_at DESC, p.id DESC
	`)
	if err != nil {
		return nil, storageErr("list poll summaries", err)
	}
	defer rows.Close()

	summaries := []models.PollSummary{}
	for rows.Next() {
		var (
			s         models.PollSummary
			pollType  string
			createdAt int64
		)
		if err := rows.Scan(&s.ID, &pollType, &s.Question, &s.Closed, &createdAt, &s.VoteCount); err != nil {
			return nil, storageErr("scan poll summary", err)
		}
		s.Type = models.PollType(pollType)
		s.CreatedAt = time.UnixMicro(createdAt)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list poll summaries", err)
	}
	return summaries, nil
}

// ClosePoll marks a poll closed. Closing a closed poll succeeds unchanged.
func (q *Queries) ClosePoll(ctx context.Context, id string) error {
	res, err := q.q.ExecContext(ctx, q.rebind(`
		UPDATE poll SET closed = ? WHERE id = ?
	`), true, id)
	if err != nil {
		return storageErr("close poll", err)
	}
	return expectOneRow(res, id)
}

// AttachSummary stores summary text on a poll. Whether the poll must be
// closed first is decided by the caller.
func (q *Queries) AttachSummary(ctx context.Context, id, text string) error {
	res, err := q.q.ExecContext(ctx, q.rebind(`
		UPDATE poll SET summary = ? WHERE id = ?
	`), text, id)
	if err != nil {
		return storageErr("attach summary", err)
	}
	return expectOneRow(res, id)
}

func expectOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("rows affected", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", models.ErrNotFound, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPoll(row rowScanner) (models.Poll, error) {
	var (
		p         models.Poll
		pollType  string
		options   []byte
		createdAt int64
		summary   sql.NullString
	)
	err := row.Scan(&p.ID, &pollType, &p.Question, &options, &createdAt, &p.Closed, &summary)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Poll{}, err
	}
	if err != nil {
		return models.Poll{}, storageErr("scan poll", err)
	}

	if err := json.Unmarshal(options, &p.Options); err != nil {
		return models.Poll{}, storageErr("decode options", err)
	}
	p.Type = models.PollType(pollType)
	p.CreatedAt = time.UnixMicro(createdAt)
	if summary.Valid {
		p.Summary = &summary.String
	}
	return p, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
