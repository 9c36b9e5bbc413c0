// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lifecycle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/quickly-poll/admission"
	"github.com/danielhkuo/quickly-poll/aggregate"
	"github.com/danielhkuo/quickly-poll/models"
	"github.com/danielhkuo/quickly-poll/store"
)

// CreatePollInput carries a new poll definition.
type CreatePollInput struct {
	Type     models.PollType
	Question string
	Options  models.Options
}

// Manager is the entry point for poll operations. Writes to the same poll
// are serialized, and each vote's admission check and append share one
// transaction.
type Manager struct {
	store  *store.Store
	locks  *pollLocks
	logger *slog.Logger
}

func NewManager(s *store.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:  s,
		locks:  newPollLocks(),
		logger: logger,
	}
}

// CreatePoll stores a new open poll.
func (m *Manager) CreatePoll(ctx context.Context, in CreatePollInput) (models.Poll, error) {
	poll, err := m.store.CreatePoll(ctx, in.Type, in.Question, in.Options)
	if err != nil {
		return models.Poll{}, err
	}

	m.logger.Info("poll created", "poll_id", poll.ID, "type", poll.Type)
	return poll, nil
}

// CastVote admits and records a ballot. Rejections wrap the models
// rejection errors and leave the ledger untouched.
func (m *Manager) CastVote(ctx context.Context, pollID string, ballot models.Ballot) (models.VoteEvent, error) {
	unlock := m.locks.Lock(pollID)
	defer unlock()

	var event models.VoteEvent
	err := m.store.InTx(ctx, func(q *store.Queries) error {
		poll, err := q.GetPoll(ctx, pollID)
		if err != nil {
			return err
		}

		voted := func(name string) (bool, error) {
			return q.HasVoted(ctx, pollID, name)
		}
		if err := admission.Admit(&poll, ballot, voted); err != nil {
			return err
		}

		event, err = q.AppendVote(ctx, pollID, ballot, m.store.Now())
		return err
	})
	if err != nil {
		m.logger.Info("vote rejected", "poll_id", pollID, "reason", models.ReasonCode(err), "error", err)
		return models.VoteEvent{}, err
	}

	m.logger.Info("vote recorded", "poll_id", pollID, "vote_id", event.ID)
	return event, nil
}

// ClosePoll closes a poll for voting. Closing twice is not an error.
func (m *Manager) ClosePoll(ctx context.Context, pollID string) error {
	unlock := m.locks.Lock(pollID)
	defer unlock()

	err := m.store.InTx(ctx, func(q *store.Queries) error {
		return q.ClosePoll(ctx, pollID)
	})
	if err != nil {
		return err
	}

	m.logger.Info("poll closed", "poll_id", pollID)
	return nil
}

// GetPoll returns a poll together with its full event history.
func (m *Manager) GetPoll(ctx context.Context, pollID string) (models.PollWithEvents, error) {
	var out models.PollWithEvents
	err := m.store.InTx(ctx, func(q *store.Queries) error {
		poll, err := q.GetPoll(ctx, pollID)
		if err != nil {
			return err
		}
		events, err := q.Events(ctx, pollID)
		if err != nil {
			return err
		}
		out = models.PollWithEvents{Poll: poll, Events: events}
		return nil
	})
	if err != nil {
		return models.PollWithEvents{}, err
	}
	return out, nil
}

// ListPolls returns poll summaries, newest first.
func (m *Manager) ListPolls(ctx context.Context) ([]models.PollSummary, error) {
	return m.store.ListSummaries(ctx)
}

// Aggregate recomputes a poll's results from its ledger.
func (m *Manager) Aggregate(ctx context.Context, pollID string) (models.Result, error) {
	pe, err := m.GetPoll(ctx, pollID)
	if err != nil {
		return models.Result{}, err
	}
	return aggregate.Compute(pe.Poll, pe.Events), nil
}

// AttachSummary stores summary text on a closed poll.
func (m *Manager) AttachSummary(ctx context.Context, pollID, text string) error {
	unlock := m.locks.Lock(pollID)
	defer unlock()

	err := m.store.InTx(ctx, func(q *store.Queries) error {
		poll, err := q.GetPoll(ctx, pollID)
		if err != nil {
			return err
		}
		if !poll.Closed {
			return fmt.Errorf("%w: %s", models.ErrPollStillOpen, pollID)
		}
		return q.AttachSummary(ctx, pollID, text)
	})
	if err != nil {
		return err
	}

	m.logger.Info("summary attached", "poll_id", pollID, "length", len(text))
	return nil
}
