// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package admission

import (
	"fmt"
	"slices"

	"github.com/danielhkuo/quickly-poll/models"
)

// VoterLookup reports whether name already has an event in the poll's
// ledger. Names match exactly, case included.
type VoterLookup func(name string) (bool, error)

// Admit decides whether ballot may be recorded against poll. It returns nil
// to allow, or an error wrapping one of the models rejection sentinels.
// Checks run in a fixed order: existence, closed state, ballot type, then
// type-specific structure and voter uniqueness. A nil voted treats the
// ledger as empty.
func Admit(poll *models.Poll, ballot models.Ballot, voted VoterLookup) error {
	if poll == nil {
		return models.ErrNotFound
	}
	if poll.Closed {
		return fmt.Errorf("%w: %s", models.ErrPollClosed, poll.ID)
	}
	if m, ok := ballot.(models.MalformedVote); ok && m.Type == poll.Type {
		return m.Err
	}
	if ballot == nil || ballot.PollType() != poll.Type {
		return fmt.Errorf("%w: %s poll cannot take a %s ballot", models.ErrTypeMismatch, poll.Type, ballotType(ballot))
	}
	if voted == nil {
		voted = func(string) (bool, error) { return false, nil }
	}

	switch b := ballot.(type) {
	case models.SingleVote:
		return admitSingle(poll, b)
	case models.RankedVote:
		return admitRanked(poll, b, voted)
	case models.MatrixVote:
		return admitMatrix(poll, b, voted)
	}
	return fmt.Errorf("%w: unsupported ballot %T", models.ErrTypeMismatch, ballot)
}

func ballotType(b models.Ballot) string {
	if b == nil || b.PollType() == "" {
		return "empty"
	}
	return string(b.PollType())
}

func admitSingle(poll *models.Poll, b models.SingleVote) error {
	if b.OptionIndex < 0 || b.OptionIndex >= len(poll.Options.Labels) {
		return fmt.Errorf("%w: index %d out of range [0, %d)", models.ErrInvalidOption, b.OptionIndex, len(poll.Options.Labels))
	}
	return nil
}

func admitRanked(poll *models.Poll, b models.RankedVote, voted VoterLookup) error {
	if b.VoterName == "" {
		return fmt.Errorf("%w: voter name is required", models.ErrInvalidRanking)
	}
	if err := checkPermutation(poll.Options.Labels, b.Ranking); err != nil {
		return err
	}
	return checkUnique(b.VoterName, voted)
}

// checkPermutation requires ranking to list every option exactly once.
func checkPermutation(options, ranking []string) error {
	if len(ranking) != len(options) {
		return fmt.Errorf("%w: ranked %d of %d options", models.ErrInvalidRanking, len(ranking), len(options))
	}
	seen := make(map[string]bool, len(ranking))
	for _, label := range ranking {
		if !slices.Contains(options, label) {
			return fmt.Errorf("%w: unknown option %q", models.ErrInvalidRanking, label)
		}
		if seen[label] {
			return fmt.Errorf("%w: option %q ranked twice", models.ErrInvalidRanking, label)
		}
		seen[label] = true
	}
	return nil
}

func admitMatrix(poll *models.Poll, b models.MatrixVote, voted VoterLookup) error {
	if b.VoterName == "" {
		return fmt.Errorf("%w: voter name is required", models.ErrInvalidResponse)
	}
	if err := checkUnique(b.VoterName, voted); err != nil {
		return err
	}

	// One malformed answer rejects the whole submission.
	for item, answers := range b.Responses {
		if !poll.Options.HasItem(item) {
			return fmt.Errorf("%w: unknown item %q", models.ErrInvalidResponse, item)
		}
		for label, value := range answers {
			criterion, ok := poll.Options.Criterion(label)
			if !ok {
				return fmt.Errorf("%w: unknown criterion %q", models.ErrInvalidResponse, label)
			}
			if !validAnswer(criterion.Kind, value) {
				return fmt.Errorf("%w: %v is not a valid %s answer for %q/%q",
					models.ErrInvalidResponse, value, criterion.Kind, item, label)
			}
		}
	}
	return nil
}

func validAnswer(kind models.CriterionKind, value any) bool {
	switch kind {
	case models.KindYesNo:
		s, ok := value.(string)
		return ok && (s == models.AnswerYes || s == models.AnswerNo)
	case models.KindScale:
		_, ok := models.ScaleValue(value)
		return ok
	case models.KindText:
		_, ok := value.(string)
		return ok
	}
	return false
}

func checkUnique(name string, voted VoterLookup) error {
	dup, err := voted(name)
	if err != nil {
		return err
	}
	if dup {
		return fmt.Errorf("%w: %q", models.ErrDuplicateVoter, name)
	}
	return nil
}
