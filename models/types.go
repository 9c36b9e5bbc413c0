// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"fmt"
	"strings"
	"time"
)

// PollType fixes the ballot shape and aggregation of a poll at creation.
type PollType string

// Poll type constants
const (
	TypeSingle PollType = "single"
	TypeRanked PollType = "ranked"
	TypeMatrix PollType = "matrix"
)

// Valid reports whether t is one of the known poll types.
func (t PollType) Valid() bool {
	switch t {
	case TypeSingle, TypeRanked, TypeMatrix:
		return true
	}
	return false
}

// CriterionKind is the answer type of a matrix criterion.
type CriterionKind string

// Criterion kind constants
const (
	KindYesNo CriterionKind = "yes_no"
	KindScale CriterionKind = "scale_1_5"
	KindText  CriterionKind = "text"
)

func (k CriterionKind) Valid() bool {
	switch k {
	case KindYesNo, KindScale, KindText:
		return true
	}
	return false
}

// Yes/No answers accepted for yes_no criteria.
const (
	AnswerYes = "Yes"
	AnswerNo  = "No"
)

// MaxOptions caps single/ranked ballots; the Slack message has ten emoji digits.
const MaxOptions = 10

type Criterion struct {
	Label string        `json:"label"`
	Kind  CriterionKind `json:"kind"`
}

// Options holds the answer schema of a poll. Labels is used by single and
// ranked polls, Items and Criteria by matrix polls.
type Options struct {
	Labels   []string    `json:"labels,omitempty"`
	Items    []string    `json:"items,omitempty"`
	Criteria []Criterion `json:"criteria,omitempty"`
}

// Criterion looks up a matrix criterion by label.
func (o Options) Criterion(label string) (Criterion, bool) {
	for _, c := range o.Criteria {
		if c.Label == label {
			return c, true
		}
	}
	return Criterion{}, false
}

// HasItem reports whether item is one of the matrix subjects.
func (o Options) HasItem(item string) bool {
	for _, it := range o.Items {
		if it == item {
			return true
		}
	}
	return false
}

// NormalizeOptions trims labels and drops blank entries, the same cleanup the
// poll creation form applies before submitting.
func NormalizeOptions(o Options) Options {
	out := Options{
		Labels: trimAll(o.Labels),
		Items:  trimAll(o.Items),
	}
	for _, c := range o.Criteria {
		label := strings.TrimSpace(c.Label)
		if label == "" {
			continue
		}
		out.Criteria = append(out.Criteria, Criterion{Label: label, Kind: c.Kind})
	}
	return out
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ValidateOptions checks an options schema against its poll type.
// Every failure wraps ErrInvalidSchema.
func ValidateOptions(t PollType, o Options) error {
	switch t {
	case TypeSingle, TypeRanked:
		if len(o.Labels) < 2 {
			return fmt.Errorf("%w: at least 2 options required, got %d", ErrInvalidSchema, len(o.Labels))
		}
		if len(o.Labels) > MaxOptions {
			return fmt.Errorf("%w: at most %d options allowed, got %d", ErrInvalidSchema, MaxOptions, len(o.Labels))
		}
		if dup, ok := firstDuplicate(o.Labels); ok {
			return fmt.Errorf("%w: duplicate option %q", ErrInvalidSchema, dup)
		}
		if len(o.Items) > 0 || len(o.Criteria) > 0 {
			return fmt.Errorf("%w: %s poll cannot have items or criteria", ErrInvalidSchema, t)
		}
	case TypeMatrix:
		if len(o.Items) == 0 {
			return fmt.Errorf("%w: matrix poll needs at least one item", ErrInvalidSchema)
		}
		if len(o.Criteria) == 0 {
			return fmt.Errorf("%w: matrix poll needs at least one criterion", ErrInvalidSchema)
		}
		if dup, ok := firstDuplicate(o.Items); ok {
			return fmt.Errorf("%w: duplicate item %q", ErrInvalidSchema, dup)
		}
		labels := make([]string, 0, len(o.Criteria))
		for _, c := range o.Criteria {
			if !c.Kind.Valid() {
				return fmt.Errorf("%w: criterion %q has unknown kind %q", ErrInvalidSchema, c.Label, c.Kind)
			}
			labels = append(labels, c.Label)
		}
		if dup, ok := firstDuplicate(labels); ok {
			return fmt.Errorf("%w: duplicate criterion %q", ErrInvalidSchema, dup)
		}
		if len(o.Labels) > 0 {
			return fmt.Errorf("%w: matrix poll cannot have option labels", ErrInvalidSchema)
		}
	default:
		return fmt.Errorf("%w: unknown poll type %q", ErrInvalidSchema, t)
	}
	return nil
}

func firstDuplicate(values []string) (string, bool) {
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if seen[v] {
			return v, true
		}
		seen[v] = true
	}
	return "", false
}

// Domain types

type Poll struct {
	ID        string    `json:"id"`
	Type      PollType  `json:"type"`
	Question  string    `json:"question"`
	Options   Options   `json:"options"`
	CreatedAt time.Time `json:"created_at"`
	Closed    bool      `json:"closed"`
	Summary   *string   `json:"summary,omitempty"`
}

// VoteEvent is one immutable submission recorded in the ledger.
type VoteEvent struct {
	ID        int64     `json:"id"`
	PollID    string    `json:"poll_id"`
	Timestamp time.Time `json:"timestamp"`
	Ballot    Ballot    `json:"payload"`
}

type PollWithEvents struct {
	Poll   Poll        `json:"poll"`
	Events []VoteEvent `json:"events"`
}

type PollSummary struct {
	ID        string    `json:"id"`
	Type      PollType  `json:"type"`
	Question  string    `json:"question"`
	Closed    bool      `json:"closed"`
	VoteCount int       `json:"vote_count"`
	CreatedAt time.Time `json:"created_at"`
}

// Request types

type CreatePollRequest struct {
	Type     PollType    `json:"type"`
	Question string      `json:"question"`
	Options  []string    `json:"options,omitempty"`
	Items    []string    `json:"items,omitempty"`
	Criteria []Criterion `json:"criteria,omitempty"`
}

type AttachSummaryRequest struct {
	Text string `json:"text"`
}

// Response types

type CreatePollResponse struct {
	PollID   string `json:"poll_id"`
	AdminKey string `json:"admin_key"`
	VoteURL  string `json:"vote_url"`
	Notified bool   `json:"notified"`
}

type CastVoteResponse struct {
	VoteID  int64  `json:"vote_id"`
	Message string `json:"message"`
}

type ClosePollResponse struct {
	PollID string `json:"poll_id"`
	Closed bool   `json:"closed"`
}

type AttachSummaryResponse struct {
	PollID  string `json:"poll_id"`
	Summary string `json:"summary"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}
