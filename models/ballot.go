// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Ballot is the payload of a vote event. Exactly one of SingleVote,
// RankedVote or MatrixVote; the variant must match the poll type.
type Ballot interface {
	PollType() PollType
	ballot()
}

type SingleVote struct {
	OptionIndex int `json:"option_index"`
}

type RankedVote struct {
	VoterName string   `json:"voter_name"`
	Ranking   []string `json:"ranking"`
}

// MatrixVote maps item -> criterion label -> answer. Answers are strings for
// yes_no and text criteria and integers 1-5 for scale criteria.
type MatrixVote struct {
	VoterName string                    `json:"voter_name"`
	Responses map[string]map[string]any `json:"responses"`
}

// MalformedVote stands in for a request that could not be read as a ballot.
// Type is the variant the request resembled, or empty when it named no ballot
// fields. Admission reports Err only after the poll is known to exist and be
// open; a MalformedVote is never stored.
type MalformedVote struct {
	Type PollType
	Err  error
}

func (SingleVote) PollType() PollType { return TypeSingle }
func (RankedVote) PollType() PollType { return TypeRanked }
func (MatrixVote) PollType() PollType { return TypeMatrix }
func (m MalformedVote) PollType() PollType { return m.Type }

func (SingleVote) ballot() {}
func (RankedVote) ballot() {}
func (MatrixVote) ballot() {}
func (MalformedVote) ballot() {}

// VoterName returns the identity carried by a ballot, or "" for anonymous
// single-choice ballots.
func VoterName(b Ballot) string {
	switch v := b.(type) {
	case RankedVote:
		return v.VoterName
	case MatrixVote:
		return v.VoterName
	}
	return ""
}

// EncodeBallot serializes a ballot payload for storage.
func EncodeBallot(b Ballot) ([]byte, error) {
	switch v := b.(type) {
	case nil:
		return nil, fmt.Errorf("nil ballot")
	case MalformedVote:
		return nil, fmt.Errorf("malformed ballot: %w", v.Err)
	}
	return json.Marshal(b)
}

// DecodeBallot restores a stored payload using the type of its poll.
func DecodeBallot(t PollType, data []byte) (Ballot, error) {
	switch t {
	case TypeSingle:
		var v SingleVote
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	case TypeRanked:
		var v RankedVote
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	case TypeMatrix:
		var v MatrixVote
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, fmt.Errorf("unknown poll type %q", t)
}

// ScaleValue converts a matrix answer to a 1-5 scale point. Non-integral
// numbers and strings are rejected.
func ScaleValue(v any) (int, bool) {
	var n int
	switch x := v.(type) {
	case int:
		n = x
	case int64:
		n = int(x)
	case float64:
		if x != math.Trunc(x) {
			return 0, false
		}
		n = int(x)
	case json.Number:
		i, err := strconv.Atoi(x.String())
		if err != nil {
			return 0, false
		}
		n = i
	default:
		return 0, false
	}
	if n < 1 || n > 5 {
		return 0, false
	}
	return n, true
}

// CastVoteRequest is the JSON body of POST /polls/{id}/votes. The ballot
// variant is picked from which fields are present, not from the poll, so a
// payload of the wrong shape reaches the admission check as a TypeMismatch.
type CastVoteRequest struct {
	OptionIndex json.RawMessage           `json:"option_index,omitempty"`
	VoterName   string                    `json:"voter_name,omitempty"`
	Ranking     []string                  `json:"ranking,omitempty"`
	Responses   map[string]map[string]any `json:"responses,omitempty"`
}

// Ballot converts the request into its ballot variant. Requests that cannot
// be converted come back as a MalformedVote for admission to reject.
func (r CastVoteRequest) Ballot() Ballot {
	name := strings.TrimSpace(r.VoterName)
	switch {
	case r.Ranking != nil:
		return RankedVote{VoterName: name, Ranking: r.Ranking}
	case r.Responses != nil:
		return MatrixVote{VoterName: name, Responses: r.Responses}
	case len(r.OptionIndex) > 0:
		idx, err := ParseOptionIndex(string(r.OptionIndex))
		if err != nil {
			return MalformedVote{Type: TypeSingle, Err: err}
		}
		return SingleVote{OptionIndex: idx}
	}
	return MalformedVote{Err: fmt.Errorf("%w: request carries no ballot fields", ErrTypeMismatch)}
}

// ParseOptionIndex accepts only base-10 integers; "1.5", "1e0" and quoted
// values are rejected rather than rounded.
func ParseOptionIndex(raw string) (int, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: option index %s is not an integer", ErrInvalidOption, raw)
	}
	return idx, nil
}
