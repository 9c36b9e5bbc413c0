// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "errors"

var (
	ErrNotFound        = errors.New("poll not found")
	ErrInvalidSchema   = errors.New("invalid poll schema")
	ErrPollClosed      = errors.New("poll is closed")
	ErrTypeMismatch    = errors.New("ballot does not match poll type")
	ErrInvalidOption   = errors.New("invalid option")
	ErrInvalidRanking  = errors.New("invalid ranking")
	ErrInvalidResponse = errors.New("invalid response")
	ErrDuplicateVoter  = errors.New("voter has already voted")
	ErrPollStillOpen   = errors.New("poll is still open")
	ErrStorageIO       = errors.New("storage failure")
)

// Reason codes returned to clients so each rejection can be rendered
// with its own message.
const (
	CodeNotFound        = "not_found"
	CodeInvalidSchema   = "invalid_schema"
	CodePollClosed      = "poll_closed"
	CodeTypeMismatch    = "type_mismatch"
	CodeInvalidOption   = "invalid_option"
	CodeInvalidRanking  = "invalid_ranking"
	CodeInvalidResponse = "invalid_response"
	CodeDuplicateVoter  = "duplicate_voter"
	CodePollStillOpen   = "poll_still_open"
	CodeStorageIO       = "storage_io"
)

var reasonCodes = []struct {
	err  error
	code string
}{
	{ErrNotFound, CodeNotFound},
	{ErrInvalidSchema, CodeInvalidSchema},
	{ErrPollClosed, CodePollClosed},
	{ErrTypeMismatch, CodeTypeMismatch},
	{ErrInvalidOption, CodeInvalidOption},
	{ErrInvalidRanking, CodeInvalidRanking},
	{ErrInvalidResponse, CodeInvalidResponse},
	{ErrDuplicateVoter, CodeDuplicateVoter},
	{ErrPollStillOpen, CodePollStillOpen},
	{ErrStorageIO, CodeStorageIO},
}

// ReasonCode maps an error onto its stable reason code, or "" when the
// error is not part of the poll error taxonomy.
func ReasonCode(err error) string {
	for _, rc := range reasonCodes {
		if errors.Is(err, rc.err) {
			return rc.code
		}
	}
	return ""
}
