// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Result is the aggregated view of a poll. Exactly one of Tally, Ranked or
// Matrix is set, according to Type.
type Result struct {
	PollID     string        `json:"poll_id"`
	Type       PollType      `json:"type"`
	Question   string        `json:"question"`
	Closed     bool          `json:"closed"`
	TotalVotes int           `json:"total_votes"`
	Tally      []OptionCount `json:"tally,omitempty"`
	Ranked     *RankedResult `json:"ranked,omitempty"`
	Matrix     *MatrixResult `json:"matrix,omitempty"`
	Summary    *string       `json:"summary,omitempty"`
}

// Single-choice

type OptionCount struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Ranked (Borda)

type OptionScore struct {
	Label string `json:"label"`
	Score int    `json:"score"`
	Rank  int    `json:"rank"` // 1-indexed
}

type RankedBallot struct {
	VoterName string    `json:"voter_name"`
	Ranking   []string  `json:"ranking"`
	Timestamp time.Time `json:"timestamp"`
}

type RankedResult struct {
	Scores  []OptionScore  `json:"scores"`
	Ballots []RankedBallot `json:"ballots"`
}

// Matrix

// MatrixCell aggregates one (item, criterion) pair. YesRatio is set for
// yes_no criteria and Mean for scale criteria; both stay nil when nobody
// answered (NoData).
type MatrixCell struct {
	Item      string        `json:"item"`
	Criterion string        `json:"criterion"`
	Kind      CriterionKind `json:"kind"`
	Answered  int           `json:"answered"`
	YesRatio  *float64      `json:"yes_ratio,omitempty"`
	Mean      *float64      `json:"mean,omitempty"`
	TextCount int           `json:"text_count,omitempty"`
	NoData    bool          `json:"no_data"`
}

// TextResponse is a free-text answer exposed verbatim for audit.
type TextResponse struct {
	VoterName string `json:"voter_name"`
	Item      string `json:"item"`
	Criterion string `json:"criterion"`
	Text      string `json:"text"`
}

type MatrixResult struct {
	Cells []MatrixCell   `json:"cells"`
	Texts []TextResponse `json:"texts"`
}
