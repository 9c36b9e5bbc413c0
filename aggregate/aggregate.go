// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package aggregate

import (
	"sort"
	"strings"

	"github.com/danielhkuo/quickly-poll/models"
)

// Compute builds the result of a poll from its full event history. It never
// modifies events and keeps no state between calls.
func Compute(poll models.Poll, events []models.VoteEvent) models.Result {
	result := models.Result{
		PollID:     poll.ID,
		Type:       poll.Type,
		Question:   poll.Question,
		Closed:     poll.Closed,
		TotalVotes: len(events),
		Summary:    poll.Summary,
	}

	switch poll.Type {
	case models.TypeSingle:
		result.Tally = Tally(poll.Options.Labels, events)
	case models.TypeRanked:
		ranked := Borda(poll.Options.Labels, events)
		result.Ranked = &ranked
	case models.TypeMatrix:
		matrix := Matrix(poll.Options, events)
		result.Matrix = &matrix
	}

	return result
}

// Tally counts single-choice ballots per option, in option order.
func Tally(labels []string, events []models.VoteEvent) []models.OptionCount {
	counts := make([]models.OptionCount, len(labels))
	for i, label := range labels {
		counts[i] = models.OptionCount{Index: i, Label: label}
	}

	for _, ev := range events {
		vote, ok := ev.Ballot.(models.SingleVote)
		if !ok {
			continue
		}
		if vote.OptionIndex >= 0 && vote.OptionIndex < len(counts) {
			counts[vote.OptionIndex].Count++
		}
	}

	return counts
}

// Borda scores ranked ballots: with n options, the option at position i
// (0 = most preferred) earns n-i points. Scores are sorted descending, ties
// keeping option order. Ballots are returned unmodified for audit.
func Borda(labels []string, events []models.VoteEvent) models.RankedResult {
	n := len(labels)
	position := make(map[string]int, n)
	for i, label := range labels {
		position[label] = i
	}

	scores := make([]models.OptionScore, n)
	for i, label := range labels {
		scores[i] = models.OptionScore{Label: label}
	}

	ballots := []models.RankedBallot{}
	for _, ev := range events {
		vote, ok := ev.Ballot.(models.RankedVote)
		if !ok {
			continue
		}
		ballots = append(ballots, models.RankedBallot{
			VoterName: vote.VoterName,
			Ranking:   vote.Ranking,
			Timestamp: ev.Timestamp,
		})

		for rank, label := range vote.Ranking {
			idx, known := position[label]
			if !known || rank >= n {
				continue
			}
			scores[idx].Score += n - rank
		}
	}

	// Stable sort keeps original option order among equal scores
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	for i := range scores {
		scores[i].Rank = i + 1
	}

	return models.RankedResult{
		Scores:  scores,
		Ballots: ballots,
	}
}

// Matrix rolls up each (item, criterion) cell: the share of the item's
// respondents who answered Yes for yes_no, the mean for scale_1_5 and the
// number of non-empty answers for text. Cells without data are marked NoData
// instead of dividing by zero.
func Matrix(opts models.Options, events []models.VoteEvent) models.MatrixResult {
	var votes []models.MatrixVote
	for _, ev := range events {
		if vote, ok := ev.Ballot.(models.MatrixVote); ok {
			votes = append(votes, vote)
		}
	}

	result := models.MatrixResult{
		Cells: []models.MatrixCell{},
		Texts: []models.TextResponse{},
	}

	for _, item := range opts.Items {
		for _, c := range opts.Criteria {
			cell := models.MatrixCell{Item: item, Criterion: c.Label, Kind: c.Kind}
			answers := answersFor(votes, item, c.Label)

			switch c.Kind {
			case models.KindYesNo:
				// The denominator is everyone who answered the item, on any criterion
				yes := 0
				for _, a := range answers {
					if s, ok := a.value.(string); ok && s == models.AnswerYes {
						yes++
					}
				}
				cell.Answered = respondents(votes, item)
				if cell.Answered > 0 {
					ratio := float64(yes) / float64(cell.Answered)
					cell.YesRatio = &ratio
				}

			case models.KindScale:
				var values []float64
				for _, a := range answers {
					if v, ok := models.ScaleValue(a.value); ok {
						values = append(values, float64(v))
					}
				}
				cell.Answered = len(values)
				if len(values) > 0 {
					m := mean(values)
					cell.Mean = &m
				}

			case models.KindText:
				for _, a := range answers {
					s, ok := a.value.(string)
					if !ok {
						continue
					}
					cell.Answered++
					if strings.TrimSpace(s) == "" {
						continue
					}
					cell.TextCount++
					result.Texts = append(result.Texts, models.TextResponse{
						VoterName: a.voter,
						Item:      item,
						Criterion: c.Label,
						Text:      s,
					})
				}
			}

			cell.NoData = cell.Answered == 0
			result.Cells = append(result.Cells, cell)
		}
	}

	return result
}

type answer struct {
	voter string
	value any
}

// answersFor picks the answers to one cell, in ledger order.
func answersFor(votes []models.MatrixVote, item, criterion string) []answer {
	var out []answer
	for _, v := range votes {
		value, ok := v.Responses[item][criterion]
		if !ok {
			continue
		}
		out = append(out, answer{voter: v.VoterName, value: value})
	}
	return out
}

// respondents counts the voters who answered at least one criterion of item.
func respondents(votes []models.MatrixVote, item string) int {
	n := 0
	for _, v := range votes {
		if len(v.Responses[item]) > 0 {
			n++
		}
	}
	return n
}

// mean calculates the arithmetic mean
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
