// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-poll/models"
)

func status(closed bool) string {
	if closed {
		return "closed"
	}
	return "open"
}

func printPollList(w io.Writer, polls []models.PollSummary) error {
	if len(polls) == 0 {
		_, err := fmt.Fprintln(w, "no polls")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tSTATUS\tVOTES\tCREATED\tQUESTION")
	for _, p := range polls {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Type, status(p.Closed), humanize.Comma(int64(p.VoteCount)),
			humanize.Time(p.CreatedAt), p.Question)
	}
	return tw.Flush()
}

func printPoll(w io.Writer, pe models.PollWithEvents) error {
	p := pe.Poll
	fmt.Fprintf(w, "%s\n", p.Question)
	fmt.Fprintf(w, "  id:      %s\n", p.ID)
	fmt.Fprintf(w, "  type:    %s\n", p.Type)
	fmt.Fprintf(w, "  status:  %s\n", status(p.Closed))
	fmt.Fprintf(w, "  created: %s (%s)\n", p.CreatedAt.Format("2006-01-02 15:04:05"), humanize.Time(p.CreatedAt))

	switch p.Type {
	case models.TypeSingle, models.TypeRanked:
		fmt.Fprintln(w, "  options:")
		for i, label := range p.Options.Labels {
			fmt.Fprintf(w, "    %d. %s\n", i+1, label)
		}
	case models.TypeMatrix:
		fmt.Fprintln(w, "  items:")
		for _, item := range p.Options.Items {
			fmt.Fprintf(w, "    - %s\n", item)
		}
		fmt.Fprintln(w, "  criteria:")
		for _, c := range p.Options.Criteria {
			fmt.Fprintf(w, "    - %s (%s)\n", c.Label, c.Kind)
		}
	}
	if p.Summary != nil {
		fmt.Fprintf(w, "  summary: %s\n", *p.Summary)
	}

	fmt.Fprintf(w, "\n%s %s\n", humanize.Comma(int64(len(pe.Events))), pluralize(len(pe.Events), "vote", "votes"))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, ev := range pe.Events {
		payload, err := json.Marshal(ev.Ballot)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "  #%d\t%s\t%s\n", ev.ID, ev.Timestamp.Format("2006-01-02 15:04:05"), payload)
	}
	return tw.Flush()
}

func printResult(w io.Writer, r models.Result) error {
	fmt.Fprintf(w, "%s [%s, %s, %s %s]\n", r.Question, r.Type, status(r.Closed),
		humanize.Comma(int64(r.TotalVotes)), pluralize(r.TotalVotes, "vote", "votes"))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	switch {
	case r.Tally != nil:
		for _, c := range r.Tally {
			fmt.Fprintf(tw, "  %d.\t%s\t%s\t%s\n", c.Index+1, c.Label, humanize.Comma(int64(c.Count)), percent(c.Count, r.TotalVotes))
		}
	case r.Ranked != nil:
		for _, s := range r.Ranked.Scores {
			fmt.Fprintf(tw, "  %s\t%s\t%s points\n", humanize.Ordinal(s.Rank), s.Label, humanize.Comma(int64(s.Score)))
		}
	case r.Matrix != nil:
		for _, c := range r.Matrix.Cells {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", c.Item, c.Criterion, cellValue(c))
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if r.Summary != nil {
		fmt.Fprintf(w, "\n%s\n", *r.Summary)
	}
	return nil
}

func cellValue(c models.MatrixCell) string {
	if c.NoData {
		return "no data"
	}
	switch c.Kind {
	case models.KindYesNo:
		return fmt.Sprintf("%s yes (%d answered)", humanize.FtoaWithDigits(*c.YesRatio*100, 1)+"%", c.Answered)
	case models.KindScale:
		return fmt.Sprintf("mean %s (%d answered)", humanize.FtoaWithDigits(*c.Mean, 2), c.Answered)
	case models.KindText:
		return strconv.Itoa(c.TextCount) + " " + pluralize(c.TextCount, "comment", "comments")
	}
	return ""
}

func percent(n, total int) string {
	if total == 0 {
		return "0%"
	}
	return humanize.FtoaWithDigits(float64(n)*100/float64(total), 1) + "%"
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
