// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-poll/models"
)

// Message is the payload posted to a Slack incoming webhook.
type Message struct {
	Text string `json:"text"`
}

// Notifier delivers a rendered poll announcement to a destination.
type Notifier interface {
	Notify(ctx context.Context, destination string, msg Message) error
}

// StatusError reports a non-2xx webhook response.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook returned %d: %s", e.Status, e.Body)
}

// SlackWebhook posts messages to Slack incoming-webhook URLs.
type SlackWebhook struct {
	client *http.Client
}

// NewSlackWebhook returns a notifier using client, or a client with a 10s
// timeout when client is nil.
func NewSlackWebhook(client *http.Client) *SlackWebhook {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &SlackWebhook{client: client}
}

func (s *SlackWebhook) Notify(ctx context.Context, destination string, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, destination, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Status: resp.StatusCode, Body: string(respBody)}
	}
	return nil
}

var emojis = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟"}

// PollURL is the page where a poll is voted on and its results shown.
func PollURL(baseURL, pollID string) string {
	return strings.TrimRight(baseURL, "/") + "/polls/" + url.PathEscape(pollID)
}

// OptionURL is a one-click vote link for a single-choice option. option is
// 1-based, as shown next to the emoji digits.
func OptionURL(baseURL, pollID string, option int) string {
	q := url.Values{"option": {strconv.Itoa(option)}}
	return PollURL(baseURL, pollID) + "/vote?" + q.Encode()
}

// RenderPoll builds the announcement for a new poll: one vote link per option
// for single choice, one link to the voting page otherwise.
func RenderPoll(baseURL string, poll models.Poll) Message {
	var lines []string

	switch poll.Type {
	case models.TypeSingle:
		lines = append(lines, ":bar_chart: *Single-Choice Poll:* "+poll.Question, "")
		for i, option := range poll.Options.Labels {
			marker := strconv.Itoa(i+1) + "."
			if i < len(emojis) {
				marker = emojis[i]
			}
			lines = append(lines, fmt.Sprintf("%s <%s|%s>", marker, OptionURL(baseURL, poll.ID, i+1), option))
		}
		lines = append(lines, "", "_Click an option to vote. Results are in the dashboard._")

	case models.TypeRanked:
		lines = append(lines,
			":ballot_box_with_ballot: *Ranked Preference Poll:* "+poll.Question, "",
			fmt.Sprintf("<%s|Click here to rank your choices>", PollURL(baseURL, poll.ID)), "",
			fmt.Sprintf("_You will be asked to rank all %d options._", len(poll.Options.Labels)),
		)

	case models.TypeMatrix:
		criteria := make([]string, 0, len(poll.Options.Criteria))
		for _, c := range poll.Options.Criteria {
			criteria = append(criteria, c.Label)
		}
		lines = append(lines,
			":clipboard: *Evaluation Matrix:* "+poll.Question, "",
			fmt.Sprintf("<%s|Click here to rate the options>", PollURL(baseURL, poll.ID)), "",
			fmt.Sprintf("_Rate %d items on: %s._", len(poll.Options.Items), strings.Join(criteria, ", ")),
		)
	}

	return Message{Text: strings.Join(lines, "\n")}
}
