// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-poll/models"
)

// DefaultPrompt asks for a short neutral recap of the results.
const DefaultPrompt = "Summarize the results of this poll in two or three neutral sentences. " +
	"Name the leading option and mention anything notable about the spread of votes."

// ErrEmptySummary is returned when the service answers without text.
var ErrEmptySummary = errors.New("summarizer returned no text")

// Summarizer turns aggregated results into prose.
type Summarizer interface {
	Summarize(ctx context.Context, result models.Result, question string) (string, error)
}

// HTTPSummarizer posts results to a text-generation endpoint that answers
// with {"text": "..."}.
type HTTPSummarizer struct {
	endpoint string
	prompt   string
	client   *http.Client
}

type request struct {
	Prompt   string        `json:"prompt"`
	Question string        `json:"question"`
	Results  models.Result `json:"results"`
}

type response struct {
	Text string `json:"text"`
}

// NewHTTPSummarizer returns a summarizer for endpoint. An empty prompt uses
// DefaultPrompt; a nil client gets a 30s timeout.
func NewHTTPSummarizer(endpoint, prompt string, client *http.Client) *HTTPSummarizer {
	if prompt == "" {
		prompt = DefaultPrompt
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPSummarizer{endpoint: endpoint, prompt: prompt, client: client}
}

func (s *HTTPSummarizer) Summarize(ctx context.Context, result models.Result, question string) (string, error) {
	body, err := json.Marshal(request{Prompt: s.prompt, Question: question, Results: result})
	if err != nil {
		return "", fmt.Errorf("failed to encode summary request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build summary request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("summary request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("summarizer returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode summary: %w", err)
	}
	text := strings.TrimSpace(out.Text)
	if text == "" {
		return "", ErrEmptySummary
	}
	return text, nil
}
