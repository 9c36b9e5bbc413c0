// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-poll/auth"
	"github.com/danielhkuo/quickly-poll/cliparse"
	"github.com/danielhkuo/quickly-poll/lifecycle"
	"github.com/danielhkuo/quickly-poll/middleware"
	"github.com/danielhkuo/quickly-poll/models"
	"github.com/danielhkuo/quickly-poll/notify"
	"github.com/danielhkuo/quickly-poll/summarize"
)

type PollHandler struct {
	manager    *lifecycle.Manager
	cfg        cliparse.Config
	notifier   notify.Notifier
	summarizer summarize.Summarizer
}

// NewPollHandler wires poll management. notifier and summarizer may be nil.
func NewPollHandler(m *lifecycle.Manager, cfg cliparse.Config, n notify.Notifier, s summarize.Summarizer) *PollHandler {
	return &PollHandler{manager: m, cfg: cfg, notifier: n, summarizer: s}
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "", "Invalid JSON")
		return
	}

	poll, err := h.manager.CreatePoll(r.Context(), lifecycle.CreatePollInput{
		Type:     req.Type,
		Question: req.Question,
		Options: models.Options{
			Labels:   req.Options,
			Items:    req.Items,
			Criteria: req.Criteria,
		},
	})
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	// A failed announcement does not undo the poll
	notified := false
	if h.notifier != nil && h.cfg.WebhookURL != "" {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		err := h.notifier.Notify(ctx, h.cfg.WebhookURL, notify.RenderPoll(h.cfg.PublicBaseURL, poll))
		cancel()
		if err != nil {
			slog.Warn("failed to announce poll", "poll_id", poll.ID, "error", err)
		} else {
			notified = true
		}
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		PollID:   poll.ID,
		AdminKey: auth.GenerateAdminKey(poll.ID, h.cfg.AdminKeySalt),
		VoteURL:  notify.PollURL(h.cfg.PublicBaseURL, poll.ID),
		Notified: notified,
	})
}

// ListPolls handles GET /polls
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	polls, err := h.manager.ListPolls(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if polls == nil {
		polls = []models.PollSummary{}
	}

	middleware.JSONResponse(w, http.StatusOK, polls)
}

// GetPoll handles GET /polls/{id}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pe, err := h.manager.GetPoll(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if pe.Events == nil {
		pe.Events = []models.VoteEvent{}
	}

	middleware.JSONResponse(w, http.StatusOK, pe)
}

// ClosePoll handles POST /polls/{id}/close
func (h *PollHandler) ClosePoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if !h.authorize(w, r, pollID) {
		return
	}

	if err := h.manager.ClosePoll(r.Context(), pollID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ClosePollResponse{
		PollID: pollID,
		Closed: true,
	})
}

// AttachSummary handles POST /polls/{id}/summary. An empty text asks the
// configured summarizer to write one from the final results.
func (h *PollHandler) AttachSummary(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if !h.authorize(w, r, pollID) {
		return
	}

	var req models.AttachSummaryRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "", "Invalid JSON")
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		// Poll state is reported before the missing text
		result, err := h.manager.Aggregate(r.Context(), pollID)
		if err != nil {
			middleware.WriteError(w, err)
			return
		}
		if !result.Closed {
			middleware.WriteError(w, models.ErrPollStillOpen)
			return
		}
		if h.summarizer == nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "", "text is required")
			return
		}

		text, err = h.summarizer.Summarize(r.Context(), result, result.Question)
		if err != nil {
			slog.Error("failed to generate summary", "poll_id", pollID, "error", err)
			middleware.ErrorResponse(w, http.StatusBadGateway, "", "Summary generation failed")
			return
		}
	}

	if err := h.manager.AttachSummary(r.Context(), pollID, text); err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AttachSummaryResponse{
		PollID:  pollID,
		Summary: text,
	})
}

func (h *PollHandler) authorize(w http.ResponseWriter, r *http.Request, pollID string) bool {
	if err := auth.CheckRequest(r, pollID, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "", "Invalid admin key")
		return false
	}
	return true
}
