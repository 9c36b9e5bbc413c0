// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"

	"github.com/danielhkuo/quickly-poll/lifecycle"
	"github.com/danielhkuo/quickly-poll/middleware"
	"github.com/danielhkuo/quickly-poll/models"
)

type VotingHandler struct {
	manager *lifecycle.Manager
}

func NewVotingHandler(m *lifecycle.Manager) *VotingHandler {
	return &VotingHandler{manager: m}
}

// CastVote handles POST /polls/{id}/votes. Unreadable payloads still go
// through the manager so a missing or closed poll is reported first.
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	var ballot models.Ballot
	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		ballot = models.MalformedVote{Err: fmt.Errorf("%w: invalid JSON: %v", models.ErrTypeMismatch, err)}
	} else {
		ballot = req.Ballot()
	}

	event, err := h.manager.CastVote(r.Context(), r.PathValue("id"), ballot)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		VoteID:  event.ID,
		Message: "Vote recorded",
	})
}

// VoteLink handles GET /polls/{id}/vote?option=N, the one-click links in
// single-choice announcements. N is 1-based.
func (h *VotingHandler) VoteLink(w http.ResponseWriter, r *http.Request) {
	var ballot models.Ballot
	n, err := models.ParseOptionIndex(r.URL.Query().Get("option"))
	if err != nil {
		ballot = models.MalformedVote{Type: models.TypeSingle, Err: err}
	} else {
		ballot = models.SingleVote{OptionIndex: n - 1}
	}

	event, err := h.manager.CastVote(r.Context(), r.PathValue("id"), ballot)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		VoteID:  event.ID,
		Message: fmt.Sprintf("Vote recorded for option %d", n),
	})
}
