// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-poll/lifecycle"
	"github.com/danielhkuo/quickly-poll/middleware"
)

type ResultsHandler struct {
	manager *lifecycle.Manager
}

func NewResultsHandler(m *lifecycle.Manager) *ResultsHandler {
	return &ResultsHandler{manager: m}
}

// GetResults handles GET /polls/{id}/results. Open polls get live results;
// closed polls get final ones.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	result, err := h.manager.Aggregate(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, result)
}
