package handlers

import (
	"net/http"
)

// ==================== Admin Pages ====================

func (h *Handlers) handleAdminPoints(w http.ResponseWriter, r *http.Request) {
	board, err := h.Scoreboard.Board(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	baseURL, err := h.Settings.GetBaseURL(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	data := AdminPageData{
		Title:     "Adjust Points",
		PageTitle: "Adjust Points",
		ActiveNav: "points",
		Board:     board,
		BaseURL:   baseURL,
	}
	h.templates.AdminPoints.ExecuteTemplate(w, "admin", data)
}

// ==================== Admin API ====================

func (h *Handlers) handleOverridePoints(w http.ResponseWriter, r *http.Request) {
	var req OverridePointsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	applied, err := h.Admin.OverridePoints(r.Context(), req.Points)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, OverridePointsResponse{Points: applied})
}

func (h *Handlers) handleSetBaseURL(w http.ResponseWriter, r *http.Request) {
	var req BaseURLRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Settings.SetBaseURL(r.Context(), req.BaseURL); err != nil {
		respondError(w, err)
		return
	}

	stored, err := h.Settings.GetBaseURL(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, BaseURLResponse{BaseURL: stored})
}
