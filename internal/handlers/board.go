package handlers

import (
	"context"
	"net/http"
	"time"
)

// ==================== Public Pages ====================

func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	board, err := h.Scoreboard.Board(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	h.templates.Index.Execute(w, IndexPageData{Board: board})
}

// ==================== Board API ====================

func (h *Handlers) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	board, err := h.Scoreboard.Board(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, board)
}

func (h *Handlers) handleBoardQR(w http.ResponseWriter, r *http.Request) {
	png, err := h.Scoreboard.BoardQR(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}

func (h *Handlers) handleSettle(w http.ResponseWriter, r *http.Request) {
	var req SettleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Settlement.Settle(r.Context(), req.Bets, req.Winners)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

func (h *Handlers) handleLastRound(w http.ResponseWriter, r *http.Request) {
	round, err := h.Settings.LastRound(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, round)
}

// ==================== Operations ====================

func (h *Handlers) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
	defer cancel()

	if err := h.Store.Ping(ctx); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy", Error: err.Error()})
		return
	}
	respondOK(w, HealthResponse{Status: "ok"})
}
