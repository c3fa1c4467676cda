package handler

import (
	"net/http"

	"github.com/actuallystonmai/aniweb/internal/domain"
	"github.com/go-chi/chi/v5"
)

// GET /api/history/{profileId}
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.service.History(r.Context(), chi.URLParam(r, "profileId"))
	if err != nil {
		h.fail(w, r, err, "Failed to load history")
		return
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Success: true, History: history})
}

// POST /api/history
func (h *Handler) SyncHistory(w http.ResponseWriter, r *http.Request) {
	var u domain.HistoryUpdate
	if err := decodeBody(w, r, &u); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body")
		return
	}

	entry, err := h.service.SyncHistory(r.Context(), u)
	if err != nil {
		h.fail(w, r, err, "Failed to save history")
		return
	}
	writeJSON(w, http.StatusOK, HistorySyncResponse{Success: true, Data: entry})
}
