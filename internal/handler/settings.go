package handler

import (
	"net/http"

	"github.com/actuallystonmai/aniweb/internal/domain"
)

// GET /api/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Settings(r.Context()))
}

// POST /api/settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch domain.SettingsPatch
	if err := decodeBody(w, r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body")
		return
	}

	settings, err := h.service.UpdateSettings(r.Context(), patch)
	if err != nil {
		h.fail(w, r, err, "Failed to save settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
