package handler

import (
	"net/http"

	"github.com/actuallystonmai/aniweb/internal/domain"
	"github.com/go-chi/chi/v5"
)

// GET /api/profiles
func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.ListProfiles(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to load profiles")
		return
	}
	writeJSON(w, http.StatusOK, ProfilesResponse{Success: true, Profiles: profiles})
}

// POST /api/profiles
func (h *Handler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var in domain.ProfileInput
	if err := decodeBody(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body")
		return
	}

	profiles, err := h.service.SaveProfile(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, "Failed to save profile")
		return
	}
	writeJSON(w, http.StatusOK, ProfilesResponse{Success: true, Profiles: profiles})
}

// DELETE /api/profiles/{id}
func (h *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProfile(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err, "Failed to delete profile")
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// POST /api/profiles/auth
func (h *Handler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req AuthRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body")
		return
	}

	token, err := h.service.Authenticate(r.Context(), req.ID, req.PIN)
	if err != nil {
		h.fail(w, r, err, "Failed to authenticate profile")
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Token: token})
}
