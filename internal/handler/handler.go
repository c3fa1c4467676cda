package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/actuallystonmai/aniweb/internal/domain"
	"github.com/actuallystonmai/aniweb/internal/logging"
	"github.com/actuallystonmai/aniweb/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	service *service.Service
	log     *logrus.Entry
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{service: svc, log: logging.For("handler")}
}

// write JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writes JSON error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(dst)
}

// fail maps a service error onto a response. fallbackMsg is the message sent
// for anything not covered by a domain error.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
	case errors.Is(err, domain.ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "profile_not_found", "Profile not found")
	case errors.Is(err, domain.ErrNoSources):
		writeError(w, http.StatusNotFound, "no_sources", "No video sources found")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "Anime not found")
	case errors.Is(err, domain.ErrIncorrectPIN):
		writeError(w, http.StatusUnauthorized, "incorrect_pin", "Incorrect PIN")
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "request_timeout",
			"Request timed out, please try again")
	default:
		h.log.WithError(err).WithField("path", r.URL.Path).Error(fallbackMsg)
		writeError(w, http.StatusInternalServerError, "internal_error", fallbackMsg)
	}
}
