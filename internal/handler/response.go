package handler

import "github.com/actuallystonmai/aniweb/internal/domain"

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type ResultsResponse[T any] struct {
	Results []T `json:"results"`
}

type ProfilesResponse struct {
	Success  bool                   `json:"success"`
	Profiles []domain.PublicProfile `json:"profiles"`
}

type AuthRequest struct {
	ID  string `json:"id"`
	PIN string `json:"pin"`
}

type AuthResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type HistoryResponse struct {
	Success bool                  `json:"success"`
	History []domain.HistoryEntry `json:"history"`
}

type HistorySyncResponse struct {
	Success bool                `json:"success"`
	Data    domain.HistoryEntry `json:"data"`
}
