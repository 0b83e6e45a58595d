package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"sportftv-backend/internal/middleware"
	"sportftv-backend/internal/models"
)

type sessionService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthTokens, error)
	DemoLogin(ctx context.Context) (*models.AuthTokens, error)
	Logout(ctx context.Context, id uuid.UUID) error
}

type AuthHandler struct {
	sessions sessionService
}

func NewAuthHandler(sessions sessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tokens, err := h.sessions.Login(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokens)
}

func (h *AuthHandler) Demo(w http.ResponseWriter, r *http.Request) {
	tokens, err := h.sessions.DemoLogin(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokens)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		writeJSON(w, http.StatusUnauthorized, errorResp("UNAUTHORIZED", "Not signed in", r))
		return
	}

	if err := h.sessions.Logout(r.Context(), session.ID); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		writeJSON(w, http.StatusUnauthorized, errorResp("UNAUTHORIZED", "Not signed in", r))
		return
	}
	writeJSON(w, http.StatusOK, session.User)
}
