package handlers

import (
	"context"
	"net/http"

	"sportftv-backend/internal/models"
)

type catalogWriter interface {
	Create(ctx context.Context, req models.CreateVideoRequest) (*models.Video, error)
	CreateArena(ctx context.Context, a models.Arena) (*models.Arena, error)
	CreateQuadra(ctx context.Context, q models.Quadra) (*models.Quadra, error)
}

// AdminHandler is the validated write path for operators.
type AdminHandler struct {
	videos catalogWriter
}

func NewAdminHandler(videos catalogWriter) *AdminHandler {
	return &AdminHandler{videos: videos}
}

func (h *AdminHandler) CreateVideo(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVideoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	video, err := h.videos.Create(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, video)
}

func (h *AdminHandler) CreateArena(w http.ResponseWriter, r *http.Request) {
	var req models.Arena
	if !decodeJSON(w, r, &req) {
		return
	}

	arena, err := h.videos.CreateArena(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, arena)
}

func (h *AdminHandler) CreateQuadra(w http.ResponseWriter, r *http.Request) {
	var req models.Quadra
	if !decodeJSON(w, r, &req) {
		return
	}

	quadra, err := h.videos.CreateQuadra(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, quadra)
}
