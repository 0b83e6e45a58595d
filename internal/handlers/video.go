package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sportftv-backend/internal/models"
)

type videoReader interface {
	Search(ctx context.Context, f models.VideoFilter) ([]models.Video, error)
	Recent(ctx context.Context, limit int) ([]models.Video, error)
	Get(ctx context.Context, id string) (*models.Video, error)
}

type VideoHandler struct {
	videos videoReader
}

func NewVideoHandler(videos videoReader) *VideoHandler {
	return &VideoHandler{videos: videos}
}

// List searches with whichever of arenaId, quadraId, date and hour are given.
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := models.VideoFilter{
		ArenaID:  q.Get("arenaId"),
		QuadraID: q.Get("quadraId"),
		Date:     q.Get("date"),
	}
	if q.Get("hour") != "" {
		hour, ok := queryInt(r, "hour")
		if !ok || hour < 0 || hour > 23 {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
				map[string]string{"hour": "Must be between 0 and 23"}, r))
			return
		}
		f.Hour = &hour
	}

	videos, err := h.videos.Search(r.Context(), f)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, videos)
}

func (h *VideoHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "limit must be a number", r))
		return
	}

	videos, err := h.videos.Recent(r.Context(), limit)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, videos)
}

func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	video, err := h.videos.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, video)
}
