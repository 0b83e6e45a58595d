package handlers

import (
	"context"
	"net/http"

	"sportftv-backend/internal/metrics"
	"sportftv-backend/internal/models"
	"sportftv-backend/internal/navigation"
	"sportftv-backend/internal/services"
)

type videoBrowser interface {
	ListArenas(ctx context.Context) ([]services.ArenaSummary, error)
	ListDates(ctx context.Context, p navigation.Params, month string) (*services.DateListing, error)
	ListQuadras(ctx context.Context, p navigation.Params) ([]services.QuadraSummary, error)
	ListHours(ctx context.Context, p navigation.Params) ([]services.HourSlot, error)
	ListVideos(ctx context.Context, f models.VideoFilter) ([]models.Video, error)
}

// BrowseHandler serves the selection chain. Every request carries the
// navigation bundle in its query string.
type BrowseHandler struct {
	videos  videoBrowser
	metrics *metrics.Metrics
}

func NewBrowseHandler(videos videoBrowser, m *metrics.Metrics) *BrowseHandler {
	return &BrowseHandler{videos: videos, metrics: m}
}

func (h *BrowseHandler) observe(step navigation.Step, n int, err error) {
	if h.metrics == nil {
		return
	}
	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case n == 0:
		outcome = "empty"
	}
	h.metrics.ObserveStep(step.String(), outcome)
}

func (h *BrowseHandler) params(w http.ResponseWriter, r *http.Request, step navigation.Step) (navigation.Params, bool) {
	p, err := navigation.FromQuery(r.URL.Query())
	if err != nil {
		h.observe(step, 0, err)
		handleServiceError(w, r, err)
		return navigation.Params{}, false
	}
	return p, true
}

func (h *BrowseHandler) Arenas(w http.ResponseWriter, r *http.Request) {
	arenas, err := h.videos.ListArenas(r.Context())
	h.observe(navigation.StepArenas, len(arenas), err)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, arenas)
}

func (h *BrowseHandler) Dates(w http.ResponseWriter, r *http.Request) {
	p, ok := h.params(w, r, navigation.StepDates)
	if !ok {
		return
	}

	listing, err := h.videos.ListDates(r.Context(), p, r.URL.Query().Get("month"))
	if err != nil {
		h.observe(navigation.StepDates, 0, err)
		handleServiceError(w, r, err)
		return
	}
	h.observe(navigation.StepDates, len(listing.Dates), nil)
	writeJSON(w, http.StatusOK, listing)
}

func (h *BrowseHandler) Quadras(w http.ResponseWriter, r *http.Request) {
	p, ok := h.params(w, r, navigation.StepCourts)
	if !ok {
		return
	}

	quadras, err := h.videos.ListQuadras(r.Context(), p)
	h.observe(navigation.StepCourts, len(quadras), err)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quadras)
}

func (h *BrowseHandler) Hours(w http.ResponseWriter, r *http.Request) {
	p, ok := h.params(w, r, navigation.StepHours)
	if !ok {
		return
	}

	slots, err := h.videos.ListHours(r.Context(), p)
	h.observe(navigation.StepHours, len(slots), err)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}

// Videos is the terminal step. All four chain keys must be present.
func (h *BrowseHandler) Videos(w http.ResponseWriter, r *http.Request) {
	p, ok := h.params(w, r, navigation.StepVideos)
	if !ok {
		return
	}

	videos, err := h.videos.ListVideos(r.Context(), p.Filter())
	h.observe(navigation.StepVideos, len(videos), err)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, videos)
}
