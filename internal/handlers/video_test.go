package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"sportftv-backend/internal/models"
	"sportftv-backend/internal/services"
)

func newTestVideoHandler(store *stubVideoStore) *VideoHandler {
	return NewVideoHandler(services.NewVideoService(store, stubCatalog{}, discardLogger()))
}

func TestVideoHandler_Get(t *testing.T) {
	store := &stubVideoStore{videos: []models.Video{{ID: "match42", Title: "Final"}}}
	h := newTestVideoHandler(store)

	tests := []struct {
		id   string
		want int
	}{
		{"match42", http.StatusOK},
		{"missing", http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.id, func(t *testing.T) {
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tc.id)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/"+tc.id, nil)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			rr := httptest.NewRecorder()
			h.Get(rr, req)

			if rr.Code != tc.want {
				t.Fatalf("expected status %d, got %d", tc.want, rr.Code)
			}
		})
	}
}

func TestVideoHandler_ListOptionalFilters(t *testing.T) {
	store := &stubVideoStore{videos: []models.Video{
		{ID: "v1", ArenaID: "arena_sport_center", Date: "2024-01-15", Hour: models.IntPtr(18)},
		{ID: "v2", ArenaID: "arena_beach_club", Date: "2024-01-15", Hour: models.IntPtr(18)},
	}}
	h := newTestVideoHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos?date=15/01/2024&hour=18", nil)
	rr := httptest.NewRecorder()
	h.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var videos []models.Video
	json.NewDecoder(rr.Body).Decode(&videos)
	if len(videos) != 2 {
		t.Fatalf("expected both videos, got %d", len(videos))
	}
}

func TestVideoHandler_ListBadHour(t *testing.T) {
	h := newTestVideoHandler(&stubVideoStore{})

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/v1/videos?hour=24", nil))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestAdminHandler_CreateVideo(t *testing.T) {
	store := &stubVideoStore{}
	h := NewAdminHandler(services.NewVideoService(store, stubCatalog{}, discardLogger()))

	tests := []struct {
		name string
		body string
		want int
	}{
		{"valid legacy date", `{"id":"match42","title":"Final","videoUrl":"https://cdn/m.mp4","arenaId":"a","quadraId":"q","date":"15/01/2024","hour":18}`, http.StatusCreated},
		{"missing hour", `{"title":"Final","videoUrl":"https://cdn/m.mp4","arenaId":"a","quadraId":"q","date":"2024-01-15"}`, http.StatusBadRequest},
		{"malformed", `[]`, http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/videos", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()
			h.CreateVideo(rr, req)

			if rr.Code != tc.want {
				t.Fatalf("expected status %d, got %d", tc.want, rr.Code)
			}
		})
	}

	if len(store.videos) != 1 || store.videos[0].Date != "2024-01-15" {
		t.Errorf("expected one normalized video stored, got %+v", store.videos)
	}
}
