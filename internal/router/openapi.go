package router

import (
	"encoding/json"
	"mime/multipart"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"sportftv-backend/internal/models"
	"sportftv-backend/internal/services"
)

type browseQuery struct {
	ArenaID      string `query:"arenaId"`
	ArenaName    string `query:"arenaName"`
	SelectedDate string `query:"selectedDate" description:"YYYY-MM-DD or DD/MM/YYYY"`
	QuadraID     string `query:"quadraId"`
	QuadraName   string `query:"quadraName"`
	SelectedHour *int   `query:"selectedHour" minimum:"0" maximum:"23"`
}

type datesQuery struct {
	ArenaID string `query:"arenaId" required:"true"`
	Month   string `query:"month" description:"YYYY-MM, defaults to the current month"`
}

type searchQuery struct {
	ArenaID  string `query:"arenaId"`
	QuadraID string `query:"quadraId"`
	Date     string `query:"date"`
	Hour     *int   `query:"hour" minimum:"0" maximum:"23"`
}

type recentQuery struct {
	Limit int `query:"limit" minimum:"1" maximum:"100"`
}

type uploadForm struct {
	File    multipart.File `formData:"file" required:"true"`
	VideoID string         `formData:"videoId" description:"Names the object; defaults to the file name"`
}

type idPath struct {
	ID string `path:"id"`
}

type eventResponse struct {
	Status string `json:"status" enum:"queued,ignored"`
	JobID  string `json:"job_id,omitempty"`
	Object string `json:"object,omitempty"`
	Reason string `json:"reason,omitempty"`
}

type healthResponse map[string]struct {
	Status string `json:"status"`
}

type operation struct {
	method, path, summary string
	req                   interface{}
	resp                  map[int]interface{}
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Sport FTV API"
	r.Spec.Info.Version = "1.0.0"
	r.Spec.Info.WithDescription("Replay browsing by arena, date, court and hour, plus the thumbnail pipeline.")

	errResp := models.ErrorResponse{}
	ops := []operation{
		{http.MethodGet, "/healthz", "Health check", nil, map[int]interface{}{200: healthResponse{}, 503: healthResponse{}}},

		{http.MethodPost, "/api/v1/auth/login", "Sign in", models.LoginRequest{}, map[int]interface{}{200: models.AuthTokens{}, 400: errResp}},
		{http.MethodPost, "/api/v1/auth/demo", "Sign in as the demo user", nil, map[int]interface{}{200: models.AuthTokens{}}},
		{http.MethodPost, "/api/v1/auth/logout", "Clear the session", nil, map[int]interface{}{200: map[string]string{}, 401: errResp}},
		{http.MethodGet, "/api/v1/auth/me", "Current user", nil, map[int]interface{}{200: models.User{}, 401: errResp}},

		{http.MethodGet, "/api/v1/browse/arenas", "List arenas", nil, map[int]interface{}{200: []services.ArenaSummary{}, 502: errResp}},
		{http.MethodGet, "/api/v1/browse/dates", "List dates with videos for an arena", datesQuery{}, map[int]interface{}{200: services.DateListing{}, 400: errResp, 502: errResp}},
		{http.MethodGet, "/api/v1/browse/quadras", "List courts for an arena and date", browseQuery{}, map[int]interface{}{200: []services.QuadraSummary{}, 400: errResp, 502: errResp}},
		{http.MethodGet, "/api/v1/browse/hours", "List hour slots for a court", browseQuery{}, map[int]interface{}{200: []services.HourSlot{}, 400: errResp, 502: errResp}},
		{http.MethodGet, "/api/v1/browse/videos", "List videos for a complete selection", browseQuery{}, map[int]interface{}{200: []models.Video{}, 400: errResp, 502: errResp}},

		{http.MethodGet, "/api/v1/videos", "Search videos", searchQuery{}, map[int]interface{}{200: []models.Video{}, 400: errResp}},
		{http.MethodGet, "/api/v1/videos/recent", "Most recent videos", recentQuery{}, map[int]interface{}{200: []models.Video{}}},
		{http.MethodGet, "/api/v1/videos/{id}", "Get a video", idPath{}, map[int]interface{}{200: models.Video{}, 404: errResp}},

		{http.MethodPost, "/api/v1/admin/videos", "Create or replace a video", models.CreateVideoRequest{}, map[int]interface{}{201: models.Video{}, 400: errResp, 403: errResp}},
		{http.MethodPost, "/api/v1/admin/arenas", "Create or replace an arena", models.Arena{}, map[int]interface{}{201: models.Arena{}, 400: errResp}},
		{http.MethodPost, "/api/v1/admin/quadras", "Create or replace a court", models.Quadra{}, map[int]interface{}{201: models.Quadra{}, 400: errResp}},
		{http.MethodPost, "/api/v1/admin/uploads", "Upload a video and queue its thumbnail", uploadForm{}, map[int]interface{}{202: eventResponse{}, 200: eventResponse{}, 400: errResp, 413: errResp}},
		{http.MethodGet, "/api/v1/admin/jobs/{id}", "Thumbnail job status", idPath{}, map[int]interface{}{200: models.JobStatus{}, 404: errResp}},
		{http.MethodPost, "/api/v1/events/storage", "Object finalize notification", models.StorageObject{}, map[int]interface{}{202: eventResponse{}, 200: eventResponse{}, 400: errResp}},
	}

	for _, op := range ops {
		oc, err := r.NewOperationContext(op.method, op.path)
		if err != nil {
			continue
		}
		oc.SetSummary(op.summary)
		if op.req != nil {
			oc.AddReqStructure(op.req)
		}
		for status, body := range op.resp {
			oc.AddRespStructure(body, openapi.WithHTTPStatus(status))
		}
		_ = r.AddOperation(oc)
	}

	ws, _ := r.NewOperationContext(http.MethodGet, "/api/v1/ws")
	ws.SetSummary("Live updates")
	ws.SetDescription("Upgrades to a WebSocket that receives thumbnail_ready messages. Pass the access token as the token query parameter.")
	ws.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols), openapi.WithContentType("text/plain"))
	_ = r.AddOperation(ws)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
