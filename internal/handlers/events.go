package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"sportftv-backend/internal/models"
	"sportftv-backend/internal/services"
	"sportftv-backend/internal/worker"
)

type thumbnailChecker interface {
	Check(obj models.StorageObject) error
}

type jobQueue interface {
	Enqueue(ctx context.Context, obj models.StorageObject) (*models.ThumbnailJob, error)
	GetStatus(ctx context.Context, id uuid.UUID) (*models.JobStatus, error)
}

type objectWriter interface {
	Put(ctx context.Context, r io.Reader, name, contentType string) error
	Bucket() string
}

// EventsHandler is the thumbnail trigger: object-finalize notifications,
// local uploads that stand in for them, and job status.
type EventsHandler struct {
	checker      thumbnailChecker
	jobs         jobQueue
	objects      objectWriter
	uploadPrefix string
	maxUpload    int64
	logger       *slog.Logger
}

func NewEventsHandler(checker thumbnailChecker, jobs jobQueue, objects objectWriter, uploadPrefix string, maxUpload int64, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		checker:      checker,
		jobs:         jobs,
		objects:      objects,
		uploadPrefix: uploadPrefix,
		maxUpload:    maxUpload,
		logger:       logger,
	}
}

// pushEnvelope is a Pub/Sub push delivery carrying the object as base64
// JSON in message.data.
type pushEnvelope struct {
	Message *struct {
		Data []byte `json:"data"`
	} `json:"message"`
}

// decodeStorageObject accepts either the bare object payload or a Pub/Sub
// push envelope around it.
func decodeStorageObject(body []byte) (models.StorageObject, error) {
	var env pushEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Message != nil && len(env.Message.Data) > 0 {
		body = env.Message.Data
	}
	var obj models.StorageObject
	err := json.Unmarshal(body, &obj)
	return obj, err
}

func (h *EventsHandler) StorageEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	obj, err := decodeStorageObject(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	h.dispatch(w, r, obj)
}

func (h *EventsHandler) dispatch(w http.ResponseWriter, r *http.Request, obj models.StorageObject) {
	if err := h.checker.Check(obj); err != nil {
		if errors.Is(err, services.ErrSkipped) {
			reason := strings.TrimPrefix(err.Error(), services.ErrSkipped.Error()+": ")
			h.logger.Info("storage event ignored", "object", obj.Name, "reason", reason)
			writeJSON(w, http.StatusOK, map[string]string{"status": "ignored", "reason": reason})
			return
		}
		handleServiceError(w, r, err)
		return
	}

	job, err := h.jobs.Enqueue(r.Context(), obj)
	if err != nil {
		h.logger.Error("failed to enqueue thumbnail job", "object", obj.Name, "error", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResp("QUEUE_UNAVAILABLE", "Could not queue thumbnail generation", r))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"status": "queued",
		"job_id": job.ID,
		"object": obj.Name,
	})
}

// videoTypes covers camera formats the system MIME table often lacks.
var videoTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
}

func contentTypeByExt(ext string) string {
	if ct, ok := videoTypes[strings.ToLower(ext)]; ok {
		return ct
	}
	return mime.TypeByExtension(ext)
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// uploadName keeps the base name of a client file, with anything outside a
// conservative charset collapsed to underscores.
func uploadName(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	base = unsafeNameChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	return base
}

// Upload stores a multipart "file" under the upload prefix and raises the
// same event the storage platform would.
func (h *EventsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "Upload exceeds the size limit", r))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "A file field is required", r))
		return
	}
	defer file.Close()

	name := uploadName(header.Filename)
	if id := r.FormValue("videoId"); id != "" {
		name = uploadName(id) + path.Ext(name)
	}
	if name == "" || name == path.Ext(name) {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"file": "File name is required"}, r))
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		if byExt := contentTypeByExt(path.Ext(name)); byExt != "" {
			contentType = byExt
		}
	}

	obj := models.StorageObject{
		Bucket:      h.objects.Bucket(),
		Name:        h.uploadPrefix + name,
		ContentType: contentType,
	}
	if err := h.objects.Put(r.Context(), file, obj.Name, contentType); err != nil {
		h.logger.Error("upload failed", "object", obj.Name, "error", err)
		writeJSON(w, http.StatusBadGateway, errorResp("UPLOAD_FAILED", "Could not store the upload", r))
		return
	}
	h.logger.Info("video uploaded", "object", obj.Name, "content_type", contentType, "size", header.Size)

	h.dispatch(w, r, obj)
}

func (h *EventsHandler) JobStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid job ID", r))
		return
	}

	status, err := h.jobs.GetStatus(r.Context(), id)
	if errors.Is(err, worker.ErrJobNotFound) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Job not found", r))
		return
	}
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
