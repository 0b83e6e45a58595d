package models

import (
	"time"

	"github.com/google/uuid"
)

// StorageObject is the payload of an object-finalize event.
type StorageObject struct {
	Bucket      string `json:"bucket"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Generation  string `json:"generation,omitempty"`
	Size        string `json:"size,omitempty"`
}

type ThumbnailJob struct {
	ID          uuid.UUID     `json:"id"`
	Object      StorageObject `json:"object"`
	Attempt     int           `json:"attempt"`
	MaxAttempts int           `json:"max_attempts"`
	EnqueuedAt  time.Time     `json:"enqueued_at"`
}

const (
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
	JobStatusSkipped    = "skipped"
)

type JobStatus struct {
	JobID        uuid.UUID  `json:"job_id"`
	Object       string     `json:"object"`
	Status       string     `json:"status"`
	Attempt      int        `json:"attempt"`
	ThumbnailURL *string    `json:"thumbnail_url,omitempty"`
	VideoID      string     `json:"video_id,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// WebSocket message types
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type ThumbnailReadyEvent struct {
	VideoID      string `json:"video_id"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
