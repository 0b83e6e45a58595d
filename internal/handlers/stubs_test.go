package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"sportftv-backend/internal/models"
	"sportftv-backend/internal/repository"
	"sportftv-backend/internal/worker"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubVideoStore struct {
	videos    []models.Video
	findErr   error
	findCalls int
}

func (s *stubVideoStore) Find(_ context.Context, f models.VideoFilter) ([]models.Video, error) {
	s.findCalls++
	if s.findErr != nil {
		return nil, s.findErr
	}
	out := []models.Video{}
	for _, v := range s.videos {
		if f.ArenaID != "" && v.ArenaID != f.ArenaID {
			continue
		}
		if f.QuadraID != "" && v.QuadraID != f.QuadraID {
			continue
		}
		if f.Date != "" && v.Date != f.Date {
			continue
		}
		if f.Hour != nil && (v.Hour == nil || *v.Hour != *f.Hour) {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *stubVideoStore) Get(_ context.Context, id string) (*models.Video, error) {
	for _, v := range s.videos {
		if v.ID == id {
			return &v, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubVideoStore) Upsert(_ context.Context, v *models.Video) error {
	s.videos = append(s.videos, *v)
	return nil
}

func (s *stubVideoStore) UpdateThumbnailURL(context.Context, string, string) error { return nil }

func (s *stubVideoStore) ListRaw(context.Context) ([]models.RawDocument, error) { return nil, nil }

func (s *stubVideoStore) Patch(context.Context, string, map[string]any) error { return nil }

func (s *stubVideoStore) Ping(context.Context) error { return nil }

type stubCatalog struct{}

func (stubCatalog) ListArenas(context.Context) ([]models.Arena, error) { return nil, nil }

func (stubCatalog) GetArena(context.Context, string) (*models.Arena, error) {
	return nil, repository.ErrNotFound
}

func (stubCatalog) ListQuadras(context.Context, string) ([]models.Quadra, error) { return nil, nil }

func (stubCatalog) UpsertArena(context.Context, *models.Arena) error { return nil }

func (stubCatalog) UpsertQuadra(context.Context, *models.Quadra) error { return nil }

type stubJobs struct {
	mu       sync.Mutex
	enqueued []models.StorageObject
	err      error
	statuses map[uuid.UUID]*models.JobStatus
}

func (s *stubJobs) Enqueue(_ context.Context, obj models.StorageObject) (*models.ThumbnailJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.enqueued = append(s.enqueued, obj)
	return &models.ThumbnailJob{ID: uuid.New(), Object: obj, MaxAttempts: 1}, nil
}

func (s *stubJobs) GetStatus(_ context.Context, id uuid.UUID) (*models.JobStatus, error) {
	if st, ok := s.statuses[id]; ok {
		return st, nil
	}
	return nil, worker.ErrJobNotFound
}

type stubObjects struct {
	names        []string
	contentTypes []string
	bodies       []string
	err          error
}

func (o *stubObjects) Put(_ context.Context, r io.Reader, name, contentType string) error {
	if o.err != nil {
		return o.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	o.names = append(o.names, name)
	o.contentTypes = append(o.contentTypes, contentType)
	o.bodies = append(o.bodies, string(data))
	return nil
}

func (o *stubObjects) Bucket() string { return "local" }

var errStore = errors.New("firestore: deadline exceeded")
