package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"

	"sportftv-backend/internal/models"
	"sportftv-backend/internal/repository"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubVideoStore is an in-memory videos collection that counts calls.
type stubVideoStore struct {
	mu        sync.Mutex
	videos    map[string]models.Video
	raw       []models.RawDocument
	findErr   error
	findCalls int
	filters   []models.VideoFilter
	patches   map[string]map[string]any
}

func newStubVideoStore(videos ...models.Video) *stubVideoStore {
	s := &stubVideoStore{videos: map[string]models.Video{}, patches: map[string]map[string]any{}}
	for _, v := range videos {
		s.videos[v.ID] = v
	}
	return s
}

func (s *stubVideoStore) Find(_ context.Context, f models.VideoFilter) ([]models.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findCalls++
	s.filters = append(s.filters, f)
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
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *stubVideoStore) Get(_ context.Context, id string) (*models.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.videos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &v, nil
}

func (s *stubVideoStore) Upsert(_ context.Context, v *models.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videos[v.ID] = *v
	return nil
}

func (s *stubVideoStore) UpdateThumbnailURL(_ context.Context, id, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.videos[id]
	if !ok {
		return repository.ErrNotFound
	}
	v.ThumbnailURL = &url
	s.videos[id] = v
	return nil
}

func (s *stubVideoStore) ListRaw(context.Context) ([]models.RawDocument, error) {
	return s.raw, nil
}

func (s *stubVideoStore) Patch(_ context.Context, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patches[id] = fields
	return nil
}

func (s *stubVideoStore) Ping(context.Context) error { return nil }

type stubCatalog struct {
	arenas  []models.Arena
	quadras []models.Quadra
	err     error
}

func (c *stubCatalog) ListArenas(context.Context) ([]models.Arena, error) {
	return c.arenas, c.err
}

func (c *stubCatalog) GetArena(_ context.Context, id string) (*models.Arena, error) {
	for _, a := range c.arenas {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (c *stubCatalog) ListQuadras(_ context.Context, arenaID string) ([]models.Quadra, error) {
	if c.err != nil {
		return nil, c.err
	}
	var out []models.Quadra
	for _, q := range c.quadras {
		if q.ArenaID == arenaID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (c *stubCatalog) UpsertArena(_ context.Context, a *models.Arena) error {
	c.arenas = append(c.arenas, *a)
	return nil
}

func (c *stubCatalog) UpsertQuadra(_ context.Context, q *models.Quadra) error {
	c.quadras = append(c.quadras, *q)
	return nil
}

// stubObjects records storage calls and keeps uploaded objects in memory.
type stubObjects struct {
	mu          sync.Mutex
	downloads   []string
	uploads     map[string]string
	public      []string
	downloadErr error
	uploadErr   error
}

func newStubObjects() *stubObjects {
	return &stubObjects{uploads: map[string]string{}}
}

func (o *stubObjects) Download(_ context.Context, name, dst string) error {
	o.mu.Lock()
	o.downloads = append(o.downloads, name)
	o.mu.Unlock()
	if o.downloadErr != nil {
		return o.downloadErr
	}
	return os.WriteFile(dst, []byte("video bytes"), 0o644)
}

func (o *stubObjects) Upload(_ context.Context, src, name, contentType string) error {
	if o.uploadErr != nil {
		return o.uploadErr
	}
	if _, err := os.Stat(src); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.uploads[name] = contentType
	return nil
}

func (o *stubObjects) Put(_ context.Context, _ io.Reader, name, contentType string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.uploads[name] = contentType
	return nil
}

func (o *stubObjects) MakePublic(_ context.Context, name string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.public = append(o.public, name)
	return nil
}

func (o *stubObjects) PublicURL(name string) string {
	return "https://storage.googleapis.com/sportftv-media/" + name
}

func (o *stubObjects) Bucket() string { return "sportftv-media" }

type stubExtractor struct {
	calls int
	err   error
}

func (e *stubExtractor) ExtractFrame(_ context.Context, src, dst, _ string, _, _ int) error {
	e.calls++
	if e.err != nil {
		return e.err
	}
	if _, err := os.Stat(src); err != nil {
		return errors.New("source video missing")
	}
	return os.WriteFile(dst, []byte("jpeg"), 0o644)
}
