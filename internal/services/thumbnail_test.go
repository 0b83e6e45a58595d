package services

import (
	"context"
	"errors"
	"os"
	"testing"

	"sportftv-backend/internal/config"
	"sportftv-backend/internal/models"
)

func newTestThumbnailService(t *testing.T, objects *stubObjects, extractor *stubExtractor, store *stubVideoStore) (*ThumbnailService, string) {
	t.Helper()
	scratch := t.TempDir()
	cfg := ThumbnailConfig{
		UploadPrefix:    "videos_replays/",
		ThumbnailPrefix: "thumbnails/",
		Marker:          "thumb_",
		Offset:          "00:00:01.000",
		Width:           1280,
		Height:          720,
		ScratchDir:      scratch,
	}
	return NewThumbnailService(objects, extractor, store, cfg, discardLogger()), scratch
}

func assertScratchEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected scratch space cleaned up, found %d entries", len(entries))
	}
}

func TestThumbnailGuards(t *testing.T) {
	tests := []struct {
		name string
		obj  models.StorageObject
	}{
		{"missing name", models.StorageObject{ContentType: "video/mp4"}},
		{"outside upload prefix", models.StorageObject{Name: "raw/match42.mp4", ContentType: "video/mp4"}},
		{"not a video", models.StorageObject{Name: "videos_replays/notes.txt", ContentType: "text/plain"}},
		{"missing content type", models.StorageObject{Name: "videos_replays/match42.mp4"}},
		{"already a thumbnail", models.StorageObject{Name: "videos_replays/thumb_match42.mp4", ContentType: "video/mp4"}},
		{"thumbnail output", models.StorageObject{Name: "thumbnails/thumb_match42.jpg", ContentType: "image/jpeg"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			objects := newStubObjects()
			extractor := &stubExtractor{}
			store := newStubVideoStore(models.Video{ID: "match42"})
			svc, scratch := newTestThumbnailService(t, objects, extractor, store)

			res, err := svc.Process(context.Background(), tc.obj)

			if !errors.Is(err, ErrSkipped) {
				t.Fatalf("Expected ErrSkipped, got %v", err)
			}
			if res != nil {
				t.Errorf("Expected no result, got %+v", res)
			}
			if len(objects.downloads) != 0 || extractor.calls != 0 || len(objects.uploads) != 0 {
				t.Errorf("Expected no pipeline work, got downloads=%d extracts=%d uploads=%d",
					len(objects.downloads), extractor.calls, len(objects.uploads))
			}
			if store.videos["match42"].ThumbnailURL != nil {
				t.Error("Expected document untouched")
			}
			assertScratchEmpty(t, scratch)
		})
	}
}

func TestThumbnailProcess_Match42(t *testing.T) {
	objects := newStubObjects()
	extractor := &stubExtractor{}
	store := newStubVideoStore(models.Video{ID: "match42", Title: "Final"})
	svc, scratch := newTestThumbnailService(t, objects, extractor, store)

	res, err := svc.Process(context.Background(), models.StorageObject{
		Bucket: "sportftv-media", Name: "videos_replays/match42.mp4", ContentType: "video/mp4",
	})
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}

	const wantName = "thumbnails/thumb_match42.jpg"
	const wantURL = "https://storage.googleapis.com/sportftv-media/thumbnails/thumb_match42.jpg"

	if res.VideoID != "match42" || res.ThumbnailName != wantName || res.ThumbnailURL != wantURL {
		t.Errorf("Unexpected result %+v", res)
	}
	if ct := objects.uploads[wantName]; ct != "image/jpeg" {
		t.Errorf("Expected %s uploaded as image/jpeg, got %q", wantName, ct)
	}
	if len(objects.public) != 1 || objects.public[0] != wantName {
		t.Errorf("Expected %s made public, got %v", wantName, objects.public)
	}
	got := store.videos["match42"].ThumbnailURL
	if got == nil || *got != wantURL {
		t.Errorf("Expected document thumbnailUrl %s, got %v", wantURL, got)
	}
	assertScratchEmpty(t, scratch)
}

func TestThumbnailProcess_Idempotent(t *testing.T) {
	objects := newStubObjects()
	store := newStubVideoStore(models.Video{ID: "match42"})
	svc, _ := newTestThumbnailService(t, objects, &stubExtractor{}, store)
	obj := models.StorageObject{Name: "videos_replays/match42.mp4", ContentType: "video/mp4"}

	first, err := svc.Process(context.Background(), obj)
	if err != nil {
		t.Fatalf("first Process() error: %v", err)
	}
	second, err := svc.Process(context.Background(), obj)
	if err != nil {
		t.Fatalf("second Process() error: %v", err)
	}

	if *first != *second {
		t.Errorf("Expected identical results, got %+v and %+v", first, second)
	}
	if len(objects.uploads) != 1 {
		t.Errorf("Expected a single thumbnail object, got %v", objects.uploads)
	}
	if *store.videos["match42"].ThumbnailURL != first.ThumbnailURL {
		t.Error("Expected document to hold the same URL")
	}
}

func TestThumbnailProcess_Failures(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*stubObjects, *stubExtractor)
		docID    string
		wantStep string
	}{
		{"download fails", func(o *stubObjects, _ *stubExtractor) { o.downloadErr = errors.New("403") }, "match42", "download"},
		{"extract fails", func(_ *stubObjects, e *stubExtractor) { e.err = errors.New("moov atom not found") }, "match42", "extract"},
		{"upload fails", func(o *stubObjects, _ *stubExtractor) { o.uploadErr = errors.New("quota") }, "match42", "upload"},
		{"document missing", func(*stubObjects, *stubExtractor) {}, "other", "update"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			objects := newStubObjects()
			extractor := &stubExtractor{}
			tc.setup(objects, extractor)
			store := newStubVideoStore(models.Video{ID: tc.docID})
			svc, scratch := newTestThumbnailService(t, objects, extractor, store)

			_, err := svc.Process(context.Background(), models.StorageObject{
				Name: "videos_replays/match42.mp4", ContentType: "video/mp4",
			})

			var se *StepError
			if !errors.As(err, &se) {
				t.Fatalf("Expected StepError, got %v", err)
			}
			if se.Step != tc.wantStep {
				t.Errorf("Expected failing step %s, got %s", tc.wantStep, se.Step)
			}
			if errors.Is(err, ErrSkipped) {
				t.Error("Failures must not look like rejections")
			}
			assertScratchEmpty(t, scratch)
		})
	}
}

func TestVideoIDFor(t *testing.T) {
	tests := map[string]string{
		"videos_replays/match42.mp4":        "match42",
		"videos_replays/2024/final.mov":     "final",
		"videos_replays/clip.tar.mp4":       "clip.tar",
		"videos_replays/noextension":        "noextension",
		"videos_replays/.mp4":               ".mp4",
		"videos_replays/Final Match 01.mp4": "Final Match 01",
	}
	for in, want := range tests {
		if got := VideoIDFor(in); got != want {
			t.Errorf("VideoIDFor(%q) = %q, expected %q", in, got, want)
		}
	}
}

func TestThumbnailConfigFrom(t *testing.T) {
	cfg := &config.Config{
		UploadPrefix:    "videos_replays/",
		ThumbnailPrefix: "thumbnails/",
		ThumbnailMarker: "thumb_",
		ThumbnailOffset: "00:00:02.500",
		ThumbnailSize:   "640x360",
	}

	got, err := ThumbnailConfigFrom(cfg)
	if err != nil {
		t.Fatalf("ThumbnailConfigFrom() error: %v", err)
	}
	if got.Width != 640 || got.Height != 360 || got.Offset != "00:00:02.500" || got.Marker != "thumb_" {
		t.Errorf("Unexpected config %+v", got)
	}

	cfg.ThumbnailSize = "wide"
	if _, err := ThumbnailConfigFrom(cfg); err == nil {
		t.Error("Expected error for malformed size")
	}
}
