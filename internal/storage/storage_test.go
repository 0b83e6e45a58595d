package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStore_PutDownload(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStore(root, "http://localhost:8080/media/")
	if err != nil {
		t.Fatalf("NewLocalStore() error: %v", err)
	}
	ctx := context.Background()

	if err := s.Put(ctx, strings.NewReader("frames"), "videos_replays/match42.mp4", "video/mp4"); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	dst := filepath.Join(t.TempDir(), "copy.mp4")
	if err := s.Download(ctx, "videos_replays/match42.mp4", dst); err != nil {
		t.Fatalf("Download() error: %v", err)
	}
	data, _ := os.ReadFile(dst)
	if string(data) != "frames" {
		t.Errorf("Expected downloaded content %q, got %q", "frames", data)
	}

	entries, _ := os.ReadDir(filepath.Join(root, "videos_replays"))
	if len(entries) != 1 {
		t.Errorf("Expected no leftover temp files, got %d entries", len(entries))
	}
}

func TestLocalStore_Upload(t *testing.T) {
	s, _ := NewLocalStore(t.TempDir(), "http://localhost:8080/media")
	src := filepath.Join(t.TempDir(), "thumb_match42.jpg")
	os.WriteFile(src, []byte("jpeg"), 0o644)

	if err := s.Upload(context.Background(), src, "thumbnails/thumb_match42.jpg", "image/jpeg"); err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Root(), "thumbnails", "thumb_match42.jpg")); err != nil {
		t.Errorf("Expected uploaded object on disk: %v", err)
	}
}

func TestLocalStore_DownloadMissing(t *testing.T) {
	s, _ := NewLocalStore(t.TempDir(), "http://x")
	err := s.Download(context.Background(), "videos_replays/none.mp4", filepath.Join(t.TempDir(), "x"))
	if !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("Expected ErrObjectNotFound, got %v", err)
	}
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	s, _ := NewLocalStore(t.TempDir(), "http://x")
	for _, name := range []string{"../escape.mp4", "videos_replays/../../etc/passwd", ""} {
		if err := s.Put(context.Background(), strings.NewReader("x"), name, "video/mp4"); err == nil {
			t.Errorf("Expected error for %q", name)
		}
	}
}

func TestPublicURLs(t *testing.T) {
	local, _ := NewLocalStore(t.TempDir(), "http://localhost:8080/media/")
	if got := local.PublicURL("thumbnails/thumb_match42.jpg"); got != "http://localhost:8080/media/thumbnails/thumb_match42.jpg" {
		t.Errorf("Unexpected local URL %q", got)
	}

	tests := []struct {
		name     string
		expected string
	}{
		{"thumbnails/thumb_match42.jpg", "https://storage.googleapis.com/sportftv/thumbnails/thumb_match42.jpg"},
		{"thumbnails/thumb_final game.jpg", "https://storage.googleapis.com/sportftv/thumbnails/thumb_final%20game.jpg"},
	}
	for _, tc := range tests {
		if got := gcsPublicURL("sportftv", tc.name); got != tc.expected {
			t.Errorf("gcsPublicURL(%q) = %q, expected %q", tc.name, got, tc.expected)
		}
	}
}

// ─── GCS writer ───

type recordingWriter struct {
	ctx       context.Context
	buf       strings.Builder
	committed bool
}

func (w *recordingWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }

// Close mirrors the GCS writer: a canceled context aborts the upload.
func (w *recordingWriter) Close() error {
	if err := w.ctx.Err(); err != nil {
		return err
	}
	w.committed = true
	return nil
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestWriteObject_AbortsOnCopyError(t *testing.T) {
	var w *recordingWriter
	open := func(ctx context.Context) io.WriteCloser {
		w = &recordingWriter{ctx: ctx}
		return w
	}

	err := writeObject(context.Background(), open, io.MultiReader(strings.NewReader("half"), failingReader{}), "videos_replays/m.mp4")
	if err == nil {
		t.Fatal("Expected error from failed copy")
	}
	if w.committed {
		t.Error("Expected partial object not to be committed")
	}

	if err := writeObject(context.Background(), open, strings.NewReader("whole"), "videos_replays/m.mp4"); err != nil {
		t.Fatalf("writeObject() error: %v", err)
	}
	if !w.committed || w.buf.String() != "whole" {
		t.Errorf("Expected committed %q, got committed=%v %q", "whole", w.committed, w.buf.String())
	}
}
