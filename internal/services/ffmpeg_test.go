package services

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"
)

func TestFrameArgs(t *testing.T) {
	got := frameArgs("/tmp/in.mp4", "/tmp/thumb_in.jpg", "00:00:01.000", 1280, 720)
	want := []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-ss", "00:00:01.000",
		"-i", "/tmp/in.mp4",
		"-frames:v", "1",
		"-vf", "scale=1280:720",
		"-q:v", "2",
		"/tmp/thumb_in.jpg",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("frameArgs() = %v, expected %v", got, want)
	}
}

func writeFakeFFmpeg(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func TestFFmpegExtractor(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "thumb_match42.jpg")

	t.Run("writes the last argument", func(t *testing.T) {
		bin := writeFakeFFmpeg(t, "for last; do :; done\necho jpeg > \"$last\"\n")
		err := NewFFmpegExtractor(bin).ExtractFrame(context.Background(), "in.mp4", dst, "00:00:01.000", 1280, 720)
		if err != nil {
			t.Fatalf("ExtractFrame() error: %v", err)
		}
		if _, err := os.Stat(dst); err != nil {
			t.Errorf("Expected frame written: %v", err)
		}
	})

	t.Run("non-zero exit", func(t *testing.T) {
		bin := writeFakeFFmpeg(t, "echo 'Invalid data found' >&2\nexit 1\n")
		err := NewFFmpegExtractor(bin).ExtractFrame(context.Background(), "in.mp4", filepath.Join(dir, "x.jpg"), "00:00:01.000", 1280, 720)
		if err == nil {
			t.Fatal("Expected error")
		}
	})

	t.Run("exit zero without output", func(t *testing.T) {
		bin := writeFakeFFmpeg(t, "exit 0\n")
		err := NewFFmpegExtractor(bin).ExtractFrame(context.Background(), "in.mp4", filepath.Join(dir, "none.jpg"), "00:00:01.000", 1280, 720)
		if err == nil {
			t.Fatal("Expected error when no frame is produced")
		}
	})
}
