package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// FrameExtractor writes a single still of src taken at offset to dst,
// scaled to width x height.
type FrameExtractor interface {
	ExtractFrame(ctx context.Context, src, dst, offset string, width, height int) error
}

// FFmpegExtractor shells out to the ffmpeg binary.
type FFmpegExtractor struct {
	Path string
}

func NewFFmpegExtractor(path string) *FFmpegExtractor {
	if path == "" {
		path = "ffmpeg"
	}
	return &FFmpegExtractor{Path: path}
}

func frameArgs(src, dst, offset string, width, height int) []string {
	return []string{
		"-hide_banner", "-loglevel", "error",
		"-y",
		"-ss", offset,
		"-i", src,
		"-frames:v", "1",
		"-vf", fmt.Sprintf("scale=%d:%d", width, height),
		"-q:v", "2",
		dst,
	}
}

func (e *FFmpegExtractor) ExtractFrame(ctx context.Context, src, dst, offset string, width, height int) error {
	cmd := exec.CommandContext(ctx, e.Path, frameArgs(src, dst, offset, width, height)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg interrupted: %w", ctx.Err())
		}
		return fmt.Errorf("ffmpeg failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	// ffmpeg exits 0 without output when the offset is past the end.
	info, err := os.Stat(dst)
	if errors.Is(err, os.ErrNotExist) || (err == nil && info.Size() == 0) {
		return fmt.Errorf("ffmpeg produced no frame at %s", offset)
	}
	return err
}
