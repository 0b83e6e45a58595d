package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"sportftv-backend/internal/config"
	"sportftv-backend/internal/models"
	"sportftv-backend/internal/repository"
	"sportftv-backend/internal/storage"
)

const thumbnailContentType = "image/jpeg"

type ThumbnailConfig struct {
	UploadPrefix    string
	ThumbnailPrefix string
	Marker          string
	Offset          string
	Width           int
	Height          int
	// ScratchDir is the parent of the per-run scratch directories. Empty
	// means the system temp dir.
	ScratchDir string
}

// ThumbnailConfigFrom reads the pipeline settings from cfg.
func ThumbnailConfigFrom(cfg *config.Config) (ThumbnailConfig, error) {
	width, height, err := cfg.ThumbnailDimensions()
	if err != nil {
		return ThumbnailConfig{}, err
	}
	return ThumbnailConfig{
		UploadPrefix:    cfg.UploadPrefix,
		ThumbnailPrefix: cfg.ThumbnailPrefix,
		Marker:          cfg.ThumbnailMarker,
		Offset:          cfg.ThumbnailOffset,
		Width:           width,
		Height:          height,
	}, nil
}

type ThumbnailResult struct {
	VideoID       string `json:"video_id"`
	ThumbnailName string `json:"thumbnail_name"`
	ThumbnailURL  string `json:"thumbnail_url"`
}

// StepError names the pipeline step that failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string { return e.Step + ": " + e.Err.Error() }

func (e *StepError) Unwrap() error { return e.Err }

// ThumbnailService turns a finalized upload into a JPEG still and records
// its public URL on the video document whose id is the file stem.
type ThumbnailService struct {
	objects   storage.ObjectStore
	extractor FrameExtractor
	videos    repository.VideoStore
	cfg       ThumbnailConfig
	logger    *slog.Logger
}

func NewThumbnailService(objects storage.ObjectStore, extractor FrameExtractor, videos repository.VideoStore, cfg ThumbnailConfig, logger *slog.Logger) *ThumbnailService {
	return &ThumbnailService{
		objects:   objects,
		extractor: extractor,
		videos:    videos,
		cfg:       cfg,
		logger:    logger,
	}
}

func skipped(reason string) error {
	return fmt.Errorf("%w: %s", ErrSkipped, reason)
}

// Check applies the guards in order and returns a wrapped ErrSkipped for a
// rejected object.
func (s *ThumbnailService) Check(obj models.StorageObject) error {
	switch {
	case obj.Name == "":
		return skipped("object name is empty")
	case !strings.HasPrefix(obj.Name, s.cfg.UploadPrefix):
		return skipped("object is outside " + s.cfg.UploadPrefix)
	case !strings.HasPrefix(obj.ContentType, "video/"):
		return skipped("content type " + quoteOrEmpty(obj.ContentType) + " is not a video")
	case strings.Contains(obj.Name, s.cfg.Marker):
		return skipped("object is already a thumbnail")
	}
	return nil
}

func quoteOrEmpty(s string) string {
	if s == "" {
		return "(empty)"
	}
	return fmt.Sprintf("%q", s)
}

// VideoIDFor returns the document id an upload maps to: its base name
// without the extension.
func VideoIDFor(name string) string {
	base := path.Base(name)
	stem := strings.TrimSuffix(base, path.Ext(base))
	if stem == "" {
		return base
	}
	return stem
}

// ThumbnailNameFor returns the object name the still for videoID is
// uploaded to.
func (s *ThumbnailService) ThumbnailNameFor(videoID string) string {
	return s.cfg.ThumbnailPrefix + s.cfg.Marker + videoID + ".jpg"
}

// Process runs the whole pipeline for one object. Rejections return a
// wrapped ErrSkipped; failures return a *StepError. Scratch files are
// removed on every path.
func (s *ThumbnailService) Process(ctx context.Context, obj models.StorageObject) (*ThumbnailResult, error) {
	logger := s.logger.With("object", obj.Name, "bucket", obj.Bucket)

	if err := s.Check(obj); err != nil {
		logger.Info("thumbnail skipped", "reason", strings.TrimPrefix(err.Error(), ErrSkipped.Error()+": "))
		return nil, err
	}

	videoID := VideoIDFor(obj.Name)
	thumbFile := s.cfg.Marker + videoID + ".jpg"
	result := &ThumbnailResult{
		VideoID:       videoID,
		ThumbnailName: s.ThumbnailNameFor(videoID),
	}

	scratch, err := os.MkdirTemp(s.cfg.ScratchDir, "thumbnail-*")
	if err != nil {
		return nil, s.fail(logger, "scratch", err)
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			logger.Warn("failed to remove scratch directory", "dir", scratch, "error", err)
		}
	}()

	videoPath := filepath.Join(scratch, path.Base(obj.Name))
	thumbPath := filepath.Join(scratch, thumbFile)

	if err := s.objects.Download(ctx, obj.Name, videoPath); err != nil {
		return nil, s.fail(logger, "download", err)
	}
	if err := s.extractor.ExtractFrame(ctx, videoPath, thumbPath, s.cfg.Offset, s.cfg.Width, s.cfg.Height); err != nil {
		return nil, s.fail(logger, "extract", err)
	}
	if err := s.objects.Upload(ctx, thumbPath, result.ThumbnailName, thumbnailContentType); err != nil {
		return nil, s.fail(logger, "upload", err)
	}
	if err := s.objects.MakePublic(ctx, result.ThumbnailName); err != nil {
		return nil, s.fail(logger, "publish", err)
	}
	result.ThumbnailURL = s.objects.PublicURL(result.ThumbnailName)

	if err := s.videos.UpdateThumbnailURL(ctx, videoID, result.ThumbnailURL); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = fmt.Errorf("video document %q does not exist: %w", videoID, err)
		}
		return nil, s.fail(logger, "update", err)
	}

	logger.Info("thumbnail generated", "video_id", videoID, "thumbnail_url", result.ThumbnailURL)
	return result, nil
}

func (s *ThumbnailService) fail(logger *slog.Logger, step string, err error) error {
	logger.Error("thumbnail pipeline failed", "step", step, "error", err)
	return &StepError{Step: step, Err: err}
}
