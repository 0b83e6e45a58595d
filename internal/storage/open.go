package storage

import (
	"context"
	"fmt"

	"sportftv-backend/internal/config"
)

// Opened is the object store selected by STORAGE_TYPE. MediaDir is set
// for local storage only and is served under /media.
type Opened struct {
	ObjectStore
	MediaDir string
	close    func() error
}

func (o *Opened) Close() error { return o.close() }

func Open(ctx context.Context, cfg *config.Config) (*Opened, error) {
	if cfg.StorageType == config.StorageTypeGCS {
		gcs, err := NewGCSStore(ctx, cfg.StorageBucket, cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("opening bucket: %w", err)
		}
		return &Opened{ObjectStore: gcs, close: gcs.Close}, nil
	}

	local, err := NewLocalStore(cfg.StoragePath, cfg.PublicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening local storage: %w", err)
	}
	return &Opened{ObjectStore: local, MediaDir: local.Root(), close: func() error { return nil }}, nil
}
