package database

import (
	"context"
	"fmt"
	"log/slog"

	"sportftv-backend/internal/config"
	"sportftv-backend/internal/repository"
)

// Stores is the document store selected by STORE_BACKEND.
type Stores struct {
	Videos  repository.VideoStore
	Catalog repository.CatalogStore
	close   func()
}

func (s *Stores) Close() { s.close() }

func OpenStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Stores, error) {
	switch cfg.StoreBackend {
	case config.StoreBackendFirestore:
		client, err := NewFirestoreClient(ctx, cfg.FirestoreProjectID, cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("connecting to firestore: %w", err)
		}
		logger.Info("connected to firestore", "project", cfg.FirestoreProjectID)
		return &Stores{
			Videos:  repository.NewFirestoreVideoRepo(client),
			Catalog: repository.NewFirestoreCatalogRepo(client),
			close:   func() { client.Close() },
		}, nil

	default:
		pool, err := NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		logger.Info("connected to postgres")

		if cfg.RunMigrations {
			if err := RunMigrations(ctx, pool, logger); err != nil {
				pool.Close()
				return nil, fmt.Errorf("running migrations: %w", err)
			}
		}
		return &Stores{
			Videos:  repository.NewPostgresVideoRepo(pool),
			Catalog: repository.NewPostgresCatalogRepo(pool),
			close:   pool.Close,
		}, nil
	}
}
