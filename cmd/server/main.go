package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"sportftv-backend/internal/config"
	"sportftv-backend/internal/database"
	"sportftv-backend/internal/handlers"
	"sportftv-backend/internal/metrics"
	"sportftv-backend/internal/middleware"
	"sportftv-backend/internal/router"
	"sportftv-backend/internal/services"
	"sportftv-backend/internal/storage"
	"sportftv-backend/internal/websocket"
	"sportftv-backend/internal/worker"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	// ──── Step 1: Load Environment Variables ────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := newLogger(cfg, stdout)
	logger.Info("starting sport ftv backend", "env", cfg.Env)

	// ──── Step 2: Open the Document Store ────
	stores, err := database.OpenStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer stores.Close()

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer redisClients.Close()
	logger.Info("connected to redis")

	// ──── Step 4: Open Object Storage ────
	objects, err := storage.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer objects.Close()
	logger.Info("object storage ready", "type", cfg.StorageType, "bucket", objects.Bucket())

	// ──── Initialize Services ────
	m := metrics.New()
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	sessionService := services.NewSessionService(redisClients.Queue, jwtAuth, cfg.SessionTTL, logger)
	videoService := services.NewVideoService(stores.Videos, stores.Catalog, logger)

	thumbCfg, err := services.ThumbnailConfigFrom(cfg)
	if err != nil {
		return err
	}
	thumbnailService := services.NewThumbnailService(objects, services.NewFFmpegExtractor(cfg.FFmpegPath), stores.Videos, thumbCfg, logger)

	// ──── Step 5: Start Thumbnail Worker Pool ────
	workerPool := worker.NewPool(redisClients.Queue, thumbnailService, m, worker.Options{
		WorkerCount: cfg.WorkerCount,
		MaxAttempts: cfg.ThumbnailMaxAttempts,
		Timeout:     cfg.ThumbnailTimeout,
	}, logger)
	workerPool.Start(ctx)

	// ──── Step 6: WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, worker.UpdatesChannel, jwtAuth, sessionService, logger)

	authLimiter := middleware.NewRateLimiter(20, time.Minute)

	// ──── Step 7: HTTP Server ────
	handler := router.New(router.Deps{
		Logger:         logger,
		Metrics:        m,
		JWT:            jwtAuth,
		Sessions:       sessionService,
		AuthLimiter:    authLimiter,
		AdminKeyHash:   cfg.AdminKeyHash,
		FrontendURL:    cfg.FrontendURL,
		RequestTimeout: cfg.QueryTimeout,
		MediaDir:       objects.MediaDir,
		Auth:           handlers.NewAuthHandler(sessionService),
		Browse:         handlers.NewBrowseHandler(videoService, m),
		Videos:         handlers.NewVideoHandler(videoService),
		Admin:          handlers.NewAdminHandler(videoService),
		Events:         handlers.NewEventsHandler(thumbnailService, workerPool, objects, cfg.UploadPrefix, cfg.MaxUploadBytes(), logger),
		Health: handlers.NewHealthHandler(logger, map[string]handlers.Checker{
			"store": handlers.CheckFunc(stores.Videos.Ping),
			"redis": handlers.CheckFunc(redisClients.Ping),
		}),
		Hub: wsHub,
	})

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// Uploads stream whole replays.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	if cfg.AdminKeyHash == "" {
		logger.Warn("ADMIN_KEY_HASH is not set; admin routes and storage events are disabled")
	}

	// ──── Run ────
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", server.Addr, "docs", "/docs")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return wsHub.Run(gctx)
	})

	g.Go(func() error {
		authLimiter.Cleanup(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		err := server.Shutdown(shutdownCtx)
		workerPool.Stop()
		return err
	})

	return g.Wait()
}

// newLogger writes JSON in production and text elsewhere.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
