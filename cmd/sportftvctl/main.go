// Command sportftvctl runs operator tasks against the configured stores:
// legacy record repair, sample data, admin key hashing and one-off
// thumbnail runs.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"sportftv-backend/internal/config"
	"sportftv-backend/internal/database"
	"sportftv-backend/internal/middleware"
	"sportftv-backend/internal/models"
	"sportftv-backend/internal/services"
	"sportftv-backend/internal/storage"
)

const usage = `usage: sportftvctl <command> [flags]

commands:
  repair [-apply]                 plan (or apply) fixes for legacy video records
  seed                            load the sample arenas, courts and videos
  hash-key <key>                  print the bcrypt hash for ADMIN_KEY_HASH
  thumbnail -name <object> [-type video/mp4]
                                  run the thumbnail pipeline for one object
`

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errors.New("missing command")
	}

	cmd, rest := args[0], args[1:]
	if cmd == "hash-key" {
		return hashKey(rest, stdout)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	switch cmd {
	case "repair":
		return repair(ctx, cfg, logger, rest, stdout)
	case "seed":
		return seed(ctx, cfg, logger, stdout)
	case "thumbnail":
		return thumbnail(ctx, cfg, logger, rest, stdout)
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func hashKey(args []string, stdout io.Writer) error {
	if len(args) != 1 || args[0] == "" {
		return errors.New("hash-key takes exactly one key")
	}
	hash, err := middleware.HashAdminKey(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, hash)
	return nil
}

func repair(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("repair", flag.ContinueOnError)
	apply := fs.Bool("apply", false, "write the planned changes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	stores, err := database.OpenStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer stores.Close()

	svc := services.NewRepairService(stores.Videos, services.DefaultRepairDefaults(), logger)
	plan, err := svc.Plan(ctx)
	if err != nil {
		return err
	}
	if err := printJSON(stdout, plan); err != nil {
		return err
	}
	if !*apply {
		logger.Info("dry run; pass -apply to write", "scanned", plan.Scanned, "changes", len(plan.Changes))
		return nil
	}

	applied, err := svc.Apply(ctx, plan)
	if err != nil {
		return fmt.Errorf("applied %d of %d: %w", applied, len(plan.Changes), err)
	}
	logger.Info("repair applied", "updated", applied)
	return nil
}

func seed(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	stores, err := database.OpenStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer stores.Close()

	videos := services.NewVideoService(stores.Videos, stores.Catalog, logger)
	res, err := services.NewSeeder(videos, logger).Seed(ctx)
	if err != nil {
		return err
	}
	return printJSON(stdout, res)
}

func thumbnail(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("thumbnail", flag.ContinueOnError)
	name := fs.String("name", "", "object name, e.g. videos_replays/match42.mp4")
	contentType := fs.String("type", "video/mp4", "object content type")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return errors.New("-name is required")
	}

	stores, err := database.OpenStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer stores.Close()

	objects, err := storage.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer objects.Close()

	thumbCfg, err := services.ThumbnailConfigFrom(cfg)
	if err != nil {
		return err
	}
	svc := services.NewThumbnailService(objects, services.NewFFmpegExtractor(cfg.FFmpegPath), stores.Videos, thumbCfg, logger)

	ctx, cancel := context.WithTimeout(ctx, cfg.ThumbnailTimeout)
	defer cancel()

	res, err := svc.Process(ctx, models.StorageObject{
		Bucket:      objects.Bucket(),
		Name:        *name,
		ContentType: *contentType,
	})
	if err != nil {
		return err
	}
	return printJSON(stdout, res)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
