package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StoreBackendPostgres  = "postgres"
	StoreBackendFirestore = "firestore"

	StorageTypeLocal = "local"
	StorageTypeGCS   = "gcs"
)

type Config struct {
	// Server
	Port     string     `env:"PORT" envDefault:"8080"`
	Env      string     `env:"ENV" envDefault:"development"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	// Document store
	StoreBackend       string        `env:"STORE_BACKEND" envDefault:"postgres"`
	DatabaseURL        string        `env:"DATABASE_URL"`
	RunMigrations      bool          `env:"RUN_MIGRATIONS" envDefault:"true"`
	FirestoreProjectID string        `env:"FIRESTORE_PROJECT_ID"`
	CredentialsFile    string        `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	QueryTimeout       time.Duration `env:"QUERY_TIMEOUT" envDefault:"10s"`

	// Redis
	RedisURL string `env:"REDIS_URL,notEmpty"`

	// Sessions
	JWTSecret    string        `env:"JWT_SECRET,notEmpty"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	AdminKeyHash string        `env:"ADMIN_KEY_HASH"`

	// Object storage
	StorageType   string `env:"STORAGE_TYPE" envDefault:"local"`
	StoragePath   string `env:"STORAGE_PATH" envDefault:"./media"`
	StorageBucket string `env:"STORAGE_BUCKET"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080/media"`
	MaxUploadMB   int64  `env:"MAX_UPLOAD_MB" envDefault:"200"`

	// Thumbnail pipeline
	UploadPrefix         string        `env:"UPLOAD_PREFIX" envDefault:"videos_replays/"`
	ThumbnailPrefix      string        `env:"THUMBNAIL_PREFIX" envDefault:"thumbnails/"`
	ThumbnailMarker      string        `env:"THUMBNAIL_MARKER" envDefault:"thumb_"`
	ThumbnailOffset      string        `env:"THUMBNAIL_OFFSET" envDefault:"00:00:01.000"`
	ThumbnailSize        string        `env:"THUMBNAIL_SIZE" envDefault:"1280x720"`
	FFmpegPath           string        `env:"FFMPEG_PATH" envDefault:"ffmpeg"`
	ThumbnailTimeout     time.Duration `env:"THUMBNAIL_TIMEOUT" envDefault:"300s"`
	ThumbnailMaxAttempts int           `env:"THUMBNAIL_MAX_ATTEMPTS" envDefault:"1"`
	WorkerCount          int           `env:"WORKER_COUNT" envDefault:"4"`

	// Frontend
	FrontendURL string `env:"FRONTEND_URL" envDefault:"*"`
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case StoreBackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_BACKEND=%s", c.StoreBackend)
		}
	case StoreBackendFirestore:
		if c.FirestoreProjectID == "" {
			return fmt.Errorf("FIRESTORE_PROJECT_ID is required when STORE_BACKEND=%s", c.StoreBackend)
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.StorageType {
	case StorageTypeLocal:
	case StorageTypeGCS:
		if c.StorageBucket == "" {
			return fmt.Errorf("STORAGE_BUCKET is required when STORAGE_TYPE=%s", c.StorageType)
		}
	default:
		return fmt.Errorf("unknown STORAGE_TYPE %q", c.StorageType)
	}

	if _, _, err := c.ThumbnailDimensions(); err != nil {
		return err
	}
	if c.ThumbnailMaxAttempts < 1 {
		c.ThumbnailMaxAttempts = 1
	}
	if c.WorkerCount < 1 {
		c.WorkerCount = 1
	}
	if !strings.HasSuffix(c.UploadPrefix, "/") {
		c.UploadPrefix += "/"
	}
	if !strings.HasSuffix(c.ThumbnailPrefix, "/") {
		c.ThumbnailPrefix += "/"
	}
	return nil
}

// ThumbnailDimensions splits THUMBNAIL_SIZE ("WxH") into width and height.
func (c *Config) ThumbnailDimensions() (int, int, error) {
	w, h, ok := strings.Cut(strings.ToLower(c.ThumbnailSize), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid THUMBNAIL_SIZE %q: want WIDTHxHEIGHT", c.ThumbnailSize)
	}
	width, err := strconv.Atoi(w)
	if err != nil || width <= 0 {
		return 0, 0, fmt.Errorf("invalid THUMBNAIL_SIZE width %q", w)
	}
	height, err := strconv.Atoi(h)
	if err != nil || height <= 0 {
		return 0, 0, fmt.Errorf("invalid THUMBNAIL_SIZE height %q", h)
	}
	return width, height, nil
}

// MaxUploadBytes is the multipart upload ceiling in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB * 1024 * 1024
}

// IsProduction selects the JSON log format.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
