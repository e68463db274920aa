// Package safedrive parses dashboard command flags and launches the
// dashboard runtime.
package safedrive

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	entrypoint "github.com/safedrive/dashboard/internal/platform/cmd"
	"github.com/safedrive/dashboard/internal/platform/logging"
	"github.com/safedrive/dashboard/internal/services/dashboard"
	"github.com/safedrive/dashboard/internal/services/dashboard/dataset"
	"github.com/safedrive/dashboard/internal/services/dashboard/storage"
	redisstore "github.com/safedrive/dashboard/internal/services/dashboard/storage/redis"
	sqlitestore "github.com/safedrive/dashboard/internal/services/dashboard/storage/sqlite"
	"go.uber.org/zap"
)

// Storage backends.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// Config holds dashboard command configuration.
type Config struct {
	HTTPAddr          string        `env:"HTTP_ADDR" envDefault:":8080"`
	Storage           string        `env:"STORAGE" envDefault:"sqlite"`
	SQLitePath        string        `env:"SQLITE_PATH" envDefault:"data/safedrive.db"`
	RedisURL          string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	SessionSecret     string        `env:"SESSION_SECRET"`
	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	LoginDelay        time.Duration `env:"LOGIN_DELAY" envDefault:"1s"`
	DetectionInterval time.Duration `env:"DETECTION_INTERVAL" envDefault:"10s"`
	DetectionDisplay  time.Duration `env:"DETECTION_DISPLAY" envDefault:"3s"`
	DetectionIdle     time.Duration `env:"DETECTION_IDLE" envDefault:"2m"`
	DatasetRebase     bool          `env:"DATASET_REBASE" envDefault:"true"`
	Timezone          string        `env:"TIMEZONE" envDefault:"Local"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat         string        `env:"LOG_FORMAT" envDefault:"json"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.Storage, "storage", cfg.Storage, "Storage backend: sqlite, redis or memory")
	fs.StringVar(&cfg.SQLitePath, "sqlite-path", cfg.SQLitePath, "SQLite database path")
	fs.StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis connection URL")
	fs.StringVar(&cfg.SessionSecret, "session-secret", cfg.SessionSecret, "Secret signing the session cookie")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	return cfg, nil
}

// Run starts the dashboard runtime.
func Run(ctx context.Context, cfg Config) error {
	logger, err := logging.New(logging.Options{
		Service: entrypoint.ServiceDashboard,
		Level:   cfg.LogLevel,
		Format:  logging.Format(strings.ToLower(strings.TrimSpace(cfg.LogFormat))),
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceDashboard, entrypoint.RunOptions{Logger: logger}, func(ctx context.Context) error {
		return serve(ctx, cfg, logger)
	})
}

func serve(ctx context.Context, cfg Config, logger *zap.Logger) error {
	loc, err := time.LoadLocation(strings.TrimSpace(cfg.Timezone))
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}
	datasetOpts := dataset.Options{Location: loc}
	if cfg.DatasetRebase {
		datasetOpts.RebaseTo = time.Now().In(loc)
	}
	provider, err := dataset.Load(datasetOpts)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	secret, err := sessionSecret(cfg.SessionSecret)
	if err != nil {
		return err
	}
	if cfg.SessionSecret == "" {
		logger.Warn("session secret not set; sessions will not survive a restart")
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("close storage", zap.Error(err))
		}
	}()

	server, err := dashboard.NewServer(ctx, dashboard.Config{
		HTTPAddr:          cfg.HTTPAddr,
		Store:             store,
		Dataset:           provider,
		SessionSecret:     secret,
		SessionTTL:        cfg.SessionTTL,
		LoginDelay:        cfg.LoginDelay,
		DetectionInterval: cfg.DetectionInterval,
		DetectionDisplay:  cfg.DetectionDisplay,
		DetectionIdle:     cfg.DetectionIdle,
		Now:               func() time.Time { return time.Now().In(loc) },
		Logger:            logger,
	})
	if err != nil {
		return err
	}
	defer server.Close()

	logger.Info("dashboard listening",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("storage", cfg.Storage),
		zap.String("timezone", loc.String()),
	)
	return server.ListenAndServe(ctx)
}

func sessionSecret(configured string) ([]byte, error) {
	if configured = strings.TrimSpace(configured); configured != "" {
		return []byte(configured), nil
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate session secret: %w", err)
	}
	return secret, nil
}

func openStore(cfg Config) (storage.Store, error) {
	switch cfg.Storage {
	case StorageSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create storage dir: %w", err)
			}
		}
		store, err := sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		return store, nil
	case StorageRedis:
		store, err := redisstore.Open(cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			return nil, fmt.Errorf("open redis storage: %w", err)
		}
		return store, nil
	case StorageMemory:
		return storage.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unsupported storage %q", cfg.Storage)
	}
}
