package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// SourceStatic はバイナリに埋め込んだ YAML カタログを使う。
	SourceStatic = "static"
	// SourceMongo は MongoDB の shops コレクションからカタログを読む。
	SourceMongo = "mongo"
)

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                 string
	CatalogSource        string
	MongoURI             string
	MongoDatabase        string
	ShopCollection       string
	Timeout              time.Duration
	Timezone             string
	AllowedOrigins       []string
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
	LogLevel             string
	Environment          string
	Logger               *zap.SugaredLogger
}

// LoadEnvFiles は ENV_FILE (既定 .env) を環境変数へ読み込む。ファイルが無ければ何もしない。
// 既に設定済みの環境変数は上書きしない。
func LoadEnvFiles() error {
	path := envOrDefault("ENV_FILE", ".env")
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Load reads environment variables and returns a fully populated Config.
func Load() (Config, error) {
	source := strings.ToLower(envOrDefault("CATALOG_SOURCE", SourceStatic))
	if source != SourceStatic && source != SourceMongo {
		return Config{}, fmt.Errorf("CATALOG_SOURCE must be %q or %q, got %q", SourceStatic, SourceMongo, source)
	}

	cfg := Config{
		Addr:                 envOrDefault("HTTP_ADDR", ":8080"),
		CatalogSource:        source,
		MongoURI:             envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:        envOrDefault("MONGO_DB", "coffee-hunter"),
		ShopCollection:       envOrDefault("SHOP_COLLECTION", "shops"),
		Timeout:              durationOrDefault("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		Timezone:             envOrDefault("TIMEZONE", "Asia/Jerusalem"),
		AllowedOrigins:       parseList("API_ALLOWED_ORIGINS", []string{"*"}),
		SessionTTL:           durationOrDefault("SESSION_TTL", 30*time.Minute),
		SessionSweepInterval: durationOrDefault("SESSION_SWEEP_INTERVAL", time.Minute),
		LogLevel:             envOrDefault("LOG_LEVEL", "info"),
		Environment:          strings.TrimSpace(os.Getenv("APP_ENV")),
	}

	logger, err := NewLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return Config{}, err
	}
	cfg.Logger = logger

	cfg.Logger.Infow("loaded config",
		"addr", cfg.Addr,
		"catalogSource", cfg.CatalogSource,
		"timezone", cfg.Timezone,
		"sessionTTL", cfg.SessionTTL,
	)
	return cfg, nil
}

// NewLogger builds a sugared zap logger. APP_ENV=development selects the console encoder.
func NewLogger(level, environment string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}

	zcfg := zap.NewProductionConfig()
	if strings.EqualFold(environment, "development") {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Sugar().Named("coffee-hunter-api"), nil
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
