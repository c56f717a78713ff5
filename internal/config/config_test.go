package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"HTTP_ADDR", "CATALOG_SOURCE", "MONGO_URI", "MONGO_DB", "SHOP_COLLECTION",
		"MONGO_CONNECT_TIMEOUT", "TIMEZONE", "API_ALLOWED_ORIGINS", "SESSION_TTL",
		"SESSION_SWEEP_INTERVAL", "LOG_LEVEL", "APP_ENV",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, SourceStatic, cfg.CatalogSource)
	assert.Equal(t, "coffee-hunter", cfg.MongoDatabase)
	assert.Equal(t, "shops", cfg.ShopCollection)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, "Asia/Jerusalem", cfg.Timezone)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, time.Minute, cfg.SessionSweepInterval)
	assert.NotNil(t, cfg.Logger)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CATALOG_SOURCE", "Mongo")
	t.Setenv("API_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("SESSION_SWEEP_INTERVAL", "nonsense")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, SourceMongo, cfg.CatalogSource)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, time.Minute, cfg.SessionSweepInterval)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("CATALOG_SOURCE", "postgres")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("CATALOG_SOURCE", "")
	t.Setenv("LOG_LEVEL", "loud")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("COFFEE_HUNTER_TEST_VALUE=from-file\n"), 0o600))

	t.Setenv("ENV_FILE", path)
	t.Setenv("COFFEE_HUNTER_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("COFFEE_HUNTER_TEST_VALUE"))

	require.NoError(t, LoadEnvFiles())
	assert.Equal(t, "from-file", os.Getenv("COFFEE_HUNTER_TEST_VALUE"))
}

func TestLoadEnvFilesIgnoresMissingFile(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, LoadEnvFiles())
}
