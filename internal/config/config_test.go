package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "https://developer-lostark.game.onstove.com", cfg.LostArk.BaseURL)
	assert.Equal(t, "ko", cfg.LostArk.Locale)
	assert.Equal(t, 30*time.Second, cfg.LostArk.Timeout())
	assert.Equal(t, 0, cfg.LostArk.RequestsPerMinute)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_BuildAPIKeyIsDefault(t *testing.T) {
	old := BuildAPIKey
	BuildAPIKey = "baked-in"
	t.Cleanup(func() { BuildAPIKey = old })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "baked-in", cfg.LostArk.APIKey)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loa.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
addr = ":9090"

[lostark]
api_key = "file-key"
locale = "en"
timeout_seconds = 5
requests_per_minute = 100

[storage]
driver = "postgres"
dsn = "postgres://localhost/loa?sslmode=disable"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "file-key", cfg.LostArk.APIKey)
	assert.Equal(t, "en", cfg.LostArk.Locale)
	assert.Equal(t, 5*time.Second, cfg.LostArk.Timeout())
	assert.Equal(t, 100, cfg.LostArk.RequestsPerMinute)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	// untouched sections keep their defaults
	assert.Equal(t, "info", cfg.Logging.Level)

	t.Setenv("LOA_API_KEY", "env-key")
	t.Setenv("LOA_LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://db/loa")

	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.LostArk.APIKey)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "postgres://db/loa", cfg.Storage.DSN)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("LOA_API_REQUESTS_PER_MINUTE", "lots")
	_, err := Load("")
	assert.Error(t, err)
}

func TestTimeout_Disabled(t *testing.T) {
	assert.Equal(t, time.Duration(0), LostArkConfig{}.Timeout())
}
