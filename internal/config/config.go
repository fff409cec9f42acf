package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

// BuildAPIKey is the default API key baked in at build time:
//
//	go build -ldflags "-X loa-character-lookup/internal/config.BuildAPIKey=..."
var BuildAPIKey string

type Config struct {
	Server  ServerConfig  `toml:"server"`
	LostArk LostArkConfig `toml:"lostark"`
	Storage StorageConfig `toml:"storage"`
	Logging LoggingConfig `toml:"logging"`
}

type ServerConfig struct {
	Addr string `toml:"addr" env:"LOA_SERVER_ADDR"`
}

type LostArkConfig struct {
	BaseURL string `toml:"base_url" env:"LOA_API_BASE_URL"`
	// APIKey is the default credential, used when no key has been saved
	// through the settings endpoint.
	APIKey string `toml:"api_key" env:"LOA_API_KEY"`
	// Locale of user-facing error messages ("ko", "en").
	Locale string `toml:"locale" env:"LOA_LOCALE"`
	// TimeoutSeconds is the HTTP client timeout; zero leaves requests unbounded.
	TimeoutSeconds int `toml:"timeout_seconds" env:"LOA_API_TIMEOUT_SECONDS"`
	// RequestsPerMinute paces outgoing requests; zero disables pacing.
	RequestsPerMinute int `toml:"requests_per_minute" env:"LOA_API_REQUESTS_PER_MINUTE"`
}

type StorageConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `toml:"driver" env:"LOA_STORAGE_DRIVER"`
	DSN    string `toml:"dsn" env:"DATABASE_URL"`
}

type LoggingConfig struct {
	Level string `toml:"level" env:"LOA_LOG_LEVEL"`
}

// NewDefaultConfig returns the configuration used when nothing overrides it.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		LostArk: LostArkConfig{
			BaseURL:        "https://developer-lostark.game.onstove.com",
			APIKey:         BuildAPIKey,
			Locale:         "ko",
			TimeoutSeconds: 30,
		},
		Storage: StorageConfig{
			Driver: "sqlite",
			DSN:    "data/credentials.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load applies, in order: defaults, the TOML file at path (if path is not
// empty), then environment variables.
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// Timeout returns the HTTP client timeout.
func (c LostArkConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
