package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"loa-character-lookup/internal/api"
	"loa-character-lookup/internal/config"
	"loa-character-lookup/internal/credential"
	"loa-character-lookup/internal/db"
	"loa-character-lookup/internal/handlers"
	"loa-character-lookup/internal/i18n"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Logging)

	// Without the database a saved key only lives until the next restart.
	var store credential.Store
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	conn, err := db.Open(ctx, cfg.Storage.Driver, cfg.Storage.DSN)
	cancel()
	if err != nil {
		logger.Warn().Err(err).Str("driver", cfg.Storage.Driver).Msg("Credential database unavailable, saved API keys will not survive a restart")
		store = credential.NewMemoryStore()
	} else {
		defer conn.Close()
		store = credential.NewSQLStore(conn, cfg.Storage.Driver, logger)
		logger.Info().Str("driver", cfg.Storage.Driver).Msg("Credential database initialized")
	}

	resolver := credential.NewResolver(store, cfg.LostArk.APIKey, logger)
	client := api.NewClient(resolver,
		api.WithBaseURL(cfg.LostArk.BaseURL),
		api.WithHTTPClient(&http.Client{Timeout: cfg.LostArk.Timeout()}),
		api.WithLogger(logger),
		api.WithRateLimit(cfg.LostArk.RequestsPerMinute),
		api.WithLocale(i18n.ParseLocale(cfg.LostArk.Locale)),
	)

	h := handlers.New(client, store, resolver, logger)
	router := handlers.NewRouter(h)

	logger.Info().Str("addr", cfg.Server.Addr).Str("api_key_source", string(resolver.Source(context.Background()))).Msg("Server starting")
	if err := http.ListenAndServe(cfg.Server.Addr, router); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}
