package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/lograca/lograca/internal/config"
	"github.com/lograca/lograca/internal/database"
	"github.com/lograca/lograca/internal/repository"
	"github.com/lograca/lograca/internal/seed"
	"github.com/lograca/lograca/internal/server"
)

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, cfg.Database.URL); err != nil {
		logger.Fatal().Err(err).Msg("run migrations")
	}

	var nrApp *newrelic.Application
	if cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
		)
		if err != nil {
			logger.Fatal().Err(err).Msg("init new relic")
		}
	}

	pool, err := database.NewPool(ctx, cfg.Database.URL, logger, nrApp)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	if cfg.Ingest.Seed {
		if err := seed.Run(ctx, repository.NewLogRepository(pool), logger); err != nil {
			logger.Error().Err(err).Msg("seed sample data")
		}
	}

	srv := server.New(cfg, pool, logger)
	if err := srv.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
}
