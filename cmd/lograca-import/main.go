// lograca-import runs one ingestion batch: it reads a JSON report file
// produced by the log analyzer, normalizes every entry and replaces the
// previous generation for the same source tag. Exits 0 on success and 1
// on any failure.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/lograca/lograca/internal/config"
	"github.com/lograca/lograca/internal/database"
	"github.com/lograca/lograca/internal/ingest"
	"github.com/lograca/lograca/internal/repository"
)

func main() {
	_ = godotenv.Load()

	var (
		filePath        string
		sourceTag       string
		serviceOverride string
	)
	flag.StringVar(&filePath, "file", "", "Report file path (JSON array, optionally .gz).")
	flag.StringVar(&sourceTag, "source", "", "Provenance tag to stamp on records (overrides config).")
	flag.StringVar(&serviceOverride, "service-override", "", "Replace the extracted service on every record (overrides config).")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if filePath == "" {
		logger.Error().Msg("-file is required")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}
	if sourceTag == "" {
		sourceTag = cfg.Ingest.SourceTag
	}
	if serviceOverride == "" {
		serviceOverride = cfg.Ingest.ServiceOverride
	}

	ctx := context.Background()

	if err := database.Migrate(ctx, cfg.Database.URL); err != nil {
		logger.Fatal().Err(err).Msg("run migrations")
	}

	pool, err := database.NewPool(ctx, cfg.Database.URL, logger, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	importer := ingest.NewImporter(
		repository.NewLogRepository(pool),
		ingest.NewNormalizer(sourceTag, serviceOverride),
		logger,
	)

	count, err := importer.Run(ctx, filePath)
	if err != nil {
		logger.Error().Err(err).Str("file", filePath).Msg("ingestion failed")
		os.Exit(1)
	}
	logger.Info().Int("count", count).Msg("ingestion complete")
}
