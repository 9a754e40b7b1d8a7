package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"

	"github.com/lograca/lograca/internal/model"
)

// Store is the storage surface the importer needs: atomic replacement of
// one provenance generation.
type Store interface {
	// ReplaceGeneration deletes every record whose metadata.source equals
	// source, then inserts records, inside one transaction.
	ReplaceGeneration(ctx context.Context, source string, records []model.LogRecord) (int, error)
}

// Importer runs one ingestion batch: read a report file, normalize every
// entry, and replace the previous generation for the same source tag.
//
// Concurrent runs against the same tag are not serialized here; callers
// must run one batch at a time.
type Importer struct {
	Store      Store
	Normalizer *Normalizer
	Logger     zerolog.Logger
}

// NewImporter returns an Importer writing to store.
func NewImporter(store Store, n *Normalizer, logger zerolog.Logger) *Importer {
	return &Importer{Store: store, Normalizer: n, Logger: logger}
}

// Run ingests the report file at path and returns the number of records
// inserted. A single malformed entry fails the whole batch before any
// store mutation. Files ending in .gz are transparently decompressed.
func (imp *Importer) Run(ctx context.Context, path string) (int, error) {
	entries, err := readReportFile(path)
	if err != nil {
		return 0, err
	}
	imp.Logger.Info().Int("entries", len(entries)).Str("path", path).Msg("read report file")

	records := make([]model.LogRecord, 0, len(entries))
	for i, entry := range entries {
		rec, err := imp.Normalizer.Normalize(entry)
		if err != nil {
			return 0, fmt.Errorf("normalize entry %d: %w", i, err)
		}
		records = append(records, rec)
	}

	count, err := imp.Store.ReplaceGeneration(ctx, imp.Normalizer.SourceTag, records)
	if err != nil {
		return 0, fmt.Errorf("replace generation %q: %w", imp.Normalizer.SourceTag, err)
	}
	imp.Logger.Info().Int("inserted", count).Str("source", imp.Normalizer.SourceTag).Msg("ingestion batch done")
	return count, nil
}

// readReportFile reads and decodes a JSON array of report entries,
// decompressing gzip files by extension.
func readReportFile(path string) ([]model.ReportEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report file %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}

	var entries []model.ReportEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode report file %s: %w", path, err)
	}
	return entries, nil
}
