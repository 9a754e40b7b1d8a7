package ingest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"

	"github.com/lograca/lograca/internal/model"
)

// fakeStore records ReplaceGeneration calls.
type fakeStore struct {
	source  string
	records []model.LogRecord
	calls   int
	err     error
}

func (s *fakeStore) ReplaceGeneration(_ context.Context, source string, records []model.LogRecord) (int, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	s.source = source
	s.records = records
	return len(records), nil
}

func writeReportFile(t *testing.T, entries []model.ReportEntry, gzipped bool) string {
	t.Helper()
	data, err := json.Marshal(entries)
	if err != nil {
		t.Fatalf("marshal entries: %v", err)
	}
	name := "report.json"
	if gzipped {
		name = "report.json.gz"
	}
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if gzipped {
		zw := gzip.NewWriter(f)
		if _, err := zw.Write(data); err != nil {
			t.Fatalf("gzip write: %v", err)
		}
		if err := zw.Close(); err != nil {
			t.Fatalf("gzip close: %v", err)
		}
		return path
	}
	if _, err := f.Write(data); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func testImporter(store *fakeStore) *Importer {
	return NewImporter(store, testNormalizer(""), zerolog.Nop())
}

func TestImporterRun(t *testing.T) {
	entries := []model.ReportEntry{
		{AnomalyLog: "2024-01-02 03:04:05 WARN nova-compute [req-1] disk full", Analysis: sampleDoc, VMID: "vm-1"},
		{AnomalyLog: "2024-01-02 03:05:00 ERROR nova-api [req-2] boom", VMID: "vm-2"},
	}
	path := writeReportFile(t, entries, false)

	store := &fakeStore{}
	count, err := testImporter(store).Run(context.Background(), path)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
	if store.source != model.DefaultSourceTag {
		t.Fatalf("source = %q", store.source)
	}
	if len(store.records) != 2 {
		t.Fatalf("stored %d records", len(store.records))
	}
	if store.records[0].Service != "nova-compute" || store.records[1].Service != "nova-api" {
		t.Fatalf("unexpected services %q, %q", store.records[0].Service, store.records[1].Service)
	}
}

func TestImporterRunGzip(t *testing.T) {
	entries := []model.ReportEntry{
		{AnomalyLog: "2024-01-02 03:04:05 INFO nova-scheduler [req-3] scheduled"},
	}
	path := writeReportFile(t, entries, true)

	store := &fakeStore{}
	count, err := testImporter(store).Run(context.Background(), path)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}

func TestImporterRunMissingFile(t *testing.T) {
	store := &fakeStore{}
	_, err := testImporter(store).Run(context.Background(), filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("expected error for absent file")
	}
	if store.calls != 0 {
		t.Fatal("store must not be touched when the file is unreadable")
	}
}

func TestImporterRunMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not an array"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := &fakeStore{}
	_, err := testImporter(store).Run(context.Background(), path)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if store.calls != 0 {
		t.Fatal("store must not be touched on a malformed container")
	}
}

func TestImporterRunMalformedEntryFailsBatch(t *testing.T) {
	entries := []model.ReportEntry{
		{AnomalyLog: "2024-01-02 03:04:05 WARN nova-compute [req-1] disk full"},
		{Analysis: "analysis without a log line"},
	}
	path := writeReportFile(t, entries, false)

	store := &fakeStore{}
	_, err := testImporter(store).Run(context.Background(), path)
	if err == nil {
		t.Fatal("expected error for entry without anomaly_log")
	}
	if store.calls != 0 {
		t.Fatal("no partial commit: store must not be touched")
	}
}
