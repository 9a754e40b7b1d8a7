package ingest

import (
	"errors"
	"testing"
	"time"

	"github.com/lograca/lograca/internal/model"
)

func testNormalizer(override string) *Normalizer {
	n := NewNormalizer(model.DefaultSourceTag, override)
	n.Now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local) }
	return n
}

func TestNormalizeFullEntry(t *testing.T) {
	entry := model.ReportEntry{
		AnomalyLog: "2024-01-02 03:04:05 WARN nova-compute [req-1] disk full",
		Analysis:   sampleDoc,
		VMID:       "vm-42",
	}

	rec, err := testNormalizer("").Normalize(entry)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if rec.Level != model.LevelWarn {
		t.Fatalf("level = %q", rec.Level)
	}
	if rec.Service != "nova-compute" {
		t.Fatalf("service = %q", rec.Service)
	}
	if rec.Message != "disk full" {
		t.Fatalf("message = %q", rec.Message)
	}
	if rec.StackTrace != entry.AnomalyLog {
		t.Fatalf("stackTrace should be the verbatim raw log")
	}
	if rec.VMID != "vm-42" {
		t.Fatalf("vmId = %q", rec.VMID)
	}
	if rec.Analysis == nil {
		t.Fatal("analysis missing")
	}
	if rec.Summary != rec.Analysis.Summary {
		t.Fatalf("record summary %q != analysis summary %q", rec.Summary, rec.Analysis.Summary)
	}
	if rec.Metadata[model.MetaSource] != model.DefaultSourceTag {
		t.Fatalf("metadata.source = %v", rec.Metadata[model.MetaSource])
	}
	if rec.Metadata[model.MetaVMID] != "vm-42" {
		t.Fatalf("metadata.vm_id = %v", rec.Metadata[model.MetaVMID])
	}
	if _, ok := rec.Metadata[model.MetaOriginalService]; ok {
		t.Fatal("originalService should not be stamped without an override")
	}
}

func TestNormalizeServiceOverride(t *testing.T) {
	entry := model.ReportEntry{
		AnomalyLog: "2024-01-02 03:04:05 ERROR nova-api [req-1] boom",
	}

	rec, err := testNormalizer(model.CatchAllService).Normalize(entry)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if rec.Service != model.CatchAllService {
		t.Fatalf("service = %q, want override", rec.Service)
	}
	if rec.Metadata[model.MetaOriginalService] != "nova-api" {
		t.Fatalf("metadata.originalService = %v", rec.Metadata[model.MetaOriginalService])
	}
}

func TestNormalizeWithoutAnalysis(t *testing.T) {
	rec, err := testNormalizer("").Normalize(model.ReportEntry{AnomalyLog: "plain line"})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if rec.Analysis != nil {
		t.Fatalf("analysis = %+v, want nil", rec.Analysis)
	}
	if rec.Summary != "" {
		t.Fatalf("summary = %q, want empty", rec.Summary)
	}
}

func TestNormalizeMissingAnomalyLog(t *testing.T) {
	_, err := testNormalizer("").Normalize(model.ReportEntry{Analysis: "prose"})
	if !errors.Is(err, ErrMissingAnomalyLog) {
		t.Fatalf("err = %v, want ErrMissingAnomalyLog", err)
	}
}
