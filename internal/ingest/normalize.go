package ingest

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lograca/lograca/internal/model"
)

// ErrMissingAnomalyLog is returned for a report entry without a raw log
// line; such an entry fails the whole batch.
var ErrMissingAnomalyLog = errors.New("report entry has no anomaly_log")

// Normalizer turns one raw report entry into a canonical LogRecord.
//
// ServiceOverride resolves the divergence between the two historical
// pipeline generations: when empty the extracted service is kept as-is;
// when set (e.g. "openstack-service") it replaces the record's service
// and the extracted value is preserved under metadata.originalService.
type Normalizer struct {
	SourceTag       string
	ServiceOverride string

	// Now supplies the ingestion-time fallback timestamp. Defaults to
	// time.Now when nil.
	Now func() time.Time
}

// NewNormalizer returns a Normalizer stamping records with sourceTag.
func NewNormalizer(sourceTag, serviceOverride string) *Normalizer {
	return &Normalizer{SourceTag: sourceTag, ServiceOverride: serviceOverride}
}

func (n *Normalizer) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}

// Normalize builds a LogRecord from entry. The raw anomaly log is kept
// verbatim in StackTrace; Message is the derived substring.
func (n *Normalizer) Normalize(entry model.ReportEntry) (model.LogRecord, error) {
	if entry.AnomalyLog == "" {
		return model.LogRecord{}, ErrMissingAnomalyLog
	}

	fields := ExtractFields(entry.AnomalyLog, n.now())

	rec := model.LogRecord{
		ID:         uuid.New(),
		Timestamp:  fields.Timestamp,
		Service:    fields.Service,
		Level:      fields.Level,
		Message:    fields.Message,
		StackTrace: entry.AnomalyLog,
		VMID:       entry.VMID,
		Metadata: map[string]any{
			model.MetaSource: n.SourceTag,
			model.MetaVMID:   entry.VMID,
		},
	}

	if n.ServiceOverride != "" {
		rec.Service = n.ServiceOverride
		rec.Metadata[model.MetaOriginalService] = fields.Service
	}

	if entry.Analysis != "" {
		a := SegmentAnalysis(entry.Analysis)
		rec.Analysis = &a
		rec.Summary = a.Summary
	}

	return rec, nil
}
