// Package query serves the read path over stored log records: filtered,
// paginated listing, single-record lookup, analysis resolution and the
// distinct-services listing consumed by the UI.
package query

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lograca/lograca/internal/analysis"
	"github.com/lograca/lograca/internal/model"
)

// Filter is an exact-match conjunction over the non-empty criteria.
// Start and End bound the timestamp inclusively.
type Filter struct {
	Service string
	Level   string
	VMID    string
	Start   *time.Time
	End     *time.Time
}

// Page selects one page of results. Number is 1-based.
type Page struct {
	Number int
	Size   int
}

const defaultPageSize = 10

// normalize clamps page parameters to valid values.
func (p Page) normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size <= 0 {
		p.Size = defaultPageSize
	}
	return p
}

// Offset returns the number of records skipped before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Store is the storage surface the read path needs.
type Store interface {
	Find(ctx context.Context, f Filter, limit, offset int) ([]model.LogRecord, error)
	Count(ctx context.Context, f Filter) (int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.LogRecord, error)
	Insert(ctx context.Context, rec *model.LogRecord) error
	DistinctServices(ctx context.Context) ([]string, error)
}

// ServiceOption is one entry of the distinct-services listing.
type ServiceOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// serviceLabels carries the fixed label overrides for well-known
// service identifiers; everything else is labeled by its own value.
var serviceLabels = map[string]string{
	model.CatchAllService: "OpenStack服务",
	model.SentinelService: "LogRCA异常分析",
}

// Service implements the read path over a Store.
type Service struct {
	store Store
}

// New returns a query Service reading from store.
func New(store Store) *Service {
	return &Service{store: store}
}

// List returns one page of matching records, newest first, plus the
// total match count. Count and fetch are issued concurrently and are not
// a consistent snapshot; under concurrent writes they can drift, which
// the read API tolerates.
func (s *Service) List(ctx context.Context, f Filter, p Page) ([]model.LogRecord, int64, error) {
	p = p.normalize()

	var (
		wg                sync.WaitGroup
		records           []model.LogRecord
		total             int64
		findErr, countErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		records, findErr = s.store.Find(ctx, f, p.Size, p.Offset())
	}()
	go func() {
		defer wg.Done()
		total, countErr = s.store.Count(ctx, f)
	}()
	wg.Wait()

	if findErr != nil {
		return nil, 0, findErr
	}
	if countErr != nil {
		return nil, 0, countErr
	}
	if records == nil {
		records = []model.LogRecord{}
	}
	return records, total, nil
}

// Get returns the full record for id, including its analysis.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.LogRecord, error) {
	return s.store.Get(ctx, id)
}

// Analysis returns the stored analysis for id, synthesizing a default
// one when the record carries none.
func (s *Service) Analysis(ctx context.Context, id uuid.UUID) (*model.Analysis, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Analysis != nil {
		return rec.Analysis, nil
	}
	a := analysis.Synthesize(rec.Service, rec.Level, rec.Message)
	return &a, nil
}

// Create persists a client-supplied record as-is, bypassing the
// ingestion pipeline. Zero timestamp and empty level get the usual
// defaults.
func (s *Service) Create(ctx context.Context, rec *model.LogRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	if rec.Level == "" {
		rec.Level = model.LevelError
	}
	if rec.Metadata == nil {
		rec.Metadata = map[string]any{}
	}
	return s.store.Insert(ctx, rec)
}

// Services lists distinct service identifiers with display labels. The
// catch-all service is always present, even with zero records, so the
// UI's service selector stays stable.
func (s *Service) Services(ctx context.Context) ([]ServiceOption, error) {
	values, err := s.store.DistinctServices(ctx)
	if err != nil {
		return nil, err
	}

	seen := false
	opts := make([]ServiceOption, 0, len(values)+1)
	for _, v := range values {
		if v == model.CatchAllService {
			seen = true
		}
		opts = append(opts, ServiceOption{Value: v, Label: labelFor(v)})
	}
	if !seen {
		opts = append(opts, ServiceOption{Value: model.CatchAllService, Label: labelFor(model.CatchAllService)})
	}
	return opts, nil
}

func labelFor(value string) string {
	if l, ok := serviceLabels[value]; ok {
		return l
	}
	return value
}
