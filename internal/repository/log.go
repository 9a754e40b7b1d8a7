// Package repository persists log records in Postgres via pgx.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lograca/lograca/internal/model"
	"github.com/lograca/lograca/internal/query"
)

// ErrNotFound is returned when a record id has no row. It is a normal,
// reportable outcome, distinct from storage failures.
var ErrNotFound = errors.New("log record not found")

const recordColumns = `id, timestamp, service, level, message, stack_trace, summary, vm_id, analysis, metadata, created_at`

// LogRepository reads and writes log records using a pgx pool.
type LogRepository struct {
	pool *pgxpool.Pool
}

// NewLogRepository returns a LogRepository using the given pool.
func NewLogRepository(pool *pgxpool.Pool) *LogRepository {
	return &LogRepository{pool: pool}
}

// Insert stores one record and fills in its ID and CreatedAt.
func (r *LogRepository) Insert(ctx context.Context, rec *model.LogRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO logs (id, timestamp, service, level, message, stack_trace, summary, vm_id, analysis, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`,
		rec.ID,
		rec.Timestamp,
		rec.Service,
		rec.Level,
		rec.Message,
		nullable(rec.StackTrace),
		nullable(rec.Summary),
		nullable(rec.VMID),
		rec.Analysis,
		rec.Metadata,
	).Scan(&rec.ID, &rec.CreatedAt)
}

// ReplaceGeneration removes every record stamped with source and inserts
// records in its place, all in one transaction. Returns the number of
// inserted records.
func (r *LogRepository) ReplaceGeneration(ctx context.Context, source string, records []model.LogRecord) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM logs WHERE metadata->>'source' = $1`, source); err != nil {
		return 0, fmt.Errorf("delete generation: %w", err)
	}

	batch := &pgx.Batch{}
	for i := range records {
		rec := &records[i]
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}
		batch.Queue(`
			INSERT INTO logs (id, timestamp, service, level, message, stack_trace, summary, vm_id, analysis, metadata)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			rec.ID,
			rec.Timestamp,
			rec.Service,
			rec.Level,
			rec.Message,
			nullable(rec.StackTrace),
			nullable(rec.Summary),
			nullable(rec.VMID),
			rec.Analysis,
			rec.Metadata,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("insert generation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(records), nil
}

// Get returns one record by id, or ErrNotFound.
func (r *LogRepository) Get(ctx context.Context, id uuid.UUID) (*model.LogRecord, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+recordColumns+` FROM logs WHERE id = $1`, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// Find returns up to limit matching records ordered by timestamp
// descending, ties broken by insertion order.
func (r *LogRepository) Find(ctx context.Context, f query.Filter, limit, offset int) ([]model.LogRecord, error) {
	where, args := buildWhere(f)
	args = append(args, limit, offset)
	// id breaks timestamp ties so paging never sees a row twice.
	sql := fmt.Sprintf(`SELECT %s FROM logs %s ORDER BY timestamp DESC, id LIMIT $%d OFFSET $%d`,
		recordColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.LogRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *rec)
	}
	return list, rows.Err()
}

// Count returns the number of records matching f.
func (r *LogRepository) Count(ctx context.Context, f query.Filter) (int64, error) {
	where, args := buildWhere(f)
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM logs `+where, args...).Scan(&total)
	return total, err
}

// DistinctServices returns the distinct service identifiers, sorted.
func (r *LogRepository) DistinctServices(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT service FROM logs ORDER BY service`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

// CountAll returns the total number of stored records.
func (r *LogRepository) CountAll(ctx context.Context) (int64, error) {
	return r.Count(ctx, query.Filter{})
}

// buildWhere renders the exact-match conjunction for f with positional
// placeholders starting at $1.
func buildWhere(f query.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Service != "" {
		add("service = $%d", f.Service)
	}
	if f.Level != "" {
		add("level = $%d", f.Level)
	}
	if f.VMID != "" {
		add("vm_id = $%d", f.VMID)
	}
	if f.Start != nil {
		add("timestamp >= $%d", *f.Start)
	}
	if f.End != nil {
		add("timestamp <= $%d", *f.End)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*model.LogRecord, error) {
	var (
		rec                       model.LogRecord
		stackTrace, summary, vmID *string
	)
	err := row.Scan(
		&rec.ID,
		&rec.Timestamp,
		&rec.Service,
		&rec.Level,
		&rec.Message,
		&stackTrace,
		&summary,
		&vmID,
		&rec.Analysis,
		&rec.Metadata,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if stackTrace != nil {
		rec.StackTrace = *stackTrace
	}
	if summary != nil {
		rec.Summary = *summary
	}
	if vmID != nil {
		rec.VMID = *vmID
	}
	return &rec, nil
}

// nullable maps "" to NULL so optional text columns stay NULL instead of
// empty strings.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
