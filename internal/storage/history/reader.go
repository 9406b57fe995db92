package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"
)

type Reader[R Row] struct {
	exec  bob.Executor
	table string
}

func NewReader[R Row](exec bob.Executor, table string) *Reader[R] {
	return &Reader[R]{exec: exec, table: table}
}

func NewTransactionReader(exec bob.Executor) *Reader[TransactionRow] {
	return NewReader[TransactionRow](exec, TransactionsTable)
}

func NewSubtransactionReader(exec bob.Executor) *Reader[SubtransactionRow] {
	return NewReader[SubtransactionRow](exec, SubtransactionsTable)
}

func (r *Reader[R]) from() bob.Expression {
	return psql.Quote(Schema, r.table)
}

// FindCurrent returns the open version for each of ids that has one.
func (r *Reader[R]) FindCurrent(ctx context.Context, ids []string) (map[string]CurrentVersion, error) {
	current := make(map[string]CurrentVersion, len(ids))
	if len(ids) == 0 {
		return current, nil
	}

	query := psql.Select(
		sm.Columns("history_id", "id", "row_hash", "record_start_datetime"),
		sm.From(r.from()),
		sm.Where(psql.Raw("id = ANY(?)", pq.Array(ids))),
		sm.Where(psql.Quote("record_end_datetime").IsNull()),
	)
	rows, err := bob.All(ctx, r.exec, query, scan.StructMapper[CurrentVersion]())
	if err != nil {
		return nil, fmt.Errorf("history.FindCurrent %s: %w", r.table, err)
	}
	for _, row := range rows {
		current[row.ID] = row
	}
	return current, nil
}

// KnownIDs reports which of ids have at least one version, open or closed.
func (r *Reader[R]) KnownIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	known := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return known, nil
	}

	query := psql.Select(
		sm.Distinct(),
		sm.Columns("id"),
		sm.From(r.from()),
		sm.Where(psql.Raw("id = ANY(?)", pq.Array(ids))),
	)
	found, err := bob.All(ctx, r.exec, query, scan.SingleColumnMapper[string])
	if err != nil {
		return nil, fmt.Errorf("history.KnownIDs %s: %w", r.table, err)
	}
	for _, id := range found {
		known[id] = true
	}
	return known, nil
}

// Versions returns the whole timeline of id ordered by start time.
func (r *Reader[R]) Versions(ctx context.Context, id string) ([]R, error) {
	query := psql.Select(
		sm.From(r.from()),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		sm.OrderBy(psql.Quote("record_start_datetime")).Asc(),
		sm.OrderBy(psql.Quote("history_id")).Asc(),
	)
	rows, err := bob.All(ctx, r.exec, query, scan.StructMapper[R]())
	if err != nil {
		return nil, fmt.Errorf("history.Versions %s: %w", r.table, err)
	}
	return rows, nil
}

// AsOf returns the version valid at the given instant:
// record_start_datetime <= at < record_end_datetime (or no end).
func (r *Reader[R]) AsOf(ctx context.Context, id string, at time.Time) (*R, error) {
	query := psql.Select(
		sm.From(r.from()),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		sm.Where(psql.Raw("record_start_datetime <= ? AND (record_end_datetime IS NULL OR record_end_datetime > ?)", at, at)),
		sm.OrderBy(psql.Quote("record_start_datetime")).Desc(),
		sm.Limit(1),
	)
	row, err := bob.One(ctx, r.exec, query, scan.StructMapper[R]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("history.AsOf %s: %w", r.table, err)
	}
	return &row, nil
}
