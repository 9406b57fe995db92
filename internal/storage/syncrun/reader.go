package syncrun

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"
)

var ErrNotFound = errors.New("syncrun: no runs recorded")

var _ ISyncRunReader = (*Reader)(nil)

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func (r *Reader) Latest(ctx context.Context, budgetID string) (*Run, error) {
	runs, err := r.List(ctx, budgetID, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrNotFound
	}
	return &runs[0], nil
}

// List returns the most recent runs of a budget, newest first.
func (r *Reader) List(ctx context.Context, budgetID string, limit int) ([]Run, error) {
	query := psql.Select(
		sm.From(psql.Quote("ynab_meta", "sync_runs")),
		sm.Where(psql.Quote("budget_id").EQ(psql.Arg(budgetID))),
		sm.OrderBy(psql.Quote("started_at")).Desc(),
		sm.Limit(limit),
	)
	runs, err := bob.All(ctx, r.exec, query, scan.StructMapper[Run]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("syncrun.List: %w", err)
	}
	return runs, nil
}
