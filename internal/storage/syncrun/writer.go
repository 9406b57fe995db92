package syncrun

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/um"
)

var _ ISyncRunWriter = (*Writer)(nil)

type Writer struct {
	exec bob.Executor
}

func NewWriter(tx bob.Executor) *Writer {
	return &Writer{exec: tx}
}

func (w *Writer) Start(ctx context.Context, run Run) error {
	query := psql.Insert(
		im.Into(psql.Quote("ynab_meta", "sync_runs"),
			"id", "budget_id", "mode", "status", "started_at", "request_count", "record_count"),
		im.Values(psql.Arg(run.ID, run.BudgetID, string(run.Mode), string(run.Status), run.StartedAt, run.RequestCount, run.RecordCount)),
	)
	if _, err := bob.Exec(ctx, w.exec, query); err != nil {
		return fmt.Errorf("syncrun.Start: %w", err)
	}
	return nil
}

func (w *Writer) Finish(ctx context.Context, id uuid.UUID, finish Finish) error {
	var runErr *string
	if finish.Error != "" {
		runErr = &finish.Error
	}
	query := psql.Update(
		um.Table(psql.Quote("ynab_meta", "sync_runs")),
		um.SetCol("status").ToArg(string(finish.Status)),
		um.SetCol("finished_at").ToArg(finish.FinishedAt),
		um.SetCol("request_count").ToArg(finish.RequestCount),
		um.SetCol("record_count").ToArg(finish.RecordCount),
		um.SetCol("server_knowledge").ToArg(finish.ServerKnowledge),
		um.SetCol("error").ToArg(runErr),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	if _, err := bob.Exec(ctx, w.exec, query); err != nil {
		return fmt.Errorf("syncrun.Finish: %w", err)
	}
	return nil
}
