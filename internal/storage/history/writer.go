package history

import (
	"context"
	"fmt"
	"time"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/um"
)

type Writer[R Row] struct {
	Reader[R]
}

var (
	_ IHistoryWriter[TransactionRow]    = (*Writer[TransactionRow])(nil)
	_ IHistoryReader[SubtransactionRow] = (*Reader[SubtransactionRow])(nil)
)

func NewWriter[R Row](tx bob.Executor, table string) *Writer[R] {
	return &Writer[R]{Reader: Reader[R]{exec: tx, table: table}}
}

func NewTransactionWriter(tx bob.Executor) *Writer[TransactionRow] {
	return NewWriter[TransactionRow](tx, TransactionsTable)
}

func NewSubtransactionWriter(tx bob.Executor) *Writer[SubtransactionRow] {
	return NewWriter[SubtransactionRow](tx, SubtransactionsTable)
}

func (w *Writer[R]) Insert(ctx context.Context, row R) error {
	columns, values := row.InsertValues()
	query := psql.Insert(
		im.Into(w.from(), columns...),
		im.Values(psql.Arg(values...)),
	)
	if _, err := bob.Exec(ctx, w.exec, query); err != nil {
		return fmt.Errorf("history.Insert %s: %w", w.table, err)
	}
	return nil
}

// CloseVersion sets the end time of an open version. Closing a row that is
// already closed is an error: it means someone else wrote to history.
func (w *Writer[R]) CloseVersion(ctx context.Context, historyID int64, end time.Time) error {
	query := psql.Update(
		um.Table(w.from()),
		um.SetCol("record_end_datetime").ToArg(end),
		um.Where(psql.Quote("history_id").EQ(psql.Arg(historyID))),
		um.Where(psql.Quote("record_end_datetime").IsNull()),
	)
	result, err := bob.Exec(ctx, w.exec, query)
	if err != nil {
		return fmt.Errorf("history.CloseVersion %s: %w", w.table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("history.CloseVersion %s: %w", w.table, err)
	}
	if affected != 1 {
		return fmt.Errorf("history.CloseVersion %s: history_id %d: %w", w.table, historyID, ErrNotFound)
	}
	return nil
}
