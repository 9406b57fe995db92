package storage

import (
	"context"

	"github.com/stephenafamo/bob"

	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/history"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/staging"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/syncrun"
)

type committer interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type Writer struct {
	tx              committer
	Transactions    history.IHistoryWriter[history.TransactionRow]
	Subtransactions history.IHistoryWriter[history.SubtransactionRow]
	Staging         staging.IStagingWriter
	Runs            syncrun.ISyncRunWriter
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx:              tx,
		Transactions:    history.NewTransactionWriter(tx),
		Subtransactions: history.NewSubtransactionWriter(tx),
		Staging:         staging.NewWriter(tx),
		Runs:            syncrun.NewWriter(tx),
	}
}

// NewWriterFrom assembles a Writer from parts; tests use it to run actions
// against in-memory tables.
func NewWriterFrom(
	tx committer,
	transactions history.IHistoryWriter[history.TransactionRow],
	subtransactions history.IHistoryWriter[history.SubtransactionRow],
	stage staging.IStagingWriter,
	runs syncrun.ISyncRunWriter,
) *Writer {
	return &Writer{
		tx:              tx,
		Transactions:    transactions,
		Subtransactions: subtransactions,
		Staging:         stage,
		Runs:            runs,
	}
}

func (w *Writer) Commit() error {
	return w.tx.Commit(context.Background())
}

func (w *Writer) Rollback() error {
	return w.tx.Rollback(context.Background())
}
