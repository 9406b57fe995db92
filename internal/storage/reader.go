package storage

import (
	"github.com/stephenafamo/bob"

	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/history"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/syncrun"
)

type Reader struct {
	Transactions    history.IHistoryReader[history.TransactionRow]
	Subtransactions history.IHistoryReader[history.SubtransactionRow]
	Runs            syncrun.ISyncRunReader
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{
		Transactions:    history.NewTransactionReader(exec),
		Subtransactions: history.NewSubtransactionReader(exec),
		Runs:            syncrun.NewReader(exec),
	}
}
