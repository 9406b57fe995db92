// Package memory is an in-memory transactional stand-in for the Postgres
// storage, used by tests of the loader and the sync service.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/history"
)

var ErrClosed = errors.New("memory: transaction already finished")

type Store struct {
	writeMu sync.Mutex

	Transactions    *Table[history.TransactionRow]
	Subtransactions *Table[history.SubtransactionRow]
	Staging         *Staging
	Runs            *Runs

	// FailCommit, when set, is returned by the next Commit, which then
	// behaves like a rollback.
	FailCommit error
	Commits    int
	Rollbacks  int
}

func NewStore() *Store {
	return &Store{
		Transactions:    NewTransactionTable(),
		Subtransactions: NewSubtransactionTable(),
		Staging:         NewStaging(),
		Runs:            NewRuns(),
	}
}

// Write opens a transaction. Only one may be open at a time; a second Write
// blocks until the first commits or rolls back.
func (s *Store) Write(ctx context.Context) (*storage.Writer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.writeMu.Lock()
	restores := []func(){
		s.Transactions.snapshot(),
		s.Subtransactions.snapshot(),
		s.Staging.snapshot(),
		s.Runs.snapshot(),
	}
	tx := &tx{store: s, restores: restores}
	return storage.NewWriterFrom(tx, s.Transactions, s.Subtransactions, s.Staging, s.Runs), nil
}

func (s *Store) Reader() *storage.Reader {
	return &storage.Reader{
		Transactions:    s.Transactions,
		Subtransactions: s.Subtransactions,
		Runs:            s.Runs,
	}
}

type tx struct {
	store    *Store
	restores []func()
	done     bool
}

func (t *tx) Commit(_ context.Context) error {
	if t.done {
		return ErrClosed
	}
	t.done = true
	defer t.store.writeMu.Unlock()

	if err := t.store.FailCommit; err != nil {
		t.store.FailCommit = nil
		t.restore()
		return err
	}
	t.store.Commits++
	return nil
}

func (t *tx) Rollback(_ context.Context) error {
	if t.done {
		return ErrClosed
	}
	t.done = true
	defer t.store.writeMu.Unlock()

	t.restore()
	t.store.Rollbacks++
	return nil
}

func (t *tx) restore() {
	for _, restore := range t.restores {
		restore()
	}
}
