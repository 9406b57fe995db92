package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/history"
)

// ErrOpenVersionExists mirrors the partial unique index on open versions.
var ErrOpenVersionExists = errors.New("memory: open version already exists")

type version[R history.Row] struct {
	historyID int64
	start     time.Time
	end       *time.Time
	row       R
}

// Table is an in-memory history table with the same contract as the
// Postgres one.
type Table[R history.Row] struct {
	mu       sync.Mutex
	nextID   int64
	versions []version[R]
	start    func(R) time.Time
	stamp    func(R, int64, *time.Time) R

	// FailInsert, when set, is returned by the next Insert.
	FailInsert error
}

var (
	_ history.IHistoryWriter[history.TransactionRow] = (*Table[history.TransactionRow])(nil)
	_ history.IHistoryReader[history.TransactionRow] = (*Table[history.TransactionRow])(nil)
)

func NewTransactionTable() *Table[history.TransactionRow] {
	return &Table[history.TransactionRow]{
		start: func(r history.TransactionRow) time.Time { return r.RecordStart },
		stamp: func(r history.TransactionRow, id int64, end *time.Time) history.TransactionRow {
			r.HistoryID, r.RecordEnd = id, end
			return r
		},
	}
}

func NewSubtransactionTable() *Table[history.SubtransactionRow] {
	return &Table[history.SubtransactionRow]{
		start: func(r history.SubtransactionRow) time.Time { return r.RecordStart },
		stamp: func(r history.SubtransactionRow, id int64, end *time.Time) history.SubtransactionRow {
			r.HistoryID, r.RecordEnd = id, end
			return r
		},
	}
}

func (t *Table[R]) FindCurrent(_ context.Context, ids []string) (map[string]history.CurrentVersion, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	want := toSet(ids)
	current := make(map[string]history.CurrentVersion)
	for _, v := range t.versions {
		if v.end == nil && want[v.row.Key()] {
			current[v.row.Key()] = history.CurrentVersion{
				HistoryID:   v.historyID,
				ID:          v.row.Key(),
				RowHash:     v.row.Hash(),
				RecordStart: v.start,
			}
		}
	}
	return current, nil
}

func (t *Table[R]) KnownIDs(_ context.Context, ids []string) (map[string]bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	want := toSet(ids)
	known := make(map[string]bool)
	for _, v := range t.versions {
		if want[v.row.Key()] {
			known[v.row.Key()] = true
		}
	}
	return known, nil
}

func (t *Table[R]) Insert(_ context.Context, row R) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.FailInsert; err != nil {
		t.FailInsert = nil
		return err
	}
	for _, v := range t.versions {
		if v.end == nil && v.row.Key() == row.Key() {
			return fmt.Errorf("%w: %s", ErrOpenVersionExists, row.Key())
		}
	}
	t.nextID++
	t.versions = append(t.versions, version[R]{historyID: t.nextID, start: t.start(row), row: row})
	return nil
}

func (t *Table[R]) CloseVersion(_ context.Context, historyID int64, end time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.versions {
		v := &t.versions[i]
		if v.historyID == historyID && v.end == nil {
			closedAt := end
			v.end = &closedAt
			return nil
		}
	}
	return fmt.Errorf("memory: history_id %d: %w", historyID, history.ErrNotFound)
}

func (t *Table[R]) Versions(_ context.Context, id string) ([]R, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var rows []R
	for _, v := range t.sorted() {
		if v.row.Key() == id {
			rows = append(rows, t.stamp(v.row, v.historyID, v.end))
		}
	}
	return rows, nil
}

func (t *Table[R]) AsOf(_ context.Context, id string, at time.Time) (*R, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, v := range t.sorted() {
		if v.row.Key() != id || v.start.After(at) {
			continue
		}
		if v.end == nil || v.end.After(at) {
			row := t.stamp(v.row, v.historyID, v.end)
			return &row, nil
		}
	}
	return nil, history.ErrNotFound
}

// Len is the total number of versions stored.
func (t *Table[R]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.versions)
}

func (t *Table[R]) sorted() []version[R] {
	out := append([]version[R](nil), t.versions...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].start.Equal(out[j].start) {
			return out[i].historyID < out[j].historyID
		}
		return out[i].start.Before(out[j].start)
	})
	return out
}

func (t *Table[R]) snapshot() func() {
	t.mu.Lock()
	defer t.mu.Unlock()

	saved := make([]version[R], len(t.versions))
	for i, v := range t.versions {
		saved[i] = v
		if v.end != nil {
			end := *v.end
			saved[i].end = &end
		}
	}
	nextID := t.nextID
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.versions = saved
		t.nextID = nextID
	}
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
