package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/operator"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/memory"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/ynab"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/ynab/backoff"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// stepClock returns t0, t0+1h, t0+2h, ... on successive calls.
func stepClock() func() time.Time {
	var mu sync.Mutex
	next := t0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := next
		next = next.Add(time.Hour)
		return now
	}
}

func strPtr(s string) *string { return &s }

func txn(id string, amount int64) ynab.Transaction {
	return ynab.Transaction{
		ID:          id,
		Date:        "2025-03-01",
		Amount:      amount,
		Cleared:     "cleared",
		Approved:    true,
		AccountID:   "acc-1",
		AccountName: "Checking",
		PayeeName:   strPtr("Grocer"),
	}
}

type testEnv struct {
	store     *memory.Store
	delegator *operator.OperatorDelegator
	loader    *Loader
}

func newTestEnv(t *testing.T, strict bool) *testEnv {
	t.Helper()
	logger, _ := test.NewNullLogger()
	store := memory.NewStore()
	delegator := operator.NewOperatorDelegator(store, 1, logger)
	delegator.Start()
	t.Cleanup(delegator.Stop)
	loader := NewLoader(delegator, store.Reader(), strict, logger).WithClock(stepClock())
	return &testEnv{store: store, delegator: delegator, loader: loader}
}

type fetchCall struct {
	Query  ynab.TransactionsQuery
	Policy string
}

// fakeFetcher serves scripted pages. Full-mode pages are keyed by page
// number; the delta response is keyed by 0.
type fakeFetcher struct {
	mu       sync.Mutex
	pages    map[int]*ynab.TransactionsPage
	errs     map[int]error
	calls    []fetchCall
	requests int64
	block    chan struct{}
	started  chan struct{}

	accounts   *ynab.EntitiesPage
	categories *ynab.EntitiesPage
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{pages: map[int]*ynab.TransactionsPage{}, errs: map[int]error{}}
}

func (f *fakeFetcher) Transactions(ctx context.Context, q ynab.TransactionsQuery, policy backoff.Policy) (*ynab.TransactionsPage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fetchCall{Query: q, Policy: policy.Name})
	f.requests++
	block, started := f.block, f.started
	f.started = nil
	f.mu.Unlock()

	if started != nil {
		close(started)
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	key := q.Page
	if q.LastKnowledgeOfServer > 0 {
		key = 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[key]; err != nil {
		return nil, err
	}
	if page, ok := f.pages[key]; ok {
		return page, nil
	}
	return &ynab.TransactionsPage{}, nil
}

func (f *fakeFetcher) Accounts(context.Context, int64, backoff.Policy) (*ynab.EntitiesPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++
	if f.accounts == nil {
		return &ynab.EntitiesPage{Kind: "accounts"}, nil
	}
	return f.accounts, nil
}

func (f *fakeFetcher) Categories(context.Context, int64, backoff.Policy) (*ynab.EntitiesPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++
	if f.categories == nil {
		return &ynab.EntitiesPage{Kind: "categories"}, nil
	}
	return f.categories, nil
}

func (f *fakeFetcher) Requests() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

func (f *fakeFetcher) BudgetID() string { return "budget-1" }

func (f *fakeFetcher) Calls() []fetchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fetchCall(nil), f.calls...)
}
