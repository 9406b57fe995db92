//go:build integration

package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/cursor"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/operator"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/service"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/history"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/staging"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/syncrun"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/ynab"
)

func newTestStorage(t *testing.T) *storage.Storage {
	t.Helper()
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("ynab_data"),
		postgres.WithUsername("ynab_user"),
		postgres.WithPassword("ynab_password"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	store, err := storage.Open(connStr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger, _ := test.NewNullLogger()
	_, post, err := store.Migrate(logger)
	require.NoError(t, err)
	require.Equal(t, uint(1), post)

	// running again is a no-op
	pre, post, err := store.Migrate(logger)
	require.NoError(t, err)
	assert.Equal(t, pre, post)
	return store
}

func withWriter(t *testing.T, store *storage.Storage, fn func(w *storage.Writer) error) error {
	t.Helper()
	w, err := store.Write(context.Background())
	require.NoError(t, err)
	if err := fn(w); err != nil {
		require.NoError(t, w.Rollback())
		return err
	}
	return w.Commit()
}

func TestHistoryTables(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	next := start.Add(time.Hour)

	require.NoError(t, withWriter(t, store, func(w *storage.Writer) error {
		return w.Transactions.Insert(ctx, history.TransactionRow{
			RecordStart: start, ID: "T1", Date: "2025-03-01", Amount: -500, Cleared: "cleared",
			AccountID: "acc", AccountName: "Checking", RowHash: "a",
		})
	}))

	var current map[string]history.CurrentVersion
	require.NoError(t, withWriter(t, store, func(w *storage.Writer) error {
		var err error
		current, err = w.Transactions.FindCurrent(ctx, []string{"T1", "T2"})
		return err
	}))
	require.Len(t, current, 1)
	assert.Equal(t, "a", current["T1"].RowHash)

	// a second open version violates the partial unique index
	err := withWriter(t, store, func(w *storage.Writer) error {
		return w.Transactions.Insert(ctx, history.TransactionRow{
			RecordStart: next, ID: "T1", Date: "2025-03-01", Amount: -550, Cleared: "cleared",
			AccountID: "acc", AccountName: "Checking", RowHash: "b",
		})
	})
	assert.Error(t, err)

	require.NoError(t, withWriter(t, store, func(w *storage.Writer) error {
		if err := w.Transactions.CloseVersion(ctx, current["T1"].HistoryID, next); err != nil {
			return err
		}
		return w.Transactions.Insert(ctx, history.TransactionRow{
			RecordStart: next, ID: "T1", Date: "2025-03-01", Amount: -550, Cleared: "cleared",
			AccountID: "acc", AccountName: "Checking", RowHash: "b",
		})
	}))

	// closing an already closed version is refused
	err = withWriter(t, store, func(w *storage.Writer) error {
		return w.Transactions.CloseVersion(ctx, current["T1"].HistoryID, next)
	})
	assert.ErrorIs(t, err, history.ErrNotFound)

	versions, err := store.Reader.Transactions.Versions(ctx, "T1")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	require.NotNil(t, versions[0].RecordEnd)
	assert.True(t, versions[0].RecordEnd.Equal(versions[1].RecordStart))
	assert.Nil(t, versions[1].RecordEnd)

	v, err := store.Reader.Transactions.AsOf(ctx, "T1", start.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(-500), v.Amount)
	v, err = store.Reader.Transactions.AsOf(ctx, "T1", next)
	require.NoError(t, err)
	assert.Equal(t, int64(-550), v.Amount)
	_, err = store.Reader.Transactions.AsOf(ctx, "T1", start.Add(-time.Second))
	assert.ErrorIs(t, err, history.ErrNotFound)
}

func TestStagingAndRuns(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	runID := uuid.Must(uuid.NewV4())

	require.NoError(t, withWriter(t, store, func(w *storage.Writer) error {
		if err := w.Staging.UpsertTransactions(ctx, []staging.Envelope{{ID: "T1", Payload: []byte(`{"id":"T1"}`)}}); err != nil {
			return err
		}
		if err := w.Staging.UpsertTransactions(ctx, []staging.Envelope{{ID: "T1", Payload: []byte(`{"id":"T1","amount":1}`)}}); err != nil {
			return err
		}
		if err := w.Staging.UpsertEntities(ctx, "accounts", []staging.Envelope{{ID: "A1", Payload: []byte(`{"id":"A1"}`)}}); err != nil {
			return err
		}
		if err := w.Staging.MarkProcessed(ctx, []string{"T1"}, now); err != nil {
			return err
		}
		return w.Runs.Start(ctx, syncrun.Run{ID: runID, BudgetID: "budget-1", Mode: syncrun.ModeFull, Status: syncrun.StatusRunning, StartedAt: now})
	}))

	knowledge := int64(42)
	require.NoError(t, withWriter(t, store, func(w *storage.Writer) error {
		return w.Runs.Finish(ctx, runID, syncrun.Finish{Status: syncrun.StatusSucceeded, FinishedAt: now.Add(time.Minute), RequestCount: 3, RecordCount: 10, ServerKnowledge: &knowledge})
	}))

	run, err := store.Reader.Runs.Latest(ctx, "budget-1")
	require.NoError(t, err)
	assert.Equal(t, runID, run.ID)
	assert.Equal(t, syncrun.StatusSucceeded, run.Status)
	assert.Equal(t, int64(10), run.RecordCount)
	require.NotNil(t, run.ServerKnowledge)
	assert.Equal(t, int64(42), *run.ServerKnowledge)
	assert.Nil(t, run.Error)

	var processed int
	require.NoError(t, store.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM etl_stage.transactions_json WHERE processed_datetime IS NOT NULL AND transaction_data->>'amount' = '1'`).Scan(&processed))
	assert.Equal(t, 1, processed)
}

func TestTableCursorStore(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	logger, _ := test.NewNullLogger()
	cursors := cursor.NewTableStore(store.Executor(), "budget-1", logger)

	_, ok := cursors.Load(ctx)
	assert.False(t, ok)

	require.NoError(t, cursors.Save(ctx, 10))
	require.NoError(t, cursors.Save(ctx, 11))
	c, ok := cursors.Load(ctx)
	assert.True(t, ok)
	assert.Equal(t, cursor.Cursor(11), c)

	require.NoError(t, cursors.Reset(ctx))
	_, ok = cursors.Load(ctx)
	assert.False(t, ok)
}

func TestLoaderAgainstPostgres(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	logger, _ := test.NewNullLogger()

	delegator := operator.NewOperatorDelegator(store, 1, logger)
	delegator.Start()
	t.Cleanup(delegator.Stop)

	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	loader := service.NewLoader(delegator, store.Reader, false, logger).WithClock(func() time.Time {
		clock = clock.Add(time.Hour)
		return clock
	})

	memo := "weekly shop"
	t1 := ynab.Transaction{ID: "T1", Date: "2025-03-01", Amount: -500, Cleared: "cleared", AccountID: "acc", AccountName: "Checking", Memo: &memo,
		Subtransactions: []ynab.Subtransaction{{ID: "S1", Amount: -300}, {ID: "S2", Amount: -200}}}

	for _, amount := range []int64{-500, -550, -550} {
		t1.Amount = amount
		_, err := loader.Apply(ctx, service.Batch{Transactions: []ynab.Transaction{t1}})
		require.NoError(t, err)
	}
	t1.Deleted = true
	report, err := loader.Apply(ctx, service.Batch{Transactions: []ynab.Transaction{t1}})
	require.NoError(t, err)
	assert.Equal(t, service.TableCounts{Inserted: 1, Closed: 1}, report.Transactions)
	assert.Equal(t, service.TableCounts{Unchanged: 2}, report.Subtransactions)

	versions, err := loader.Versions(ctx, "T1")
	require.NoError(t, err)
	require.Len(t, versions, 3)
	for i := 0; i < len(versions)-1; i++ {
		require.NotNil(t, versions[i].RecordEnd)
		assert.True(t, versions[i].RecordEnd.Equal(versions[i+1].RecordStart))
	}
	assert.True(t, versions[2].Deleted)

	subs, err := loader.SubtransactionVersions(ctx, "S1")
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}
