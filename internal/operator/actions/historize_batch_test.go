package actions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/history"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/memory"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/staging"
)

var (
	day1 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	day2 = day1.Add(24 * time.Hour)
)

func txRow(id, hash string, at time.Time) history.TransactionRow {
	return history.TransactionRow{ID: id, RowHash: hash, RecordStart: at, Date: "2025-03-01", Cleared: "cleared", AccountID: "acc", AccountName: "Checking"}
}

func subRow(id, parent, hash string, at time.Time) history.SubtransactionRow {
	return history.SubtransactionRow{ID: id, TransactionID: parent, RowHash: hash, RecordStart: at}
}

func perform(t *testing.T, store *memory.Store, action *HistorizeBatch) error {
	t.Helper()
	writer, err := store.Write(context.Background())
	require.NoError(t, err)
	if err := action.Perform(context.Background(), writer); err != nil {
		require.NoError(t, writer.Rollback())
		return err
	}
	return writer.Commit()
}

func TestHistorizeBatch_InsertsNewRecords(t *testing.T) {
	store := memory.NewStore()
	action := &HistorizeBatch{
		Now:          day1,
		Transactions: []history.TransactionRow{txRow("t1", "a", day1), txRow("t2", "b", day1)},
		Staged:       []staging.Envelope{{ID: "t1", Payload: []byte(`{}`)}, {ID: "t2", Payload: []byte(`{}`)}},
	}

	require.NoError(t, perform(t, store, action))

	assert.Equal(t, TableCounts{Inserted: 2}, action.Report.Transactions)
	assert.Equal(t, 2, store.Transactions.Len())
	require.NotNil(t, store.Staging.Transactions["t1"].Processed)
	assert.Equal(t, day1, *store.Staging.Transactions["t1"].Processed)
}

func TestHistorizeBatch_ChangedRecordClosesAndReopensAtSameInstant(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, perform(t, store, &HistorizeBatch{Now: day1, Transactions: []history.TransactionRow{txRow("t1", "a", day1)}}))

	action := &HistorizeBatch{Now: day2, Transactions: []history.TransactionRow{txRow("t1", "b", day2)}}
	require.NoError(t, perform(t, store, action))

	assert.Equal(t, TableCounts{Inserted: 1, Closed: 1}, action.Report.Transactions)
	versions, err := store.Transactions.Versions(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	require.NotNil(t, versions[0].RecordEnd)
	assert.Equal(t, versions[1].RecordStart, *versions[0].RecordEnd)
	assert.Nil(t, versions[1].RecordEnd)
}

func TestHistorizeBatch_UnchangedRecordWritesNothing(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, perform(t, store, &HistorizeBatch{Now: day1, Transactions: []history.TransactionRow{txRow("t1", "a", day1)}}))

	action := &HistorizeBatch{Now: day2, Transactions: []history.TransactionRow{txRow("t1", "a", day2)}}
	require.NoError(t, perform(t, store, action))

	assert.Equal(t, TableCounts{Unchanged: 1}, action.Report.Transactions)
	assert.Equal(t, 1, store.Transactions.Len())
}

func TestHistorizeBatch_DanglingParentIsSkippedAndReported(t *testing.T) {
	store := memory.NewStore()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	action := &HistorizeBatch{
		Now:          day1,
		Transactions: []history.TransactionRow{txRow("t1", "a", day1)},
		Subtransactions: []history.SubtransactionRow{
			subRow("s1", "t1", "x", day1),
			subRow("s2", "missing", "y", day1),
		},
		Log: logger,
	}
	require.NoError(t, perform(t, store, action))

	assert.Equal(t, TableCounts{Inserted: 1}, action.Report.Subtransactions)
	assert.Equal(t, []DataQualityIssue{{Kind: DanglingParent, RecordID: "s2", ParentID: "missing"}}, action.Report.Issues)
	assert.NotEmpty(t, hook.AllEntries())
}

func TestHistorizeBatch_ParentFromEarlierBatchIsKnown(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, perform(t, store, &HistorizeBatch{Now: day1, Transactions: []history.TransactionRow{txRow("t1", "a", day1)}}))

	action := &HistorizeBatch{Now: day2, Subtransactions: []history.SubtransactionRow{subRow("s1", "t1", "x", day2)}}
	require.NoError(t, perform(t, store, action))

	assert.Empty(t, action.Report.Issues)
	assert.Equal(t, 1, store.Subtransactions.Len())
}

func TestHistorizeBatch_StrictIntegrityAbortsBatch(t *testing.T) {
	store := memory.NewStore()
	action := &HistorizeBatch{
		Now:             day1,
		Transactions:    []history.TransactionRow{txRow("t1", "a", day1)},
		Subtransactions: []history.SubtransactionRow{subRow("s2", "missing", "y", day1)},
		StrictIntegrity: true,
	}

	err := perform(t, store, action)

	assert.ErrorIs(t, err, ErrDataQuality)
	assert.Equal(t, 0, store.Transactions.Len(), "the whole batch is rolled back")
}

func TestHistorizeBatch_InsertFailureRollsBackEverything(t *testing.T) {
	store := memory.NewStore()
	store.Subtransactions.FailInsert = errors.New("connection reset")
	action := &HistorizeBatch{
		Now:             day1,
		Transactions:    []history.TransactionRow{txRow("t1", "a", day1)},
		Subtransactions: []history.SubtransactionRow{subRow("s1", "t1", "x", day1)},
		Staged:          []staging.Envelope{{ID: "t1", Payload: []byte(`{}`)}},
	}

	err := perform(t, store, action)

	assert.ErrorContains(t, err, "connection reset")
	assert.Equal(t, 0, store.Transactions.Len())
	assert.Empty(t, store.Staging.Transactions)
}

func TestHistorizeBatch_BatchTimeBeforeOpenVersionFails(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, perform(t, store, &HistorizeBatch{Now: day2, Transactions: []history.TransactionRow{txRow("t1", "a", day2)}}))

	err := perform(t, store, &HistorizeBatch{Now: day1, Transactions: []history.TransactionRow{txRow("t1", "b", day1)}})

	assert.Error(t, err)
	assert.Equal(t, 1, store.Transactions.Len())
}
