package actions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/history"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/memory"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/staging"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/syncrun"
)

// -- StageEntities --

func TestStageEntities_UpsertsByKind(t *testing.T) {
	stage := staging.NewMockIStagingWriter(t)
	envelopes := []staging.Envelope{{ID: "A1", Payload: []byte(`{"id":"A1"}`)}}
	stage.EXPECT().UpsertEntities(mock.Anything, "accounts", envelopes).Return(nil)

	writer := storage.NewWriterFrom(nil, nil, nil, stage, nil)
	action := &StageEntities{Kind: "accounts", Envelopes: envelopes}

	assert.NoError(t, action.Perform(context.Background(), writer))
}

func TestStageEntities_EmptyIsNoOp(t *testing.T) {
	stage := staging.NewMockIStagingWriter(t)
	writer := storage.NewWriterFrom(nil, nil, nil, stage, nil)

	assert.NoError(t, (&StageEntities{Kind: "categories"}).Perform(context.Background(), writer))
}

// -- Run log --

func TestRecordRun_StartAndFinish(t *testing.T) {
	runs := syncrun.NewMockISyncRunWriter(t)
	id := uuid.Must(uuid.NewV4())
	run := syncrun.Run{ID: id, BudgetID: "budget-1", Mode: syncrun.ModeDelta, Status: syncrun.StatusRunning, StartedAt: day1}
	finish := syncrun.Finish{Status: syncrun.StatusFailed, FinishedAt: day1.Add(time.Minute), Error: "boom"}

	runs.EXPECT().Start(mock.Anything, run).Return(nil)
	runs.EXPECT().Finish(mock.Anything, id, finish).Return(nil)

	writer := storage.NewWriterFrom(nil, nil, nil, nil, runs)
	require.NoError(t, (&RecordRunStart{Run: run}).Perform(context.Background(), writer))
	require.NoError(t, (&RecordRunFinish{RunID: id, Finish: finish}).Perform(context.Background(), writer))
}

// -- Staging failures inside a batch --

func TestHistorizeBatch_StagingFailureStopsBeforeHistory(t *testing.T) {
	stage := staging.NewMockIStagingWriter(t)
	stage.EXPECT().UpsertTransactions(mock.Anything, mock.Anything).Return(errors.New("disk full"))

	transactions := memory.NewTransactionTable()
	writer := storage.NewWriterFrom(nil, transactions, memory.NewSubtransactionTable(), stage, nil)
	action := &HistorizeBatch{
		Now:          day1,
		Transactions: []history.TransactionRow{txRow("t1", "a", day1)},
		Staged:       []staging.Envelope{{ID: "t1", Payload: []byte(`{}`)}},
	}

	assert.EqualError(t, action.Perform(context.Background(), writer), "disk full")
	assert.Equal(t, 0, transactions.Len())
}

func TestHistorizeBatch_MarksEveryStagedRecord(t *testing.T) {
	stage := staging.NewMockIStagingWriter(t)
	stage.EXPECT().UpsertTransactions(mock.Anything, mock.Anything).Return(nil)
	stage.EXPECT().MarkProcessed(mock.Anything, []string{"t1", "t2"}, day2).Return(nil)

	writer := storage.NewWriterFrom(nil, memory.NewTransactionTable(), memory.NewSubtransactionTable(), stage, nil)
	action := &HistorizeBatch{
		Now:          day2,
		Transactions: []history.TransactionRow{txRow("t1", "a", day2), txRow("t2", "b", day2)},
		Staged:       []staging.Envelope{{ID: "t1"}, {ID: "t2"}},
	}

	require.NoError(t, action.Perform(context.Background(), writer))
	assert.Equal(t, TableCounts{Inserted: 2}, action.Report.Transactions)
}
