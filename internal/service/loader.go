package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/operator/actions"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/rowhash"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/history"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/staging"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/ynab"
)

type (
	ApplyReport      = actions.ApplyReport
	TableCounts      = actions.TableCounts
	DataQualityIssue = actions.DataQualityIssue
)

var ErrDataQuality = actions.ErrDataQuality

// Processor runs an action inside one write transaction.
type Processor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Batch is the set of records returned by one run, in fetch order.
type Batch struct {
	Transactions []ynab.Transaction
}

// Loader turns fetched records into history versions.
type Loader struct {
	processor       Processor
	reader          *storage.Reader
	strictIntegrity bool
	now             func() time.Time
	log             logrus.FieldLogger
}

func NewLoader(processor Processor, reader *storage.Reader, strictIntegrity bool, log logrus.FieldLogger) *Loader {
	return &Loader{
		processor:       processor,
		reader:          reader,
		strictIntegrity: strictIntegrity,
		now:             time.Now,
		log:             log,
	}
}

// WithClock replaces the batch clock.
func (l *Loader) WithClock(now func() time.Time) *Loader {
	l.now = now
	return l
}

// Apply historizes the batch in a single transaction. Applying the same batch
// twice leaves history unchanged the second time. The report is returned
// together with ErrDataQuality when strict integrity rejects the batch.
func (l *Loader) Apply(ctx context.Context, batch Batch) (*ApplyReport, error) {
	transactions := dedupe(batch.Transactions)
	if len(transactions) == 0 {
		return &ApplyReport{}, nil
	}

	// Postgres keeps microseconds; truncating keeps stored and compared
	// instants identical.
	now := l.now().UTC().Truncate(time.Microsecond)

	action := &actions.HistorizeBatch{
		Now:             now,
		StrictIntegrity: l.strictIntegrity,
		Log:             l.log,
	}

	subIndex := map[string]int{}
	for _, t := range transactions {
		row, err := transactionRow(t, now)
		if err != nil {
			return nil, err
		}
		action.Transactions = append(action.Transactions, row)

		payload, err := rawPayload(t)
		if err != nil {
			return nil, err
		}
		action.Staged = append(action.Staged, staging.Envelope{ID: t.ID, Payload: payload})

		for _, s := range t.Subtransactions {
			subRow, err := subtransactionRow(s, now)
			if err != nil {
				return nil, err
			}
			// a split line seen twice keeps its last content
			if i, ok := subIndex[s.ID]; ok {
				action.Subtransactions[i] = subRow
				continue
			}
			subIndex[s.ID] = len(action.Subtransactions)
			action.Subtransactions = append(action.Subtransactions, subRow)
		}
	}

	err := l.processor.Process(ctx, action)
	report := action.Report
	if err != nil {
		return &report, fmt.Errorf("historize batch: %w", err)
	}
	return &report, nil
}

// AsOf returns the transaction version valid at the given instant.
func (l *Loader) AsOf(ctx context.Context, id string, at time.Time) (*history.TransactionRow, error) {
	return l.reader.Transactions.AsOf(ctx, id, at)
}

// Versions returns every version of a transaction ordered by start.
func (l *Loader) Versions(ctx context.Context, id string) ([]history.TransactionRow, error) {
	return l.reader.Transactions.Versions(ctx, id)
}

// SubtransactionVersions returns every version of a split line.
func (l *Loader) SubtransactionVersions(ctx context.Context, id string) ([]history.SubtransactionRow, error) {
	return l.reader.Subtransactions.Versions(ctx, id)
}

// dedupe normalizes the batch and keeps the last occurrence of each id at the
// position of its first occurrence.
func dedupe(in []ynab.Transaction) []ynab.Transaction {
	index := make(map[string]int, len(in))
	out := make([]ynab.Transaction, 0, len(in))
	for _, t := range in {
		t = t.Normalize()
		if i, ok := index[t.ID]; ok {
			out[i] = t
			continue
		}
		index[t.ID] = len(out)
		out = append(out, t)
	}
	return out
}

func rawPayload(t ynab.Transaction) ([]byte, error) {
	if len(t.Raw) > 0 {
		return t.Raw, nil
	}
	payload, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("marshal transaction %s: %w", t.ID, err)
	}
	return payload, nil
}

func transactionRow(t ynab.Transaction, now time.Time) (history.TransactionRow, error) {
	hash, err := rowhash.Sum(t.MutableFields())
	if err != nil {
		return history.TransactionRow{}, fmt.Errorf("hash transaction %s: %w", t.ID, err)
	}
	return history.TransactionRow{
		RecordStart:             now,
		ID:                      t.ID,
		Date:                    t.Date,
		Amount:                  t.Amount,
		Memo:                    t.Memo,
		Cleared:                 t.Cleared,
		Approved:                t.Approved,
		FlagColor:               t.FlagColor,
		FlagName:                t.FlagName,
		AccountID:               t.AccountID,
		AccountName:             t.AccountName,
		PayeeID:                 t.PayeeID,
		PayeeName:               t.PayeeName,
		CategoryID:              t.CategoryID,
		CategoryName:            t.CategoryName,
		TransferAccountID:       t.TransferAccountID,
		TransferTransactionID:   t.TransferTransactionID,
		MatchedTransactionID:    t.MatchedTransactionID,
		ImportID:                t.ImportID,
		ImportPayeeName:         t.ImportPayeeName,
		ImportPayeeNameOriginal: t.ImportPayeeNameOriginal,
		DebtTransactionType:     t.DebtTransactionType,
		Deleted:                 t.Deleted,
		RowHash:                 hash,
	}, nil
}

func subtransactionRow(s ynab.Subtransaction, now time.Time) (history.SubtransactionRow, error) {
	hash, err := rowhash.Sum(s.MutableFields())
	if err != nil {
		return history.SubtransactionRow{}, fmt.Errorf("hash subtransaction %s: %w", s.ID, err)
	}
	return history.SubtransactionRow{
		RecordStart:           now,
		ID:                    s.ID,
		TransactionID:         s.TransactionID,
		Amount:                s.Amount,
		Memo:                  s.Memo,
		PayeeID:               s.PayeeID,
		PayeeName:             s.PayeeName,
		CategoryID:            s.CategoryID,
		CategoryName:          s.CategoryName,
		TransferAccountID:     s.TransferAccountID,
		TransferTransactionID: s.TransferTransactionID,
		Deleted:               s.Deleted,
		RowHash:               hash,
	}, nil
}
