package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"

	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/history"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/staging"
)

// HistorizeBatch merges one deduplicated batch into the history tables.
// All rows carry the same record start, Now, which is also the end written to
// the versions they replace.
type HistorizeBatch struct {
	Now             time.Time
	Transactions    []history.TransactionRow
	Subtransactions []history.SubtransactionRow
	Staged          []staging.Envelope
	StrictIntegrity bool
	Log             logrus.FieldLogger

	// Report is filled in by Perform.
	Report ApplyReport
}

func (h *HistorizeBatch) Perform(ctx context.Context, writer *storage.Writer) error {
	h.Report = ApplyReport{}

	if err := writer.Staging.UpsertTransactions(ctx, h.Staged); err != nil {
		return err
	}

	counts, err := mergeVersions(ctx, writer.Transactions, h.Transactions, h.Now)
	if err != nil {
		return err
	}
	h.Report.Transactions = counts

	subs, issues, err := h.checkParents(ctx, writer)
	if err != nil {
		return err
	}
	h.Report.Issues = issues
	if len(issues) > 0 && h.StrictIntegrity {
		return fmt.Errorf("%w: %d subtransactions reference unknown parents", ErrDataQuality, len(issues))
	}

	counts, err = mergeVersions(ctx, writer.Subtransactions, subs, h.Now)
	if err != nil {
		return err
	}
	h.Report.Subtransactions = counts

	ids := make([]string, 0, len(h.Staged))
	for _, e := range h.Staged {
		ids = append(ids, e.ID)
	}
	return writer.Staging.MarkProcessed(ctx, ids, h.Now)
}

// checkParents drops subtransactions whose parent is neither in this batch
// nor in history and reports each one.
func (h *HistorizeBatch) checkParents(ctx context.Context, writer *storage.Writer) ([]history.SubtransactionRow, []DataQualityIssue, error) {
	inBatch := make(map[string]bool, len(h.Transactions))
	for _, t := range h.Transactions {
		inBatch[t.ID] = true
	}

	var outside []string
	for _, s := range h.Subtransactions {
		if !inBatch[s.TransactionID] {
			outside = append(outside, s.TransactionID)
		}
	}
	if len(outside) == 0 {
		return h.Subtransactions, nil, nil
	}

	known, err := writer.Transactions.KnownIDs(ctx, outside)
	if err != nil {
		return nil, nil, err
	}

	kept := make([]history.SubtransactionRow, 0, len(h.Subtransactions))
	var issues []DataQualityIssue
	for _, s := range h.Subtransactions {
		if inBatch[s.TransactionID] || known[s.TransactionID] {
			kept = append(kept, s)
			continue
		}
		issue := DataQualityIssue{Kind: DanglingParent, RecordID: s.ID, ParentID: s.TransactionID}
		issues = append(issues, issue)
		if h.Log != nil {
			h.Log.WithField("issue", issue.String()).Warn("HistorizeBatch.DataQuality.skipped")
			h.Log.Debug(spew.Sdump(s))
		}
	}
	return kept, issues, nil
}

func mergeVersions[R history.Row](ctx context.Context, table history.IHistoryWriter[R], rows []R, now time.Time) (TableCounts, error) {
	var counts TableCounts
	if len(rows) == 0 {
		return counts, nil
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.Key()
	}
	current, err := table.FindCurrent(ctx, ids)
	if err != nil {
		return counts, err
	}

	for _, row := range rows {
		open, ok := current[row.Key()]
		switch {
		case !ok:
			if err := table.Insert(ctx, row); err != nil {
				return counts, err
			}
			counts.Inserted++
		case open.RowHash == row.Hash():
			counts.Unchanged++
		default:
			if now.Before(open.RecordStart) {
				return counts, fmt.Errorf("record %s: open version starts at %s, after batch time %s",
					row.Key(), open.RecordStart.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
			}
			if err := table.CloseVersion(ctx, open.HistoryID, now); err != nil {
				return counts, err
			}
			if err := table.Insert(ctx, row); err != nil {
				return counts, err
			}
			counts.Closed++
			counts.Inserted++
		}
	}
	return counts, nil
}
