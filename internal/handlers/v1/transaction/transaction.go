package transaction

import (
	"time"

	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/history"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/ynab"
)

// TransactionVersion is the API response model for one history row.
type TransactionVersion struct {
	HistoryID    int64   `json:"historyID" doc:"Surrogate key of this version"`
	ID           string  `json:"id" doc:"YNAB transaction id"`
	Date         string  `json:"date" doc:"Transaction date, YYYY-MM-DD"`
	Amount       string  `json:"amount" doc:"Decimal amount in budget currency"`
	Milliunits   int64   `json:"milliunits" doc:"Amount in YNAB milliunits"`
	Memo         *string `json:"memo,omitempty"`
	Cleared      string  `json:"cleared" enum:"cleared,uncleared,reconciled"`
	Approved     bool    `json:"approved"`
	AccountID    string  `json:"accountID"`
	AccountName  string  `json:"accountName"`
	PayeeName    *string `json:"payeeName,omitempty"`
	CategoryName *string `json:"categoryName,omitempty"`
	Deleted      bool    `json:"deleted"`
	RowHash      string  `json:"rowHash"`
	RecordStart  string  `json:"recordStart" format:"date-time" doc:"Start of validity, inclusive"`
	RecordEnd    *string `json:"recordEnd,omitempty" format:"date-time" doc:"End of validity, exclusive; absent for the current version"`
}

func fromRow(row history.TransactionRow) TransactionVersion {
	v := TransactionVersion{
		HistoryID:    row.HistoryID,
		ID:           row.ID,
		Date:         row.Date,
		Amount:       ynab.MilliunitsToDecimal(row.Amount).StringFixed(2),
		Milliunits:   row.Amount,
		Memo:         row.Memo,
		Cleared:      row.Cleared,
		Approved:     row.Approved,
		AccountID:    row.AccountID,
		AccountName:  row.AccountName,
		PayeeName:    row.PayeeName,
		CategoryName: row.CategoryName,
		Deleted:      row.Deleted,
		RowHash:      row.RowHash,
		RecordStart:  row.RecordStart.UTC().Format(time.RFC3339Nano),
	}
	if row.RecordEnd != nil {
		end := row.RecordEnd.UTC().Format(time.RFC3339Nano)
		v.RecordEnd = &end
	}
	return v
}
