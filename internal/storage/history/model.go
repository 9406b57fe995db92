package history

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("history: version not found")

const (
	Schema               = "ynab_history"
	TransactionsTable    = "transactions"
	SubtransactionsTable = "subtransactions"
)

// Row is a history table row that knows its identity, its content hash and
// how to insert itself.
type Row interface {
	Key() string
	Hash() string
	InsertValues() (columns []string, values []any)
}

// CurrentVersion is the open version of a record: the only row of its id with
// a NULL record_end_datetime.
type CurrentVersion struct {
	HistoryID   int64     `db:"history_id"`
	ID          string    `db:"id"`
	RowHash     string    `db:"row_hash"`
	RecordStart time.Time `db:"record_start_datetime"`
}

// TransactionRow is one version of a transaction.
type TransactionRow struct {
	HistoryID               int64      `db:"history_id"`
	RecordStart             time.Time  `db:"record_start_datetime"`
	RecordEnd               *time.Time `db:"record_end_datetime"`
	ID                      string     `db:"id"`
	Date                    string     `db:"date"`
	Amount                  int64      `db:"amount"`
	Memo                    *string    `db:"memo"`
	Cleared                 string     `db:"cleared"`
	Approved                bool       `db:"approved"`
	FlagColor               *string    `db:"flag_color"`
	FlagName                *string    `db:"flag_name"`
	AccountID               string     `db:"account_id"`
	AccountName             string     `db:"account_name"`
	PayeeID                 *string    `db:"payee_id"`
	PayeeName               *string    `db:"payee_name"`
	CategoryID              *string    `db:"category_id"`
	CategoryName            *string    `db:"category_name"`
	TransferAccountID       *string    `db:"transfer_account_id"`
	TransferTransactionID   *string    `db:"transfer_transaction_id"`
	MatchedTransactionID    *string    `db:"matched_transaction_id"`
	ImportID                *string    `db:"import_id"`
	ImportPayeeName         *string    `db:"import_payee_name"`
	ImportPayeeNameOriginal *string    `db:"import_payee_name_original"`
	DebtTransactionType     *string    `db:"debt_transaction_type"`
	Deleted                 bool       `db:"deleted"`
	RowHash                 string     `db:"row_hash"`
}

func (r TransactionRow) Key() string  { return r.ID }
func (r TransactionRow) Hash() string { return r.RowHash }

func (r TransactionRow) InsertValues() ([]string, []any) {
	return []string{
			"record_start_datetime", "record_end_datetime", "id", "date", "amount", "memo",
			"cleared", "approved", "flag_color", "flag_name", "account_id", "account_name",
			"payee_id", "payee_name", "category_id", "category_name", "transfer_account_id",
			"transfer_transaction_id", "matched_transaction_id", "import_id", "import_payee_name",
			"import_payee_name_original", "debt_transaction_type", "deleted", "row_hash",
		}, []any{
			r.RecordStart, r.RecordEnd, r.ID, r.Date, r.Amount, r.Memo,
			r.Cleared, r.Approved, r.FlagColor, r.FlagName, r.AccountID, r.AccountName,
			r.PayeeID, r.PayeeName, r.CategoryID, r.CategoryName, r.TransferAccountID,
			r.TransferTransactionID, r.MatchedTransactionID, r.ImportID, r.ImportPayeeName,
			r.ImportPayeeNameOriginal, r.DebtTransactionType, r.Deleted, r.RowHash,
		}
}

// SubtransactionRow is one version of a split line.
type SubtransactionRow struct {
	HistoryID             int64      `db:"history_id"`
	RecordStart           time.Time  `db:"record_start_datetime"`
	RecordEnd             *time.Time `db:"record_end_datetime"`
	ID                    string     `db:"id"`
	TransactionID         string     `db:"transaction_id"`
	Amount                int64      `db:"amount"`
	Memo                  *string    `db:"memo"`
	PayeeID               *string    `db:"payee_id"`
	PayeeName             *string    `db:"payee_name"`
	CategoryID            *string    `db:"category_id"`
	CategoryName          *string    `db:"category_name"`
	TransferAccountID     *string    `db:"transfer_account_id"`
	TransferTransactionID *string    `db:"transfer_transaction_id"`
	Deleted               bool       `db:"deleted"`
	RowHash               string     `db:"row_hash"`
}

func (r SubtransactionRow) Key() string  { return r.ID }
func (r SubtransactionRow) Hash() string { return r.RowHash }

func (r SubtransactionRow) InsertValues() ([]string, []any) {
	return []string{
			"record_start_datetime", "record_end_datetime", "id", "transaction_id", "amount",
			"memo", "payee_id", "payee_name", "category_id", "category_name",
			"transfer_account_id", "transfer_transaction_id", "deleted", "row_hash",
		}, []any{
			r.RecordStart, r.RecordEnd, r.ID, r.TransactionID, r.Amount,
			r.Memo, r.PayeeID, r.PayeeName, r.CategoryID, r.CategoryName,
			r.TransferAccountID, r.TransferTransactionID, r.Deleted, r.RowHash,
		}
}

// IHistoryWriter is everything the historization step needs from one table
// inside a write transaction.
type IHistoryWriter[R Row] interface {
	FindCurrent(ctx context.Context, ids []string) (map[string]CurrentVersion, error)
	KnownIDs(ctx context.Context, ids []string) (map[string]bool, error)
	Insert(ctx context.Context, row R) error
	CloseVersion(ctx context.Context, historyID int64, end time.Time) error
}

// IHistoryReader serves timeline queries.
type IHistoryReader[R Row] interface {
	Versions(ctx context.Context, id string) ([]R, error)
	AsOf(ctx context.Context, id string, at time.Time) (*R, error)
}
