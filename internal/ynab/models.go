package ynab

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Transaction mirrors the YNAB TransactionDetail payload. Raw keeps the bytes
// exactly as they arrived for the staging tables.
type Transaction struct {
	ID                      string           `json:"id"`
	Date                    string           `json:"date"`
	Amount                  int64            `json:"amount"`
	Memo                    *string          `json:"memo"`
	Cleared                 string           `json:"cleared"`
	Approved                bool             `json:"approved"`
	FlagColor               *string          `json:"flag_color"`
	FlagName                *string          `json:"flag_name"`
	AccountID               string           `json:"account_id"`
	AccountName             string           `json:"account_name"`
	PayeeID                 *string          `json:"payee_id"`
	PayeeName               *string          `json:"payee_name"`
	CategoryID              *string          `json:"category_id"`
	CategoryName            *string          `json:"category_name"`
	TransferAccountID       *string          `json:"transfer_account_id"`
	TransferTransactionID   *string          `json:"transfer_transaction_id"`
	MatchedTransactionID    *string          `json:"matched_transaction_id"`
	ImportID                *string          `json:"import_id"`
	ImportPayeeName         *string          `json:"import_payee_name"`
	ImportPayeeNameOriginal *string          `json:"import_payee_name_original"`
	DebtTransactionType     *string          `json:"debt_transaction_type"`
	Deleted                 bool             `json:"deleted"`
	Subtransactions         []Subtransaction `json:"subtransactions"`

	Raw json.RawMessage `json:"-"`
}

func (t *Transaction) UnmarshalJSON(b []byte) error {
	type plain Transaction
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*t = Transaction(p)
	t.Raw = append(json.RawMessage(nil), b...)
	return nil
}

// Subtransaction is one split line of a Transaction.
type Subtransaction struct {
	ID                    string  `json:"id"`
	TransactionID         string  `json:"transaction_id"`
	Amount                int64   `json:"amount"`
	Memo                  *string `json:"memo"`
	PayeeID               *string `json:"payee_id"`
	PayeeName             *string `json:"payee_name"`
	CategoryID            *string `json:"category_id"`
	CategoryName          *string `json:"category_name"`
	TransferAccountID     *string `json:"transfer_account_id"`
	TransferTransactionID *string `json:"transfer_transaction_id"`
	Deleted               bool    `json:"deleted"`
}

// Entity is the slice of an account or category we stage verbatim.
type Entity struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Deleted bool   `json:"deleted"`

	Raw json.RawMessage `json:"-"`
}

func (e *Entity) UnmarshalJSON(b []byte) error {
	type plain Entity
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*e = Entity(p)
	e.Raw = append(json.RawMessage(nil), b...)
	return nil
}

// MilliunitsToDecimal converts YNAB milliunits (1000 = one currency unit).
func MilliunitsToDecimal(amount int64) decimal.Decimal {
	return decimal.New(amount, -3)
}

// Normalize maps empty optional strings to nil. YNAB sends both "" and null
// for the same absent value; without this the row hash would flip between runs.
func (t Transaction) Normalize() Transaction {
	for _, field := range []**string{
		&t.Memo, &t.FlagColor, &t.FlagName, &t.PayeeID, &t.PayeeName,
		&t.CategoryID, &t.CategoryName, &t.TransferAccountID, &t.TransferTransactionID,
		&t.MatchedTransactionID, &t.ImportID, &t.ImportPayeeName,
		&t.ImportPayeeNameOriginal, &t.DebtTransactionType,
	} {
		*field = nilIfEmpty(*field)
	}

	subs := make([]Subtransaction, len(t.Subtransactions))
	for i, sub := range t.Subtransactions {
		subs[i] = sub.Normalize()
		if subs[i].TransactionID == "" {
			subs[i].TransactionID = t.ID
		}
	}
	t.Subtransactions = subs
	return t
}

func (s Subtransaction) Normalize() Subtransaction {
	for _, field := range []**string{
		&s.Memo, &s.PayeeID, &s.PayeeName, &s.CategoryID, &s.CategoryName,
		&s.TransferAccountID, &s.TransferTransactionID,
	} {
		*field = nilIfEmpty(*field)
	}
	return s
}

// MutableFields lists every field that participates in the row hash. The
// identifier and the subtransactions (historized on their own) are excluded.
func (t Transaction) MutableFields() map[string]any {
	return map[string]any{
		"date":                       t.Date,
		"amount":                     t.Amount,
		"memo":                       t.Memo,
		"cleared":                    t.Cleared,
		"approved":                   t.Approved,
		"flag_color":                 t.FlagColor,
		"flag_name":                  t.FlagName,
		"account_id":                 t.AccountID,
		"account_name":               t.AccountName,
		"payee_id":                   t.PayeeID,
		"payee_name":                 t.PayeeName,
		"category_id":                t.CategoryID,
		"category_name":              t.CategoryName,
		"transfer_account_id":        t.TransferAccountID,
		"transfer_transaction_id":    t.TransferTransactionID,
		"matched_transaction_id":     t.MatchedTransactionID,
		"import_id":                  t.ImportID,
		"import_payee_name":          t.ImportPayeeName,
		"import_payee_name_original": t.ImportPayeeNameOriginal,
		"debt_transaction_type":      t.DebtTransactionType,
		"deleted":                    t.Deleted,
	}
}

func (s Subtransaction) MutableFields() map[string]any {
	return map[string]any{
		"transaction_id":          s.TransactionID,
		"amount":                  s.Amount,
		"memo":                    s.Memo,
		"payee_id":                s.PayeeID,
		"payee_name":              s.PayeeName,
		"category_id":             s.CategoryID,
		"category_name":           s.CategoryName,
		"transfer_account_id":     s.TransferAccountID,
		"transfer_transaction_id": s.TransferTransactionID,
		"deleted":                 s.Deleted,
	}
}

func nilIfEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
