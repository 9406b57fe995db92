package actions

import (
	"errors"
	"fmt"
)

var ErrDataQuality = errors.New("data quality check failed")

type IssueKind string

const (
	// DanglingParent is a subtransaction whose parent transaction is neither
	// in the batch nor anywhere in history.
	DanglingParent IssueKind = "dangling_parent"
)

type DataQualityIssue struct {
	Kind     IssueKind `json:"kind"`
	RecordID string    `json:"recordId"`
	ParentID string    `json:"parentId,omitempty"`
}

func (i DataQualityIssue) String() string {
	return fmt.Sprintf("%s: record %s parent %s", i.Kind, i.RecordID, i.ParentID)
}

// TableCounts tallies what the merge did to one history table. A changed
// record counts once in Closed and once in Inserted.
type TableCounts struct {
	Inserted  int `json:"inserted"`
	Closed    int `json:"closed"`
	Unchanged int `json:"unchanged"`
}

func (c *TableCounts) add(o TableCounts) {
	c.Inserted += o.Inserted
	c.Closed += o.Closed
	c.Unchanged += o.Unchanged
}

type ApplyReport struct {
	Transactions    TableCounts        `json:"transactions"`
	Subtransactions TableCounts        `json:"subtransactions"`
	Issues          []DataQualityIssue `json:"issues,omitempty"`
}

func (r *ApplyReport) Total() TableCounts {
	var total TableCounts
	total.add(r.Transactions)
	total.add(r.Subtransactions)
	return total
}
