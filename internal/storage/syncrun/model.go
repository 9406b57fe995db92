package syncrun

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
)

type Mode string

const (
	ModeFull  Mode = "full"
	ModeDelta Mode = "delta"
)

type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusExhausted Status = "exhausted"
	StatusFailed    Status = "failed"
)

// Run is one row of ynab_meta.sync_runs.
type Run struct {
	ID              uuid.UUID  `db:"id"`
	BudgetID        string     `db:"budget_id"`
	Mode            Mode       `db:"mode"`
	Status          Status     `db:"status"`
	StartedAt       time.Time  `db:"started_at"`
	FinishedAt      *time.Time `db:"finished_at"`
	RequestCount    int64      `db:"request_count"`
	RecordCount     int64      `db:"record_count"`
	ServerKnowledge *int64     `db:"server_knowledge"`
	Error           *string    `db:"error"`
}

// Finish carries the outcome written when a run ends.
type Finish struct {
	Status          Status
	FinishedAt      time.Time
	RequestCount    int64
	RecordCount     int64
	ServerKnowledge *int64
	Error           string
}

//go:generate mockery --name ISyncRunWriter --output mock_ISyncRunWriter.go
type ISyncRunWriter interface {
	Start(ctx context.Context, run Run) error
	Finish(ctx context.Context, id uuid.UUID, finish Finish) error
}

//go:generate mockery --name ISyncRunReader --output mock_ISyncRunReader.go
type ISyncRunReader interface {
	Latest(ctx context.Context, budgetID string) (*Run, error)
	List(ctx context.Context, budgetID string, limit int) ([]Run, error)
}
