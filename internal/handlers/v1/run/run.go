package run

import (
	"time"

	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/syncrun"
)

// Run is the API response model for one entry of the sync run log.
type Run struct {
	ID              string  `json:"id" doc:"Run UUID"`
	Mode            string  `json:"mode" enum:"full,delta"`
	Status          string  `json:"status" enum:"running,succeeded,exhausted,failed"`
	StartedAt       string  `json:"startedAt" format:"date-time"`
	FinishedAt      *string `json:"finishedAt,omitempty" format:"date-time"`
	RequestCount    int64   `json:"requestCount" doc:"HTTP attempts made, retries included"`
	RecordCount     int64   `json:"recordCount"`
	ServerKnowledge *int64  `json:"serverKnowledge,omitempty" doc:"Cursor saved by the run"`
	Error           *string `json:"error,omitempty"`
}

func fromRun(r syncrun.Run) Run {
	out := Run{
		ID:              r.ID.String(),
		Mode:            string(r.Mode),
		Status:          string(r.Status),
		StartedAt:       r.StartedAt.UTC().Format(time.RFC3339),
		RequestCount:    r.RequestCount,
		RecordCount:     r.RecordCount,
		ServerKnowledge: r.ServerKnowledge,
		Error:           r.Error,
	}
	if r.FinishedAt != nil {
		finished := r.FinishedAt.UTC().Format(time.RFC3339)
		out.FinishedAt = &finished
	}
	return out
}
