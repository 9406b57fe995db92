package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/gofrs/uuid/v5"

	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/syncrun"
)

type Runs struct {
	mu   sync.Mutex
	runs map[uuid.UUID]syncrun.Run
}

var (
	_ syncrun.ISyncRunWriter = (*Runs)(nil)
	_ syncrun.ISyncRunReader = (*Runs)(nil)
)

func NewRuns() *Runs {
	return &Runs{runs: map[uuid.UUID]syncrun.Run{}}
}

func (r *Runs) Start(_ context.Context, run syncrun.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[run.ID] = run
	return nil
}

func (r *Runs) Finish(_ context.Context, id uuid.UUID, finish syncrun.Finish) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return syncrun.ErrNotFound
	}
	finishedAt := finish.FinishedAt
	run.Status = finish.Status
	run.FinishedAt = &finishedAt
	run.RequestCount = finish.RequestCount
	run.RecordCount = finish.RecordCount
	run.ServerKnowledge = finish.ServerKnowledge
	if finish.Error != "" {
		msg := finish.Error
		run.Error = &msg
	}
	r.runs[id] = run
	return nil
}

func (r *Runs) Latest(ctx context.Context, budgetID string) (*syncrun.Run, error) {
	runs, _ := r.List(ctx, budgetID, 1)
	if len(runs) == 0 {
		return nil, syncrun.ErrNotFound
	}
	return &runs[0], nil
}

func (r *Runs) List(_ context.Context, budgetID string, limit int) ([]syncrun.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []syncrun.Run
	for _, run := range r.runs {
		if run.BudgetID == budgetID {
			out = append(out, run)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *Runs) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make(map[uuid.UUID]syncrun.Run, len(r.runs))
	for k, v := range r.runs {
		saved[k] = v
	}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.runs = saved
	}
}
