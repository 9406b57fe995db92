package service

import (
	"context"

	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/syncrun"
)

const defaultRunLimit = 20

// Service holds all business logic services.
type Service struct {
	Sync   *SyncService
	Loader *Loader
	Runs   *RunService
}

func NewService(sync *SyncService, loader *Loader, runs syncrun.ISyncRunReader, budgetID string) *Service {
	return &Service{
		Sync:   sync,
		Loader: loader,
		Runs:   NewRunService(runs, budgetID),
	}
}

// RunService reads the sync run log of one budget.
type RunService struct {
	runs     syncrun.ISyncRunReader
	budgetID string
}

func NewRunService(runs syncrun.ISyncRunReader, budgetID string) *RunService {
	return &RunService{runs: runs, budgetID: budgetID}
}

func (s *RunService) Latest(ctx context.Context) (*syncrun.Run, error) {
	return s.runs.Latest(ctx, s.budgetID)
}

// List returns the most recent runs, newest first. A limit outside 1..100
// falls back to the default.
func (s *RunService) List(ctx context.Context, limit int) ([]syncrun.Run, error) {
	if limit < 1 || limit > 100 {
		limit = defaultRunLimit
	}
	return s.runs.List(ctx, s.budgetID, limit)
}
