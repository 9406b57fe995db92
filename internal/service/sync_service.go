package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/cursor"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/logging"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/operator/actions"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/staging"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/syncrun"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/ynab"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/ynab/backoff"
)

var ErrRunInProgress = errors.New("a sync run is already in progress")

// Fetcher is the slice of the YNAB client the sync needs.
type Fetcher interface {
	Transactions(ctx context.Context, q ynab.TransactionsQuery, policy backoff.Policy) (*ynab.TransactionsPage, error)
	Accounts(ctx context.Context, lastKnowledge int64, policy backoff.Policy) (*ynab.EntitiesPage, error)
	Categories(ctx context.Context, lastKnowledge int64, policy backoff.Policy) (*ynab.EntitiesPage, error)
	Requests() int64
	BudgetID() string
}

// PageArchiver stores raw response pages for audit and replay.
type PageArchiver interface {
	ArchivePage(ctx context.Context, runID uuid.UUID, kind string, page int, raw []byte) error
}

type RunParams struct {
	FullRefresh bool
	// SinceDate overrides the configured default when set.
	SinceDate time.Time
}

type RunResult struct {
	RunID        uuid.UUID
	Mode         syncrun.Mode
	Pages        int
	Requests     int64
	Records      int
	CursorBefore *cursor.Cursor
	CursorAfter  *cursor.Cursor
	CursorSaved  bool
	NetAmount    decimal.Decimal
	Report       ApplyReport
}

type SyncOptions struct {
	SinceDate    time.Time
	SyncEntities bool
	Archive      PageArchiver
}

// SyncService drives one budget from its stored cursor to the latest
// server_knowledge.
type SyncService struct {
	client    Fetcher
	cursors   cursor.Store
	loader    *Loader
	processor Processor
	options   SyncOptions
	log       logrus.FieldLogger
	now       func() time.Time

	running sync.Mutex
	lastMu  sync.RWMutex
	last    *RunResult
}

func NewSyncService(client Fetcher, cursors cursor.Store, loader *Loader, processor Processor, options SyncOptions, log logrus.FieldLogger) *SyncService {
	return &SyncService{
		client:    client,
		cursors:   cursors,
		loader:    loader,
		processor: processor,
		options:   options,
		log:       log,
		now:       time.Now,
	}
}

// LastResult is the outcome of the most recent run of this process, if any.
func (s *SyncService) LastResult() *RunResult {
	s.lastMu.RLock()
	defer s.lastMu.RUnlock()
	return s.last
}

// Running reports whether a run is in flight.
func (s *SyncService) Running() bool {
	if s.running.TryLock() {
		s.running.Unlock()
		return false
	}
	return true
}

// Run performs one sync. The cursor only moves after the fetched batch is
// committed to history, so a run interrupted at any point can simply be run
// again.
func (s *SyncService) Run(ctx context.Context, params RunParams) (*RunResult, error) {
	if !s.running.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.running.Unlock()

	logData := logging.NewLogData(s.log)
	endTimer := logData.AddTiming("duration")

	result, err := s.run(ctx, params, logData)

	endTimer()
	if result != nil {
		logData.AddData("runID", result.RunID.String())
		logData.AddData("mode", string(result.Mode))
		logData.AddData("pages", result.Pages)
		logData.AddData("requests", result.Requests)
		logData.AddData("records", result.Records)
		logData.AddData("inserted", result.Report.Total().Inserted)
		logData.AddData("closed", result.Report.Total().Closed)
		logData.AddData("unchanged", result.Report.Total().Unchanged)
		logData.AddData("issues", len(result.Report.Issues))
		logData.AddData("netAmount", result.NetAmount.StringFixed(2))
		logData.AddData("cursorSaved", result.CursorSaved)

		s.lastMu.Lock()
		s.last = result
		s.lastMu.Unlock()
	}
	if err != nil {
		logData.Log().WithError(err).Error("SyncService.Run.Error")
		return result, err
	}
	logData.Log().Info("SyncService.Run.Complete")
	return result, nil
}

func (s *SyncService) run(ctx context.Context, params RunParams, logData *logging.LogData) (*RunResult, error) {
	runID, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("run id: %w", err)
	}
	result := &RunResult{RunID: runID, Mode: syncrun.ModeFull}

	sinceDate := params.SinceDate
	if sinceDate.IsZero() {
		sinceDate = s.options.SinceDate
	}

	if params.FullRefresh {
		if err := s.cursors.Reset(ctx); err != nil {
			return result, fmt.Errorf("reset cursor: %w", err)
		}
	} else if c, ok := s.cursors.Load(ctx); ok {
		result.Mode = syncrun.ModeDelta
		result.CursorBefore = &c
	}

	run := syncrun.Run{
		ID:        runID,
		BudgetID:  s.client.BudgetID(),
		Mode:      result.Mode,
		Status:    syncrun.StatusRunning,
		StartedAt: s.now().UTC(),
	}
	if err := s.processor.Process(ctx, &actions.RecordRunStart{Run: run}); err != nil {
		return result, fmt.Errorf("record run start: %w", err)
	}

	requestsBefore := s.client.Requests()
	err = s.sync(ctx, result, sinceDate, logData)
	result.Requests = s.client.Requests() - requestsBefore

	s.finishRun(ctx, result, err)
	return result, err
}

func (s *SyncService) sync(ctx context.Context, result *RunResult, sinceDate time.Time, logData *logging.LogData) error {
	var (
		batch     Batch
		knowledge int64
		fetchErr  error
	)

	endFetch := logData.AddTiming("fetchDuration")
	if result.Mode == syncrun.ModeDelta {
		batch, knowledge, fetchErr = s.fetchDelta(ctx, result, sinceDate)
	} else {
		batch, knowledge, fetchErr = s.fetchAll(ctx, result, sinceDate)
	}
	endFetch()

	// A failed delta call returns nothing. A paginated fetch that gave up
	// still loads what it got: each record is a full snapshot.
	if fetchErr != nil && len(batch.Transactions) == 0 {
		return fetchErr
	}
	result.Records = len(batch.Transactions)
	result.NetAmount = netAmount(batch.Transactions)

	endLoad := logData.AddTiming("loadDuration")
	report, err := s.loader.Apply(ctx, batch)
	endLoad()
	if report != nil {
		result.Report = *report
	}
	if err != nil {
		return err
	}
	if fetchErr != nil {
		return fetchErr
	}

	if s.options.SyncEntities {
		s.stageEntities(ctx, result)
	}

	next := cursor.Cursor(knowledge)
	if result.CursorBefore != nil && next < *result.CursorBefore {
		// server_knowledge never goes backwards for a budget; keep ours
		next = *result.CursorBefore
	}
	if err := s.cursors.Save(ctx, next); err != nil {
		return fmt.Errorf("save cursor: %w", err)
	}
	result.CursorAfter = &next
	result.CursorSaved = true
	return nil
}

// fetchAll pages from 1 until an empty page. The cursor is the highest
// server_knowledge any page reported.
func (s *SyncService) fetchAll(ctx context.Context, result *RunResult, sinceDate time.Time) (Batch, int64, error) {
	var (
		batch     Batch
		knowledge int64
	)
	for page := 1; ; page++ {
		resp, err := s.client.Transactions(ctx, ynab.TransactionsQuery{SinceDate: sinceDate, Page: page}, backoff.Short)
		if err != nil {
			return batch, knowledge, err
		}
		result.Pages++
		s.archive(ctx, result.RunID, page, resp.Raw)

		if resp.ServerKnowledge > knowledge {
			knowledge = resp.ServerKnowledge
		}
		if len(resp.Transactions) == 0 {
			return batch, knowledge, nil
		}
		batch.Transactions = append(batch.Transactions, resp.Transactions...)
	}
}

// fetchDelta is a single call: YNAB returns everything changed since the
// cursor, deleted records included, without paging.
func (s *SyncService) fetchDelta(ctx context.Context, result *RunResult, sinceDate time.Time) (Batch, int64, error) {
	resp, err := s.client.Transactions(ctx, ynab.TransactionsQuery{
		SinceDate:             sinceDate,
		LastKnowledgeOfServer: int64(*result.CursorBefore),
	}, backoff.Long)
	if err != nil {
		return Batch{}, 0, err
	}
	result.Pages = 1
	s.archive(ctx, result.RunID, 1, resp.Raw)
	return Batch{Transactions: resp.Transactions}, resp.ServerKnowledge, nil
}

func (s *SyncService) archive(ctx context.Context, runID uuid.UUID, page int, raw []byte) {
	if s.options.Archive == nil || len(raw) == 0 {
		return
	}
	if err := s.options.Archive.ArchivePage(ctx, runID, "transactions", page, raw); err != nil {
		s.log.WithError(err).WithField("page", page).Warn("SyncService.Archive.failed")
	}
}

// stageEntities lands accounts and categories next to the transactions.
// Failures are logged; they never fail the transaction sync.
func (s *SyncService) stageEntities(ctx context.Context, result *RunResult) {
	fetchers := []func(context.Context, int64, backoff.Policy) (*ynab.EntitiesPage, error){
		s.client.Accounts,
		s.client.Categories,
	}
	for _, fetch := range fetchers {
		page, err := fetch(ctx, 0, backoff.Short)
		if err != nil {
			s.log.WithError(err).Warn("SyncService.StageEntities.fetch failed")
			continue
		}
		envelopes := make([]staging.Envelope, 0, len(page.Entities))
		for _, e := range page.Entities {
			envelopes = append(envelopes, staging.Envelope{ID: e.ID, Payload: e.Raw})
		}
		if err := s.processor.Process(ctx, &actions.StageEntities{Kind: page.Kind, Envelopes: envelopes}); err != nil {
			s.log.WithError(err).WithField("kind", page.Kind).Warn("SyncService.StageEntities.store failed")
		}
	}
}

func (s *SyncService) finishRun(ctx context.Context, result *RunResult, runErr error) {
	finish := syncrun.Finish{
		Status:       syncrun.StatusSucceeded,
		FinishedAt:   s.now().UTC(),
		RequestCount: result.Requests,
		RecordCount:  int64(result.Records),
	}
	if result.CursorAfter != nil {
		knowledge := int64(*result.CursorAfter)
		finish.ServerKnowledge = &knowledge
	}
	switch {
	case runErr == nil:
	case errors.Is(runErr, ynab.ErrExhausted):
		finish.Status = syncrun.StatusExhausted
		finish.Error = runErr.Error()
	default:
		finish.Status = syncrun.StatusFailed
		finish.Error = runErr.Error()
	}

	// the run row is bookkeeping; record it even if the caller's context
	// was cancelled mid-run
	if err := s.processor.Process(context.WithoutCancel(ctx), &actions.RecordRunFinish{RunID: result.RunID, Finish: finish}); err != nil {
		s.log.WithError(err).WithField("runID", result.RunID.String()).Warn("SyncService.RecordRunFinish.failed")
	}
}

func netAmount(transactions []ynab.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transactions {
		if t.Deleted {
			continue
		}
		total = total.Add(ynab.MilliunitsToDecimal(t.Amount))
	}
	return total
}
