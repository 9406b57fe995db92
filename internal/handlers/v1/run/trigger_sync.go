package run

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/logging"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/service"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/ynab"
)

type TriggerSyncBody struct {
	FullRefresh bool   `json:"fullRefresh,omitempty" doc:"Discard the cursor and re-fetch everything since sinceDate"`
	SinceDate   string `json:"sinceDate,omitempty" format:"date" doc:"Earliest transaction date, YYYY-MM-DD; defaults to the configured date"`
}

type TriggerSyncInput struct {
	Body TriggerSyncBody
}

type TriggerSyncResponseBody struct {
	RunID        string                     `json:"runID"`
	Mode         string                     `json:"mode" enum:"full,delta"`
	Pages        int                        `json:"pages"`
	Requests     int64                      `json:"requests"`
	Records      int                        `json:"records"`
	NetAmount    string                     `json:"netAmount" doc:"Sum of non-deleted fetched amounts"`
	CursorBefore *int64                     `json:"cursorBefore,omitempty"`
	CursorAfter  *int64                     `json:"cursorAfter,omitempty"`
	Inserted     int                        `json:"inserted"`
	Closed       int                        `json:"closed"`
	Unchanged    int                        `json:"unchanged"`
	Issues       []service.DataQualityIssue `json:"issues,omitempty"`
}

type TriggerSyncOutput struct {
	Body TriggerSyncResponseBody
}

// syncRunner is the interface for running a sync.
type syncRunner interface {
	Run(ctx context.Context, params service.RunParams) (*service.RunResult, error)
}

// TriggerSyncHandler handles POST /v1/sync. The request blocks until the run
// finishes.
type TriggerSyncHandler struct {
	SyncService syncRunner
}

func NewTriggerSyncHandler(svc syncRunner) *TriggerSyncHandler {
	return &TriggerSyncHandler{SyncService: svc}
}

func (h *TriggerSyncHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "trigger-sync",
		Method:      http.MethodPost,
		Path:        "/v1/sync",
		Summary:     "Run a sync",
		Description: "Runs one delta (or full) sync of the configured budget and returns its summary.",
		Tags:        []string{"Sync"},
	}, h.handle)
}

func parseTriggerSyncInput(input *TriggerSyncInput) (service.RunParams, error) {
	params := service.RunParams{FullRefresh: input.Body.FullRefresh}
	if input.Body.SinceDate != "" {
		since, err := time.Parse("2006-01-02", input.Body.SinceDate)
		if err != nil {
			return params, huma.NewError(http.StatusBadRequest, "invalid sinceDate", err)
		}
		params.SinceDate = since
	}
	return params, nil
}

func (h *TriggerSyncHandler) handle(ctx context.Context, input *TriggerSyncInput) (*TriggerSyncOutput, error) {
	logData := logging.GetLogData(ctx)
	params, err := parseTriggerSyncInput(input)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("syncMs")
	}
	result, err := h.SyncService.Run(ctx, params)
	if stopTimer != nil {
		stopTimer()
	}

	switch {
	case errors.Is(err, service.ErrRunInProgress):
		return nil, huma.Error409Conflict("a sync is already running")
	case errors.Is(err, ynab.ErrExhausted):
		return nil, huma.Error502BadGateway("YNAB kept failing, run again later", err)
	case err != nil:
		return nil, huma.NewError(http.StatusInternalServerError, "sync failed", err)
	}

	if logData != nil {
		logData.AddData("runID", result.RunID.String())
		logData.AddData("records", result.Records)
	}

	total := result.Report.Total()
	body := TriggerSyncResponseBody{
		RunID:     result.RunID.String(),
		Mode:      string(result.Mode),
		Pages:     result.Pages,
		Requests:  result.Requests,
		Records:   result.Records,
		NetAmount: result.NetAmount.StringFixed(2),
		Inserted:  total.Inserted,
		Closed:    total.Closed,
		Unchanged: total.Unchanged,
		Issues:    result.Report.Issues,
	}
	if result.CursorBefore != nil {
		before := int64(*result.CursorBefore)
		body.CursorBefore = &before
	}
	if result.CursorAfter != nil {
		after := int64(*result.CursorAfter)
		body.CursorAfter = &after
	}
	return &TriggerSyncOutput{Body: body}, nil
}
