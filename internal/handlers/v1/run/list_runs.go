package run

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/syncrun"
)

type ListRunsInput struct {
	Limit int `query:"limit" minimum:"0" maximum:"100" doc:"Number of runs to return, newest first"`
}

type ListRunsResponseBody struct {
	Runs []Run `json:"runs"`
}

type ListRunsOutput struct {
	Body ListRunsResponseBody
}

// runLister is the interface for reading the sync run log.
type runLister interface {
	List(ctx context.Context, limit int) ([]syncrun.Run, error)
}

// ListRunsHandler handles GET /v1/sync/runs.
type ListRunsHandler struct {
	Runs runLister
}

func NewListRunsHandler(runs runLister) *ListRunsHandler {
	return &ListRunsHandler{Runs: runs}
}

func (h *ListRunsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-sync-runs",
		Method:      http.MethodGet,
		Path:        "/v1/sync/runs",
		Summary:     "List sync runs",
		Tags:        []string{"Sync"},
	}, h.handle)
}

func (h *ListRunsHandler) handle(ctx context.Context, input *ListRunsInput) (*ListRunsOutput, error) {
	runs, err := h.Runs.List(ctx, input.Limit)
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to list runs", err)
	}

	resp := ListRunsResponseBody{Runs: make([]Run, len(runs))}
	for i, r := range runs {
		resp.Runs[i] = fromRun(r)
	}
	return &ListRunsOutput{Body: resp}, nil
}
