package transaction

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/logging"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/history"
)

// GetHistoryInput is the Huma input for reading a transaction's timeline.
type GetHistoryInput struct {
	ID   string `path:"id" minLength:"1" doc:"YNAB transaction id"`
	AsOf string `query:"asOf" doc:"RFC3339 instant; when set only the version valid at that instant is returned"`
}

type GetHistoryResponseBody struct {
	Versions []TransactionVersion `json:"versions" doc:"Versions ordered by record start"`
}

type GetHistoryOutput struct {
	Body GetHistoryResponseBody
}

// historyReader is the interface for reading transaction history.
type historyReader interface {
	Versions(ctx context.Context, id string) ([]history.TransactionRow, error)
	AsOf(ctx context.Context, id string, at time.Time) (*history.TransactionRow, error)
}

// GetHistoryHandler handles GET /v1/transaction/{id}/history.
type GetHistoryHandler struct {
	History historyReader
}

func NewGetHistoryHandler(reader historyReader) *GetHistoryHandler {
	return &GetHistoryHandler{History: reader}
}

func (h *GetHistoryHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-transaction-history",
		Method:      http.MethodGet,
		Path:        "/v1/transaction/{id}/history",
		Summary:     "Get transaction history",
		Description: "Returns every recorded version of a transaction, or the single version valid at asOf.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *GetHistoryHandler) handle(ctx context.Context, input *GetHistoryInput) (*GetHistoryOutput, error) {
	logData := logging.GetLogData(ctx)
	if logData != nil {
		logData.AddData("transactionID", input.ID)
	}

	if input.AsOf != "" {
		at, err := time.Parse(time.RFC3339Nano, input.AsOf)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid asOf", err)
		}
		row, err := h.History.AsOf(ctx, input.ID, at)
		if errors.Is(err, history.ErrNotFound) {
			return nil, huma.Error404NotFound("no version of the transaction at that instant")
		}
		if err != nil {
			return nil, huma.NewError(http.StatusInternalServerError, "failed to read history", err)
		}
		return &GetHistoryOutput{Body: GetHistoryResponseBody{Versions: []TransactionVersion{fromRow(*row)}}}, nil
	}

	rows, err := h.History.Versions(ctx, input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to read history", err)
	}
	if len(rows) == 0 {
		return nil, huma.Error404NotFound("transaction not found")
	}
	if logData != nil {
		logData.AddData("versionCount", len(rows))
	}

	resp := GetHistoryResponseBody{Versions: make([]TransactionVersion, len(rows))}
	for i, row := range rows {
		resp.Versions[i] = fromRow(row)
	}
	return &GetHistoryOutput{Body: resp}, nil
}
