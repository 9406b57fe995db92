package status

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/logging"
)

type StatusResponseBody struct {
	Status      string `json:"status" enum:"ok,degraded"`
	Database    string `json:"database" enum:"ok,unreachable"`
	SyncRunning bool   `json:"syncRunning"`
}

type StatusOutput struct {
	Body StatusResponseBody
}

type pinger interface {
	Ping(ctx context.Context) error
}

type runState interface {
	Running() bool
}

type Handler struct {
	DB   pinger
	Sync runState
}

func NewHandler(db pinger, sync runState) *Handler {
	return &Handler{DB: db, Sync: sync}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "status",
		Method:      http.MethodGet,
		Path:        "/status",
		Summary:     "Service status",
		Tags:        []string{"Status"},
	}, h.handle)
}

func (h *Handler) handle(ctx context.Context, _ *struct{}) (*StatusOutput, error) {
	body := StatusResponseBody{Status: "ok", Database: "ok", SyncRunning: h.Sync.Running()}
	if err := h.DB.Ping(ctx); err != nil {
		body.Status = "degraded"
		body.Database = "unreachable"
		if logData := logging.GetLogData(ctx); logData != nil {
			logData.AddData("pingError", err.Error())
		}
	}
	return &StatusOutput{Body: body}, nil
}
