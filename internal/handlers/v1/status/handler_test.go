package status

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type fakeRunState bool

func (f fakeRunState) Running() bool { return bool(f) }

func get(t *testing.T, h *Handler) (int, StatusResponseBody) {
	t.Helper()
	_, api := humatest.New(t)
	h.Register(api)
	resp := api.Get("/status")
	var body StatusResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.Code, body
}

func TestHandler_Healthy(t *testing.T) {
	code, body := get(t, NewHandler(fakePinger{}, fakeRunState(true)))

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
	assert.True(t, body.SyncRunning)
}

func TestHandler_DatabaseDown(t *testing.T) {
	code, body := get(t, NewHandler(fakePinger{err: errors.New("dial tcp: refused")}, fakeRunState(false)))

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "unreachable", body.Database)
}
