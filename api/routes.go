package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/handlers/v1/run"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/handlers/v1/status"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/handlers/v1/transaction"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/logging"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/service"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage"
)

type Rest struct {
	Logger  *logrus.Logger
	Port    string
	Service *service.Service
	Storage *storage.Storage
}

// Routes registers every operation on a new mux.
func (r *Rest) Routes() http.Handler {
	mux := http.NewServeMux()
	api := humago.New(mux, huma.DefaultConfig("ynab-data-vault", "1.0.0"))
	api.UseMiddleware(logging.Middleware(r.Logger))

	status.NewHandler(r.Storage, r.Service.Sync).Register(api)
	run.NewTriggerSyncHandler(r.Service.Sync).Register(api)
	run.NewListRunsHandler(r.Service.Runs).Register(api)
	transaction.NewGetHistoryHandler(r.Service.Loader).Register(api)

	return mux
}

// Serve blocks until ctx is cancelled or the listener fails.
func (r *Rest) Serve(ctx context.Context) error {
	// WriteTimeout covers a sync triggered over HTTP waiting out the long
	// backoff policy.
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Routes(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(75) * time.Minute,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
		return err
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
	return nil
}
