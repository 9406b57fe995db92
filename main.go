package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/TheCaffeinatedJourney/ynab-data-vault/api"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/archive"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/config"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/cursor"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/logging"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/operator"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/service"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/ynab"
)

const (
	exitFailure   = 1
	exitExhausted = 2
)

func main() {
	logger := logging.SetupLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:  "ynab-data-vault",
		Usage: "incremental YNAB sync into SCD Type 2 history tables",
		Commands: []*cli.Command{
			{
				Name:  "sync",
				Usage: "run one sync of the configured budget",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "full-refresh", Usage: "discard the cursor and fetch everything since --since"},
					&cli.StringFlag{Name: "since", Usage: "earliest transaction date, YYYY-MM-DD (default SINCE_DATE)"},
				},
				Action: func(c *cli.Context) error { return runSync(c, logger) },
			},
			{
				Name:   "serve",
				Usage:  "serve the HTTP API",
				Action: func(c *cli.Context) error { return runServe(c, logger) },
			},
			{
				Name:   "migrate",
				Usage:  "apply database migrations",
				Action: func(c *cli.Context) error { return runMigrate(logger) },
			},
			{
				Name:   "reset-cursor",
				Usage:  "forget the stored cursor so the next sync is a full one",
				Action: func(c *cli.Context) error { return runResetCursor(c, logger) },
			},
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		logger.WithError(err).Error("main.Run.failed")
		os.Exit(exitFailure)
	}
}

func runSync(c *cli.Context, logger *logrus.Logger) error {
	rt, err := newRuntime(c.Context, logger)
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}
	defer rt.Close()

	params := service.RunParams{FullRefresh: c.Bool("full-refresh")}
	if v := c.String("since"); v != "" {
		since, err := config.ParseSinceDate(v)
		if err != nil {
			return cli.Exit(fmt.Sprintf("--since: %v", err), exitFailure)
		}
		params.SinceDate = since
	}

	_, err = rt.service.Sync.Run(c.Context, params)
	switch {
	case errors.Is(err, ynab.ErrExhausted):
		// whatever was fetched is stored; the next run resumes from the old cursor
		return cli.Exit(err.Error(), exitExhausted)
	case err != nil:
		return cli.Exit(err.Error(), exitFailure)
	}
	return nil
}

func runServe(c *cli.Context, logger *logrus.Logger) error {
	rt, err := newRuntime(c.Context, logger)
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}
	defer rt.Close()

	httpRest := api.Rest{
		Logger:  logger,
		Port:    rt.env.HTTPPort,
		Service: rt.service,
		Storage: rt.storage,
	}
	return httpRest.Serve(c.Context)
}

func runMigrate(logger *logrus.Logger) error {
	env, err := config.ProcessEnvironmentVariables()
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}
	store, err := storage.NewStorage(env)
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}
	defer store.Close()

	if _, _, err := store.Migrate(logger); err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}
	return nil
}

func runResetCursor(c *cli.Context, logger *logrus.Logger) error {
	env, err := config.ProcessEnvironmentVariables()
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}
	store, err := storage.NewStorage(env)
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}
	defer store.Close()

	if err := newCursorStore(env, store, logger).Reset(c.Context); err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}
	logger.WithField("budgetID", env.BudgetID).Info("main.ResetCursor.done")
	return nil
}

// runtime is everything a sync or the API server needs.
type runtime struct {
	env       *config.Config
	storage   *storage.Storage
	delegator *operator.OperatorDelegator
	archiver  *archive.Archiver
	service   *service.Service
}

func newRuntime(ctx context.Context, logger *logrus.Logger) (*runtime, error) {
	env, err := config.ProcessEnvironmentVariables()
	if err != nil {
		return nil, fmt.Errorf("config.ProcessEnvironmentVariables: %w", err)
	}
	logging.SetLevel(logger, env.LogLevel)
	if env.BudgetID == "" {
		return nil, errors.New("BUDGET_ID is required")
	}

	client, err := ynab.NewClient(ynab.Config{
		BaseURL:         env.YnabBaseURL,
		Token:           env.YnabAPIKey,
		BudgetID:        env.BudgetID,
		Timeout:         env.HTTPTimeout,
		RequestsPerHour: env.RequestsPerHour,
	}, ynab.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStorage(env)
	if err != nil {
		return nil, err
	}
	rt := &runtime{env: env, storage: store}

	rt.delegator = operator.NewOperatorDelegator(store, 1, logger)
	rt.delegator.Start()

	options := service.SyncOptions{SinceDate: env.SinceDate, SyncEntities: env.SyncEntities}
	if env.ArchiveBucket != "" {
		rt.archiver, err = archive.NewGCSArchiver(ctx, env.ArchiveBucket, env.BudgetID)
		if err != nil {
			rt.Close()
			return nil, err
		}
		options.Archive = rt.archiver
	}

	loader := service.NewLoader(rt.delegator, store.Reader, env.StrictIntegrity, logger)
	syncService := service.NewSyncService(client, newCursorStore(env, store, logger), loader, rt.delegator, options, logger)
	rt.service = service.NewService(syncService, loader, store.Reader.Runs, env.BudgetID)
	return rt, nil
}

func newCursorStore(env *config.Config, store *storage.Storage, logger logrus.FieldLogger) cursor.Store {
	if env.CursorBackend == config.CursorBackendTable {
		return cursor.NewTableStore(store.Executor(), env.BudgetID, logger)
	}
	return cursor.NewFileStore(env.CursorDir, env.BudgetID, logger)
}

func (r *runtime) Close() {
	if r.delegator != nil {
		r.delegator.Stop()
	}
	if r.archiver != nil {
		_ = r.archiver.Close()
	}
	_ = r.storage.Close()
}
