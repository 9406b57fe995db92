package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/syncrun"
)

type RecordRunStart struct {
	Run syncrun.Run
}

func (r *RecordRunStart) Perform(ctx context.Context, writer *storage.Writer) error {
	return writer.Runs.Start(ctx, r.Run)
}

type RecordRunFinish struct {
	RunID  uuid.UUID
	Finish syncrun.Finish
}

func (r *RecordRunFinish) Perform(ctx context.Context, writer *storage.Writer) error {
	return writer.Runs.Finish(ctx, r.RunID, r.Finish)
}
