package actions

import (
	"context"

	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/staging"
)

// StageEntities lands raw accounts or categories in etl_stage.entities_json.
type StageEntities struct {
	Kind      string
	Envelopes []staging.Envelope
}

func (s *StageEntities) Perform(ctx context.Context, writer *storage.Writer) error {
	if len(s.Envelopes) == 0 {
		return nil
	}
	return writer.Staging.UpsertEntities(ctx, s.Kind, s.Envelopes)
}
