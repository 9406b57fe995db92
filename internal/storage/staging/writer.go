package staging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
)

// Envelope is the raw payload of one upstream record.
type Envelope struct {
	ID      string
	Payload json.RawMessage
}

// IStagingWriter lands raw payloads before historization and marks them
// processed once their history rows are written.
//
//go:generate mockery --name IStagingWriter --output mock_IStagingWriter.go
type IStagingWriter interface {
	UpsertTransactions(ctx context.Context, envelopes []Envelope) error
	UpsertEntities(ctx context.Context, kind string, envelopes []Envelope) error
	MarkProcessed(ctx context.Context, ids []string, at time.Time) error
}

var _ IStagingWriter = (*Writer)(nil)

type Writer struct {
	exec bob.Executor
}

func NewWriter(tx bob.Executor) *Writer {
	return &Writer{exec: tx}
}

// UpsertTransactions stores the payload and clears processed_datetime, so a
// record re-fetched after a crash is picked up again.
func (w *Writer) UpsertTransactions(ctx context.Context, envelopes []Envelope) error {
	for _, e := range envelopes {
		query := psql.RawQuery(`
			INSERT INTO etl_stage.transactions_json (id, transaction_data, created_datetime, processed_datetime)
			VALUES (?, ?::jsonb, CURRENT_TIMESTAMP, NULL)
			ON CONFLICT (id) DO UPDATE
			SET transaction_data = EXCLUDED.transaction_data,
			    created_datetime = EXCLUDED.created_datetime,
			    processed_datetime = NULL`,
			e.ID, string(e.Payload),
		)
		if _, err := bob.Exec(ctx, w.exec, query); err != nil {
			return fmt.Errorf("staging.UpsertTransactions %s: %w", e.ID, err)
		}
	}
	return nil
}

// UpsertEntities stores accounts, categories and the like keyed by kind.
func (w *Writer) UpsertEntities(ctx context.Context, kind string, envelopes []Envelope) error {
	for _, e := range envelopes {
		query := psql.RawQuery(`
			INSERT INTO etl_stage.entities_json (kind, id, entity_data, created_datetime, processed_datetime)
			VALUES (?, ?, ?::jsonb, CURRENT_TIMESTAMP, NULL)
			ON CONFLICT (kind, id) DO UPDATE
			SET entity_data = EXCLUDED.entity_data,
			    created_datetime = EXCLUDED.created_datetime,
			    processed_datetime = NULL`,
			kind, e.ID, string(e.Payload),
		)
		if _, err := bob.Exec(ctx, w.exec, query); err != nil {
			return fmt.Errorf("staging.UpsertEntities %s/%s: %w", kind, e.ID, err)
		}
	}
	return nil
}

func (w *Writer) MarkProcessed(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	query := psql.RawQuery(
		`UPDATE etl_stage.transactions_json SET processed_datetime = ? WHERE id = ANY(?)`,
		at, pq.Array(ids),
	)
	if _, err := bob.Exec(ctx, w.exec, query); err != nil {
		return fmt.Errorf("staging.MarkProcessed: %w", err)
	}
	return nil
}
