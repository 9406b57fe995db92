package actions

import (
	"context"

	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage"
)

// IAction is one unit of work performed inside a single database
// transaction. Returning an error rolls the transaction back.
type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}
