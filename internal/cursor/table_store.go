package cursor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"
)

// TableStore keeps cursors in ynab_meta.sync_cursors, one row per budget.
type TableStore struct {
	exec     bob.Executor
	budgetID string
	log      logrus.FieldLogger
}

var _ Store = (*TableStore)(nil)

func NewTableStore(exec bob.Executor, budgetID string, log logrus.FieldLogger) *TableStore {
	return &TableStore{exec: exec, budgetID: budgetID, log: log}
}

func (s *TableStore) Load(ctx context.Context) (Cursor, bool) {
	query := psql.Select(
		sm.Columns("server_knowledge"),
		sm.From(psql.Quote("ynab_meta", "sync_cursors")),
		sm.Where(psql.Quote("budget_id").EQ(psql.Arg(s.budgetID))),
	)
	knowledge, err := bob.One(ctx, s.exec, query, scan.SingleColumnMapper[int64])
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false
	}
	if err != nil {
		s.log.WithError(err).WithField("budgetID", s.budgetID).Warn("CursorStore.Load.unreadable")
		return 0, false
	}
	return Cursor(knowledge), true
}

// Save is a single upsert statement, so the row is replaced atomically.
func (s *TableStore) Save(ctx context.Context, c Cursor) error {
	query := psql.RawQuery(`
		INSERT INTO ynab_meta.sync_cursors (budget_id, server_knowledge, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (budget_id) DO UPDATE
		SET server_knowledge = EXCLUDED.server_knowledge,
		    updated_at = EXCLUDED.updated_at`,
		s.budgetID, int64(c),
	)
	if _, err := bob.Exec(ctx, s.exec, query); err != nil {
		return fmt.Errorf("cursor: save: %w", err)
	}
	return nil
}

func (s *TableStore) Reset(ctx context.Context) error {
	query := psql.RawQuery(`DELETE FROM ynab_meta.sync_cursors WHERE budget_id = ?`, s.budgetID)
	if _, err := bob.Exec(ctx, s.exec, query); err != nil {
		return fmt.Errorf("cursor: reset: %w", err)
	}
	return nil
}
