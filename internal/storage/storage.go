package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"

	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/config"
)

type Storage struct {
	DB     *sql.DB
	bobDB  bob.DB
	Reader *Reader
}

func NewStorage(env *config.Config) (*Storage, error) {
	return Open(env.PostgresURL())
}

// Open connects with a lib/pq connection string.
func Open(connStr string) (*Storage, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("storage: open postgres: %w", err)
	}
	bobDB := bob.NewDB(db)
	return &Storage{
		DB:     db,
		bobDB:  bobDB,
		Reader: NewReader(bobDB),
	}, nil
}

// Executor exposes the pooled connection for stores that write outside of
// the operator, such as the cursor table.
func (s *Storage) Executor() bob.Executor {
	return s.bobDB
}

// Write begins a transaction and returns the writers bound to it. The caller
// must Commit or Rollback.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	tx, err := s.bobDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("storage: begin: %w", err)
	}
	return NewWriter(tx), nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *Storage) Close() error {
	return s.DB.Close()
}
