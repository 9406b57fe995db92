package cursor

import (
	"context"
)

// Cursor is the server_knowledge value returned by the last durably loaded
// batch. Upstream treats it as opaque; it only ever moves forward.
type Cursor int64

// Store persists the cursor of one budget. Load reports absence with false;
// an unreadable cursor is treated as absent so the next run does a full sync.
//
//go:generate mockery --name Store --output mock_Store.go
type Store interface {
	Load(ctx context.Context) (Cursor, bool)
	Save(ctx context.Context, c Cursor) error
	Reset(ctx context.Context) error
}
