package cursor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

type fileContents struct {
	BudgetID        string    `json:"budget_id"`
	ServerKnowledge int64     `json:"server_knowledge"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// FileStore keeps one JSON file per budget under Dir.
type FileStore struct {
	Dir      string
	BudgetID string
	Log      logrus.FieldLogger

	now func() time.Time
}

var _ Store = (*FileStore)(nil)

func NewFileStore(dir, budgetID string, log logrus.FieldLogger) *FileStore {
	return &FileStore{Dir: dir, BudgetID: budgetID, Log: log, now: time.Now}
}

func (s *FileStore) path() string {
	return filepath.Join(s.Dir, s.BudgetID+".json")
}

func (s *FileStore) Load(_ context.Context) (Cursor, bool) {
	data, err := os.ReadFile(s.path())
	if errors.Is(err, os.ErrNotExist) {
		return 0, false
	}
	if err != nil {
		s.Log.WithError(err).WithField("path", s.path()).Warn("CursorStore.Load.unreadable")
		return 0, false
	}

	var contents fileContents
	if err := json.Unmarshal(data, &contents); err != nil {
		s.Log.WithError(err).WithField("path", s.path()).Warn("CursorStore.Load.unparsable")
		return 0, false
	}
	if contents.BudgetID != s.BudgetID {
		s.Log.WithFields(logrus.Fields{
			"path":     s.path(),
			"budgetID": contents.BudgetID,
		}).Warn("CursorStore.Load.budget mismatch")
		return 0, false
	}
	return Cursor(contents.ServerKnowledge), true
}

// Save replaces the cursor file atomically: the new value is written to a
// temporary file in the same directory, synced and renamed over the old one.
// A crash leaves either the old or the new cursor, never a torn file.
func (s *FileStore) Save(_ context.Context, c Cursor) error {
	data, err := json.Marshal(fileContents{
		BudgetID:        s.BudgetID,
		ServerKnowledge: int64(c),
		UpdatedAt:       s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("cursor: marshal: %w", err)
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("cursor: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(s.Dir, s.BudgetID+".*.tmp")
	if err != nil {
		return fmt.Errorf("cursor: create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("cursor: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("cursor: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cursor: close: %w", err)
	}
	if err := os.Rename(tmpName, s.path()); err != nil {
		return fmt.Errorf("cursor: rename: %w", err)
	}

	return syncDir(s.Dir)
}

func (s *FileStore) Reset(_ context.Context) error {
	err := os.Remove(s.path())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("cursor: reset: %w", err)
	}
	return nil
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("cursor: open dir: %w", err)
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		return fmt.Errorf("cursor: sync dir: %w", err)
	}
	return nil
}
