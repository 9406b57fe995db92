package cursor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) (*FileStore, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	return NewFileStore(t.TempDir(), "budget-1", logger), hook
}

func TestFileStore_LoadMissingIsAbsent(t *testing.T) {
	store, hook := newTestFileStore(t)

	c, ok := store.Load(context.Background())

	assert.False(t, ok)
	assert.Equal(t, Cursor(0), c)
	assert.Empty(t, hook.AllEntries())
}

func TestFileStore_SaveThenLoad(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, 41))
	require.NoError(t, store.Save(ctx, 42))

	c, ok := store.Load(ctx)
	assert.True(t, ok)
	assert.Equal(t, Cursor(42), c)

	entries, err := os.ReadDir(store.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestFileStore_CursorsArePerBudget(t *testing.T) {
	dir := t.TempDir()
	logger, _ := test.NewNullLogger()
	first := NewFileStore(dir, "budget-1", logger)
	second := NewFileStore(dir, "budget-2", logger)
	ctx := context.Background()

	require.NoError(t, first.Save(ctx, 7))

	_, ok := second.Load(ctx)
	assert.False(t, ok)
}

func TestFileStore_CorruptFileIsAbsentWithWarning(t *testing.T) {
	store, hook := newTestFileStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir, "budget-1.json"), []byte("{not json"), 0o644))

	_, ok := store.Load(context.Background())

	assert.False(t, ok)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "CursorStore.Load.unparsable", hook.LastEntry().Message)
}

func TestFileStore_LeftoverTempFileDoesNotCorruptCursor(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, 100))

	// a crash between write and rename leaves only a temp file behind
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir, "budget-1.123.tmp"), []byte(`{"budget_id":"budget-1","server_knowledge":200}`), 0o644))

	c, ok := store.Load(ctx)
	assert.True(t, ok)
	assert.Equal(t, Cursor(100), c)
}

func TestFileStore_Reset(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, 5))

	require.NoError(t, store.Reset(ctx))
	_, ok := store.Load(ctx)
	assert.False(t, ok)

	assert.NoError(t, store.Reset(ctx), "resetting a missing cursor is fine")
}
