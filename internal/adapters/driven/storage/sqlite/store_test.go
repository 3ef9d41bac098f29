package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/spotidump/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	return store
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dump")

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, FileName), store.Path())
	_, err = os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_EmptyDir(t *testing.T) {
	_, err := NewStore("")
	assert.Error(t, err)
}

func TestNewStore_MigrationsRecorded(t *testing.T) {
	store := setupTestStore(t)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)
}

func TestNewStore_ReopenKeepsProgress(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Journal().Mark(ctx, domain.OperationImport, "playlist:Road_Trip"))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	done, err := reopened.Journal().Done(ctx, domain.OperationImport, "playlist:Road_Trip")
	require.NoError(t, err)
	assert.True(t, done, "progress must survive a restart")
}

func TestJournal_MarkAndDone(t *testing.T) {
	j := setupTestStore(t).Journal()
	ctx := context.Background()

	done, err := j.Done(ctx, domain.OperationExport, "saved_tracks")
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, j.Mark(ctx, domain.OperationExport, "saved_tracks"))
	require.NoError(t, j.Mark(ctx, domain.OperationExport, "saved_tracks"), "marking twice is allowed")

	done, err = j.Done(ctx, domain.OperationExport, "saved_tracks")
	require.NoError(t, err)
	assert.True(t, done)

	done, err = j.Done(ctx, domain.OperationPurge, "saved_tracks")
	require.NoError(t, err)
	assert.False(t, done)
}

func TestJournal_Reset(t *testing.T) {
	j := setupTestStore(t).Journal()
	ctx := context.Background()

	require.NoError(t, j.Mark(ctx, domain.OperationImport, "playlist:A"))
	require.NoError(t, j.Mark(ctx, domain.OperationImport, "playlist:B"))
	require.NoError(t, j.Mark(ctx, domain.OperationPurge, "playlist:A"))

	require.NoError(t, j.Reset(ctx, domain.OperationImport))

	for _, key := range []string{"playlist:A", "playlist:B"} {
		done, err := j.Done(ctx, domain.OperationImport, key)
		require.NoError(t, err)
		assert.False(t, done)
	}
	done, err := j.Done(ctx, domain.OperationPurge, "playlist:A")
	require.NoError(t, err)
	assert.True(t, done)
}

func TestJournal_ClosedStore(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.Journal().Done(context.Background(), domain.OperationExport, "x")
	assert.Error(t, err)
}
