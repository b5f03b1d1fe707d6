package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/tabletop/internal/storage/sqlite"
	"github.com/cory-johannsen/tabletop/internal/storage/storagetest"
)

func openTemp(t *testing.T) (*sqlite.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "tabletop.db")
	store, err := sqlite.Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestStore(t *testing.T) {
	store, _ := openTemp(t)
	storagetest.Run(t, store)
}

func TestStore_InMemory(t *testing.T) {
	store, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	storagetest.Run(t, store)
}

func TestStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	store, path := openTemp(t)
	created, err := store.Create(ctx, storagetest.Character("Ilse"))
	require.NoError(t, err)
	require.NoError(t, store.SaveCorruption(ctx, created.Key(), 6))
	require.NoError(t, store.Close())

	reopened, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()
	got, err := reopened.Load(ctx, created.Key())
	require.NoError(t, err)
	assert.Equal(t, 6, got.Corruption)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := sqlite.Open(context.Background(), "  ")
	assert.Error(t, err)
}
