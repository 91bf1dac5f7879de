package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rodrigoasouza93/cep-form/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, store storage.Store) {
	t.Helper()

	_, ok, err := store.GetItem(storage.StorageKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SetItem(storage.StorageKey, `{"uf":"SP"}`))
	require.NoError(t, store.SetItem(storage.StorageKey, `{"uf":"RJ"}`))

	value, ok, err := store.GetItem(storage.StorageKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"uf":"RJ"}`, value)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, storage.NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewFileStore(dir, "session-1")
	require.NoError(t, err)
	testStore(t, store)

	t.Run("should survive reopening", func(t *testing.T) {
		reopened, err := storage.NewFileStore(dir, "session-1")
		require.NoError(t, err)
		value, ok, err := reopened.GetItem(storage.StorageKey)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `{"uf":"RJ"}`, value)
	})

	t.Run("should keep sessions apart", func(t *testing.T) {
		other, err := storage.NewFileStore(dir, "session-2")
		require.NoError(t, err)
		_, ok, err := other.GetItem(storage.StorageKey)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("should reject path-like session names", func(t *testing.T) {
		_, err := storage.NewFileStore(dir, "../escape")
		assert.Error(t, err)
	})

	t.Run("should report corrupt files and recover on write", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644))
		broken, err := storage.NewFileStore(dir, "broken")
		require.NoError(t, err)

		_, _, err = broken.GetItem(storage.StorageKey)
		assert.ErrorIs(t, err, storage.ErrCorrupt)

		require.NoError(t, broken.SetItem(storage.StorageKey, "{}"))
		value, ok, err := broken.GetItem(storage.StorageKey)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "{}", value)
	})
}

func TestNewOpener(t *testing.T) {
	t.Run("should open memory stores without a directory", func(t *testing.T) {
		open, err := storage.NewOpener("")
		require.NoError(t, err)
		store, err := open("abc")
		require.NoError(t, err)
		assert.IsType(t, &storage.MemoryStore{}, store)
	})

	t.Run("should open file stores under the directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested")
		open, err := storage.NewOpener(dir)
		require.NoError(t, err)
		store, err := open("abc")
		require.NoError(t, err)
		require.NoError(t, store.SetItem("k", "v"))
		_, err = os.Stat(filepath.Join(dir, "abc.json"))
		assert.NoError(t, err)
	})
}
