package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpointStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "checkpoint.json")
	store := NewCheckpointStore(path, true)

	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	cursor := uint64(1633046400123456789)
	require.NoError(t, store.Save(Checkpoint{AccountID: "alice.near", NextCursor: &cursor, Pages: 3}))

	cp, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "alice.near", cp.AccountID)
	require.NotNil(t, cp.NextCursor)
	assert.Equal(t, cursor, *cp.NextCursor)
	assert.Equal(t, 3, cp.Pages)
	assert.NotEmpty(t, cp.UpdatedAt)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCheckpointStoreDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	store := NewCheckpointStore(path, false)

	require.NoError(t, store.Save(Checkpoint{AccountID: "alice.near", Done: true}))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckpointStoreRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	store := NewCheckpointStore(path, true)

	assert.Error(t, store.Save(Checkpoint{Pages: 1, Done: true}))
	assert.Error(t, store.Save(Checkpoint{AccountID: "alice.near", Pages: 2}))

	require.NoError(t, os.WriteFile(path, []byte(`{"account_id":"alice.near","pages":2}`), 0o644))
	_, _, err := store.Load()
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))
	_, _, err = store.Load()
	assert.Error(t, err)
}
