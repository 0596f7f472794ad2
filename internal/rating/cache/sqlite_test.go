package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratings.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Set("dune", []byte(`{"score":8.6}`), 0))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	data, ok := reopened.Get("dune")
	assert.True(t, ok, "record must survive reopening the store")
	assert.Equal(t, []byte(`{"score":8.6}`), data)
}

func TestSQLiteStoreMissingKey(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "ratings.db"))
	require.NoError(t, err)
	defer store.Close()

	_, ok := store.Get("nope")
	assert.False(t, ok)
}

func TestSQLiteStoreReplaceExisting(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "ratings.db"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set("dune", []byte("old"), 0))
	require.NoError(t, store.Set("dune", []byte("new"), 0))

	data, ok := store.Get("dune")
	require.True(t, ok)
	assert.Equal(t, []byte("new"), data)
}

func TestSQLiteStoreTTLExpiry(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "ratings.db"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set("short", []byte("x"), time.Millisecond))
	require.NoError(t, store.Set("forever", []byte("y"), 0))

	time.Sleep(20 * time.Millisecond)

	_, ok := store.Get("short")
	assert.False(t, ok, "expired record must not be returned")

	_, ok = store.Get("forever")
	assert.True(t, ok, "zero ttl means no expiry")
}

func TestSQLiteStoreClear(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "ratings.db"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set("dune", []byte("x"), 0))
	require.NoError(t, store.Clear())

	_, ok := store.Get("dune")
	assert.False(t, ok)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.Set("dune", []byte("x"), 0))
	data, ok := store.Get("dune")
	assert.True(t, ok)
	assert.Equal(t, []byte("x"), data)

	require.NoError(t, store.Clear())
	_, ok = store.Get("dune")
	assert.False(t, ok)
}
