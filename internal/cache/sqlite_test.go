package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteBackendRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	backend, err := OpenSQLite(path)
	require.NoError(t, err)
	defer backend.Close()

	require.NoError(t, backend.Set("k1", "v1"))

	v, ok, err := backend.Get("k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v1", v)

	// Upsert replaces the value
	require.NoError(t, backend.Set("k1", "v2"))
	v, ok, err = backend.Get("k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", v)
}

func TestSQLiteBackendMissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	backend, err := OpenSQLite(path)
	require.NoError(t, err)
	defer backend.Close()

	_, ok, err := backend.Get("absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteBackendDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	backend, err := OpenSQLite(path)
	require.NoError(t, err)
	defer backend.Close()

	require.NoError(t, backend.Set("k1", "v1"))
	require.NoError(t, backend.Delete("k1"))

	_, ok, err := backend.Get("k1")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting an absent key is not an error
	require.NoError(t, backend.Delete("k1"))
}

func TestSQLiteBackendKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	backend, err := OpenSQLite(path)
	require.NoError(t, err)
	defer backend.Close()

	require.NoError(t, backend.Set("a", "1"))
	require.NoError(t, backend.Set("b", "2"))

	keys, err := backend.Keys()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, keys)
}

func TestSQLiteBackendPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	backend, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, backend.Set("k1", "v1"))
	require.NoError(t, backend.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.Get("k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v1", v)
}
