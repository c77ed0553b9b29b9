package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"esmlex/internal/engine/lexer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleResult() *lexer.Result {
	name := "./dep.js"
	exported := "default"
	return &lexer.Result{
		Imports: []lexer.Import{{
			Kind:           lexer.ImportStatic,
			Name:           &name,
			Start:          8,
			End:            16,
			StatementStart: 0,
			StatementEnd:   17,
		}},
		Exports: []lexer.Export{{
			Name:  exported,
			Start: 33,
			End:   40,
		}},
		Facade:          true,
		HasModuleSyntax: true,
	}
}

func TestKey(t *testing.T) {
	a := Key("javascript", []byte("export {}"))
	assert.Len(t, a, 64)
	assert.Equal(t, a, Key("javascript", []byte("export {}")))
	assert.NotEqual(t, a, Key("typescript", []byte("export {}")))
	assert.NotEqual(t, a, Key("javascript", []byte("export { }")))
}

func TestStore_GetPut(t *testing.T) {
	store := openTestStore(t)
	key := Key("javascript", []byte("src"))

	got, ok, err := store.Get(key)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)

	want := sampleResult()
	require.NoError(t, store.Put(key, "javascript", want))

	got, ok, err = store.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	// Overwrite keeps a single row.
	want.Facade = false
	require.NoError(t, store.Put(key, "javascript", want))
	got, ok, err = store.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, got.Facade)
}

func TestStore_Prune(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Put("k1", "javascript", sampleResult()))

	n, err := store.Prune(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = store.Prune(time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, ok, err := store.Get("k1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_Runs(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first, err := store.RecordRun(Run{Root: "/a", StartedAt: base, Duration: 1500 * time.Millisecond, FileCount: 3, ImportCount: 7})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	_, err = store.RecordRun(Run{ID: "fixed", Root: "/b", StartedAt: base.Add(time.Minute), FileCount: 1, FailedCount: 1})
	require.NoError(t, err)

	runs, err := store.Runs(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "fixed", runs[0].ID)
	assert.Equal(t, 1, runs[0].FailedCount)
	assert.Equal(t, first.ID, runs[1].ID)
	assert.Equal(t, 1500*time.Millisecond, runs[1].Duration)
	assert.Equal(t, 7, runs[1].ImportCount)
	assert.True(t, runs[1].StartedAt.Equal(base))

	limited, err := store.Runs(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestOpen_RejectsDirectory(t *testing.T) {
	_, err := Open(t.TempDir())
	require.Error(t, err)

	_, err = Open("  ")
	require.Error(t, err)
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Put("k", "tsx", sampleResult()))
	require.NoError(t, store.Close())

	_, err = os.Stat(path)
	require.NoError(t, err)

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	_, ok, err := reopened.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStore_MemoryTier(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "cache.db"), WithMemoryEntries(2))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	want := sampleResult()
	require.NoError(t, store.Put("k1", "javascript", want))

	got, ok, err := store.Get("k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, want, got, "fresh entries are served from memory")

	_, err = store.Prune(time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, store.memory.len())

	require.NoError(t, store.Put("k2", "javascript", want))
	store.memory.clear()
	got, ok, err = store.Get("k2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotSame(t, want, got, "a sqlite hit decodes a new value")
	assert.Equal(t, want, got)
	assert.Equal(t, 1, store.memory.len(), "sqlite hits are promoted into memory")
}
