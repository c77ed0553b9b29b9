package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"esmlex/internal/core/config"
	"esmlex/internal/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func newTestApp(t *testing.T, withCache bool) *App {
	t.Helper()
	cfg := config.Default()
	cfg.Scan.Workers = 2
	if withCache {
		cfg.Cache.Enabled = true
		cfg.Cache.Path = filepath.Join(t.TempDir(), "cache.db")
	}
	a, err := New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestScanDirectories(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"index.js":                 "export * from './lib.js'",
		"lib.ts":                   "export const a = 1",
		"view.tsx":                 "export default () => null",
		"bundle.min.js":            "export {}",
		"README.md":                "# hi",
		"node_modules/pkg/main.js": "export {}",
	})

	a := newTestApp(t, false)
	files, err := a.ScanDirectories([]string{root})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "index.js"),
		filepath.Join(root, "lib.ts"),
		filepath.Join(root, "view.tsx"),
	}, files)

	_, err = a.ScanDirectories([]string{filepath.Join(root, "missing")})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestScan_WithCache(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.js":   "import x from './b.js'\nexport { x }",
		"b.js":   "export default 1",
		"bad.js": "var a number = 1",
	})

	a := newTestApp(t, true)
	ctx := context.Background()

	first, err := a.Scan(ctx, []string{root})
	require.NoError(t, err)
	require.Len(t, first.Files, 3)
	stats := first.Stats()
	assert.Equal(t, 3, stats.Files)
	assert.Equal(t, 1, stats.Failed)
	assert.Zero(t, stats.CacheHits)
	assert.Equal(t, 1, stats.Imports)
	assert.Equal(t, 2, stats.Exports)

	failures := first.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, filepath.Join(root, "bad.js"), failures[0].Path)
	assert.True(t, errors.IsCode(failures[0].Err, errors.CodeSyntax))

	second, err := a.Scan(ctx, []string{root})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Stats().CacheHits, "valid files come from the cache")
	for i := range first.Files {
		if first.Files[i].Err == nil {
			assert.Equal(t, first.Files[i].Result, second.Files[i].Result)
		}
	}

	runs, err := a.Runs(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.RunID, runs[0].ID)
	assert.Equal(t, 3, runs[0].FileCount)
	assert.Equal(t, 1, runs[0].FailedCount)
}

func TestRuns_RequiresCache(t *testing.T) {
	a := newTestApp(t, false)
	_, err := a.Runs(5)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotSupported))
}

func TestLexFiles_SizeLimit(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"big.js": "export const big = '0123456789'"})

	a := newTestApp(t, false)
	a.Config.Scan.MaxFileBytes = 8

	reports := a.LexFiles(context.Background(), []string{filepath.Join(root, "big.js")})
	require.Len(t, reports, 1)
	require.Error(t, reports[0].Err)
	assert.True(t, errors.IsCode(reports[0].Err, errors.CodeValidationError))
}

func TestHandleChanges(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"live.js": "import('./x.js')"})

	a := newTestApp(t, false)
	gone := filepath.Join(root, "gone.js")
	live := filepath.Join(root, "live.js")

	update := a.HandleChanges(context.Background(), []string{gone, live})
	assert.Equal(t, []string{gone}, update.Removed)
	require.Len(t, update.Files, 1)
	require.NoError(t, update.Files[0].Err)
	assert.Equal(t, "javascript", update.Files[0].Language)
	assert.True(t, update.Files[0].Result.Facade)
	require.Len(t, update.Files[0].Result.Imports, 1)
}
