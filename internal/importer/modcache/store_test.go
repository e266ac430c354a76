package modcache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	dir := t.TempDir()
	c, err := Open(filepath.Join(dir, "modcache.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestLookupMissesWhenNothingStored(t *testing.T) {
	c := openTestCache(t)
	_, ok, err := c.Lookup("/some/root.dl")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStoreThenLookupRoundTrips(t *testing.T) {
	c := openTestCache(t)
	dir := t.TempDir()

	dep := filepath.Join(dir, "dep.dl")
	root := filepath.Join(dir, "root.dl")
	require.NoError(t, os.WriteFile(dep, []byte("#message a(u32 X)."), 0o644))
	require.NoError(t, os.WriteFile(root, []byte("#import \"dep.dl\"."), 0o644))

	order := []string{dep, root}
	require.NoError(t, c.Store(root, order, 1))

	got, ok, err := c.Lookup(root)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, order, got)
}

func TestLookupMissesAfterFileIsModified(t *testing.T) {
	c := openTestCache(t)
	dir := t.TempDir()

	dep := filepath.Join(dir, "dep.dl")
	root := filepath.Join(dir, "root.dl")
	require.NoError(t, os.WriteFile(dep, []byte("#message a(u32 X)."), 0o644))
	require.NoError(t, os.WriteFile(root, []byte("#import \"dep.dl\"."), 0o644))

	order := []string{dep, root}
	require.NoError(t, c.Store(root, order, 1))

	// Touch dep.dl with new content so its mtime advances.
	require.NoError(t, os.WriteFile(dep, []byte("#message a(u32 X, u32 Y)."), 0o644))

	_, ok, err := c.Lookup(root)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLookupMissesWhenFileIsDeleted(t *testing.T) {
	c := openTestCache(t)
	dir := t.TempDir()

	dep := filepath.Join(dir, "dep.dl")
	root := filepath.Join(dir, "root.dl")
	require.NoError(t, os.WriteFile(dep, []byte("#message a(u32 X)."), 0o644))
	require.NoError(t, os.WriteFile(root, []byte("#import \"dep.dl\"."), 0o644))

	require.NoError(t, c.Store(root, []string{dep, root}, 1))
	require.NoError(t, os.Remove(dep))

	_, ok, err := c.Lookup(root)
	require.NoError(t, err)
	require.False(t, ok)
}
