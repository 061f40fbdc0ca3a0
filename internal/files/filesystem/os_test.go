package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestOSFileSystem_Open(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "file.csv"), "a\n1\n")
	fsys := NewOSFileSystem()

	d, err := fsys.Open(dir)
	require.NoError(t, err)
	absDir, _ := filepath.Abs(dir)
	assert.Equal(t, absDir, d.Path())

	_, err = fsys.Open(filepath.Join(dir, "nonexistent"))
	assert.Error(t, err)

	_, err = fsys.Open(filepath.Join(dir, "file.csv"))
	assert.ErrorContains(t, err, "not a directory")
}

func TestOSFileSystem_OpenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sales.csv")
	writeFile(t, path, "qty\n1\n")
	fsys := NewOSFileSystem()

	assert.Equal(t, "qty\n1\n", readAll(t, fsys, path))

	_, err := fsys.OpenFile(filepath.Join(dir, "nope.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOSFileSystem_WalkReportsRegularFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "sales.csv"), "qty\n1\n")

	d, err := NewOSFileSystem().Open(dir)
	require.NoError(t, err)

	var sizes = map[string]int64{}
	require.NoError(t, d.Walk(func(f File, err error) error {
		require.NoError(t, err)
		if f.Info().Mode().IsRegular() {
			sizes[f.RelativePath()] = f.Info().Size()
		}
		return nil
	}))
	assert.Equal(t, map[string]int64{"sales.csv": 6}, sizes)
}

func TestOSFileSystem_WalkIsLexicalAndRecursive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.csv"), "x")
	writeFile(t, filepath.Join(dir, "a", "z.csv"), "x")
	writeFile(t, filepath.Join(dir, "a", "y", "1.csv"), "x")
	writeFile(t, filepath.Join(dir, "a.csv"), "x")

	d, err := NewOSFileSystem().Open(dir)
	require.NoError(t, err)

	var files []string
	err = d.Walk(func(f File, err error) error {
		require.NoError(t, err)
		if !f.Info().IsDir() {
			files = append(files, f.RelativePath())
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a/y/1.csv", "a/z.csv", "a.csv", "b.csv"}, files)
}

func TestOSFileSystem_WalkRecoversCallbackPanic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.csv"), "x")

	d, err := NewOSFileSystem().Open(dir)
	require.NoError(t, err)

	err = d.Walk(func(f File, err error) error {
		if !f.Info().IsDir() {
			panic("boom")
		}
		return nil
	})
	assert.ErrorContains(t, err, "walk callback panicked")
}
