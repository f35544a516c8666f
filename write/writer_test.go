package write

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWriterSkipsUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gen_listfiles.go")
	fw := NewFileWriter()

	changed, err := fw.Write(path, []byte("package a\n"))
	require.NoError(t, err)
	assert.True(t, changed)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	changed, err = fw.Write(path, []byte("package a\n"))
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = fw.Write(path, []byte("package b\n"))
	require.NoError(t, err)
	assert.True(t, changed)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "package b\n", string(got))
}

func TestFileWriterLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := NewFileWriter().Write(filepath.Join(dir, "x.go"), []byte("package x\n"))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "x.go", entries[0].Name())
}

func TestFileWriterMissingDir(t *testing.T) {
	_, err := NewFileWriter().Write(filepath.Join(t.TempDir(), "nope", "x.go"), []byte("x"))
	assert.Error(t, err)
}

func TestFileWriterRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stale_listfiles.go")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))
	fw := NewFileWriter()

	removed, err := fw.Remove(path)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.NoFileExists(t, path)

	removed, err = fw.Remove(path)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestStreamWriter(t *testing.T) {
	var buf bytes.Buffer
	sw := NewStreamWriter(&buf)

	changed, err := sw.Write("a_listfiles.go", []byte("package a\n"))
	require.NoError(t, err)
	assert.True(t, changed)

	removed, err := sw.Remove("a_listfiles.go")
	require.NoError(t, err)
	assert.False(t, removed)

	assert.Equal(t, "// a_listfiles.go\npackage a\n", buf.String())
}
