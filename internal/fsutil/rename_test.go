package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRename(t *testing.T) {
	dir := t.TempDir()
	from := filepath.Join(dir, "out.part")
	to := filepath.Join(dir, "out")
	require.NoError(t, os.WriteFile(from, []byte("data"), 0o644))

	require.NoError(t, Rename(from, to))
	data, err := os.ReadFile(to)
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
	_, err = os.Stat(from)
	assert.True(t, os.IsNotExist(err))
}

func TestRenameMissing(t *testing.T) {
	dir := t.TempDir()
	err := Rename(filepath.Join(dir, "missing"), filepath.Join(dir, "out"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rename failed")
	assert.True(t, os.IsNotExist(errors.Cause(err)))
}

func TestRenameEmptyPath(t *testing.T) {
	assert.Error(t, Rename("", "x"))
	assert.Error(t, Rename("x", ""))
}
