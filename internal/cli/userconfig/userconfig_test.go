package userconfig

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStoragePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir, err := GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "bookshelf"), dir)

	path, err := DefaultStoragePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "bookshelf", "storage.db"), path)
}
