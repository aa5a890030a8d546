package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSaveUpload_WritesBytes(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, zap.NewNop())

	data := []byte("fake image bytes")
	stored, err := store.SaveUpload(data, "cat.jpg")
	require.NoError(t, err)

	assert.Equal(t, "cat.jpg", stored.OriginalName)
	assert.Equal(t, int64(len(data)), stored.Size)
	assert.Equal(t, dir, filepath.Dir(stored.Path))

	written, err := os.ReadFile(stored.Path)
	require.NoError(t, err)
	assert.Equal(t, data, written)
}

func TestSaveUpload_SameNameSameSecondDistinctPaths(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, zap.NewNop())

	// Two uploads of the same filename in immediate succession land well
	// inside one second-resolution timestamp window.
	first, err := store.SaveUpload([]byte("first"), "cat.jpg")
	require.NoError(t, err)

	second, err := store.SaveUpload([]byte("second"), "cat.jpg")
	require.NoError(t, err)

	assert.NotEqual(t, first.Path, second.Path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSaveUpload_NamePreservesBaseAndExtension(t *testing.T) {
	store := NewLocalStore(t.TempDir(), zap.NewNop())

	stored, err := store.SaveUpload([]byte("x"), "holiday photo.png")
	require.NoError(t, err)

	name := filepath.Base(stored.Path)
	assert.True(t, strings.HasPrefix(name, "holiday photo_"))
	assert.True(t, strings.HasSuffix(name, ".png"))
}

func TestSaveUpload_StripsDirectoryComponents(t *testing.T) {
	store := NewLocalStore(t.TempDir(), zap.NewNop())

	stored, err := store.SaveUpload([]byte("x"), "../../etc/passwd.jpg")
	require.NoError(t, err)

	name := filepath.Base(stored.Path)
	assert.True(t, strings.HasPrefix(name, "passwd_"))
	assert.NotContains(t, stored.Path, "..")
}

func TestSaveUpload_MissingDirFails(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "does-not-exist"), zap.NewNop())

	_, err := store.SaveUpload([]byte("x"), "cat.jpg")
	assert.Error(t, err)
}
