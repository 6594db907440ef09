package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowedExtension(t *testing.T) {
	for _, ext := range []string{".jpg", ".JPG", ".jpeg", ".png", ".gif", ".webp"} {
		assert.True(t, AllowedExtension(ext), ext)
	}
	for _, ext := range []string{".exe", ".svg", ".pdf", "", "jpg"} {
		assert.False(t, AllowedExtension(ext), ext)
	}
}

func TestLocalMediaStore_SaveAndRemove(t *testing.T) {
	store, err := NewLocalMediaStore(t.TempDir())
	require.NoError(t, err)

	url, err := store.Save("photo.JPG", strings.NewReader("fake image bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, MediaBasePath))
	assert.True(t, strings.HasSuffix(url, ".jpg"), "extension is lowercased")

	// File exists on disk under <dir>/goods/
	name := strings.TrimPrefix(url, MediaBasePath)
	path := filepath.Join(store.Dir(), "goods", name)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(content))

	require.NoError(t, store.Remove(url))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestLocalMediaStore_SaveRejectsUnknownFormat(t *testing.T) {
	store, err := NewLocalMediaStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("malware.exe", strings.NewReader("nope"))
	assert.Error(t, err)
}

func TestLocalMediaStore_Remove(t *testing.T) {
	store, err := NewLocalMediaStore(t.TempDir())
	require.NoError(t, err)

	t.Run("external urls ignored", func(t *testing.T) {
		assert.NoError(t, store.Remove("https://example.com/image.jpg"))
	})

	t.Run("missing file is not an error", func(t *testing.T) {
		assert.NoError(t, store.Remove(MediaBasePath+"gone.jpg"))
	})

	t.Run("path escapes rejected", func(t *testing.T) {
		assert.Error(t, store.Remove(MediaBasePath+"../../etc/passwd"))
	})
}
