// Package storage handles persistence of uploaded media files.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MediaBasePath is the URL prefix under which stored media is served.
const MediaBasePath = "/media/goods/"

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// AllowedExtension reports whether the file extension (with leading dot,
// case-insensitive) is an accepted image format.
func AllowedExtension(ext string) bool {
	_, ok := allowedExtensions[strings.ToLower(ext)]
	return ok
}

// MediaStore saves uploaded goods images and releases them when a listing is
// deleted.
type MediaStore interface {
	Save(originalName string, r io.Reader) (string, error)
	Remove(url string) error
}

// LocalMediaStore stores media on the local filesystem under a single
// directory and serves it under MediaBasePath.
type LocalMediaStore struct {
	dir string
}

// NewLocalMediaStore creates the media directory if needed and returns a
// store rooted at dir.
func NewLocalMediaStore(dir string) (*LocalMediaStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("media directory is required")
	}
	if err := os.MkdirAll(filepath.Join(dir, "goods"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &LocalMediaStore{dir: dir}, nil
}

// Dir returns the root directory media is stored under.
func (s *LocalMediaStore) Dir() string {
	return s.dir
}

// Save writes the reader's content to disk under a collision-free name and
// returns the public URL path of the stored file.
func (s *LocalMediaStore) Save(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !AllowedExtension(ext) {
		return "", fmt.Errorf("unsupported image format %q", ext)
	}

	name := fmt.Sprintf("goods_%s%s", uuid.New().String(), ext)
	path := filepath.Join(s.dir, "goods", name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create media file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write media file: %w", err)
	}

	return MediaBasePath + name, nil
}

// Remove deletes the file behind a URL previously returned by Save. URLs
// outside MediaBasePath (external image links) are ignored.
func (s *LocalMediaStore) Remove(url string) error {
	if !strings.HasPrefix(url, MediaBasePath) {
		return nil
	}
	name := strings.TrimPrefix(url, MediaBasePath)
	// Reject anything that could escape the media directory.
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("invalid media url %q", url)
	}
	err := os.Remove(filepath.Join(s.dir, "goods", name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
