// Package storage manages the holding area for uploaded invoice documents.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store writes uploaded documents under a single directory. Files are keyed by
// a generated storage key rather than the user-supplied filename, so a
// same-named re-upload never overwrites an earlier document. The original
// filename survives only as display metadata on the invoice record.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Save streams the uploaded file into the holding area and returns its
// storage key.
func (s *Store) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	key := uuid.New().String() + "_" + filepath.Base(header.Filename)
	dst, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return key, nil
}

// Path returns the absolute location of a stored document. The key is reduced
// to its base name so a crafted key cannot escape the holding area.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, filepath.Base(key))
}

// Remove deletes a stored document. A file that is already gone is not an
// error; the caller may be cleaning up after an external removal.
func (s *Store) Remove(key string) error {
	err := os.Remove(s.Path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
