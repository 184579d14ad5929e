// Package storage implements the disk sink for uploaded images.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrTooLarge is returned when an upload exceeds the configured size limit.
var ErrTooLarge = errors.New("uploaded file too large")

// Store writes uploaded files under a single directory and hands back the
// relative reference persisted on the owning record.  References look like
// "uploads/profilePicture-<uuid>.png" and are served statically.
type Store struct {
	Dir      string // destination directory
	MaxBytes int64  // upload size cap
}

// New creates the destination directory if needed and returns a Store.
func New(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{Dir: dir, MaxBytes: maxBytes}, nil
}

// Save writes the multipart file to disk under a collision-free name derived
// from the form field and returns its reference.  Files over the size limit
// fail with ErrTooLarge before any bytes are written.
func (s *Store) Save(fh *multipart.FileHeader, field string) (string, error) {
	if fh.Size > s.MaxBytes {
		return "", ErrTooLarge
	}
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	name := fmt.Sprintf("%s-%s%s", field, uuid.NewString(), ext)
	dstPath := filepath.Join(s.Dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	// Copy at most MaxBytes+1 so a lying Content-Length cannot slip an
	// oversized body through.
	n, err := io.Copy(dst, io.LimitReader(src, s.MaxBytes+1))
	if err != nil {
		os.Remove(dstPath)
		return "", fmt.Errorf("write upload: %w", err)
	}
	if n > s.MaxBytes {
		os.Remove(dstPath)
		return "", ErrTooLarge
	}
	return filepath.ToSlash(filepath.Join(s.Dir, name)), nil
}
