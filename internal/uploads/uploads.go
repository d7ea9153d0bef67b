// Package uploads stores citizen report photos under the static root.
package uploads

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var allowedExtensions = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true,
	"webp": true, "heic": true, "heif": true,
}

var (
	ErrTooLarge     = errors.New("file exceeds the size limit")
	ErrBadExtension = errors.New("file extension not allowed")
)

// Store writes photo files under <root>/uploads/reportes and hands back
// public paths relative to the static root.
type Store struct {
	root    string
	maxSize int64
}

func NewStore(staticRoot string, maxSize int64) *Store {
	return &Store{root: staticRoot, maxSize: maxSize}
}

// AllowedExtensions lists the accepted photo extensions, for error messages.
func AllowedExtensions() []string {
	out := make([]string, 0, len(allowedExtensions))
	for ext := range allowedExtensions {
		out = append(out, ext)
	}
	return out
}

func extension(filename string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	return ext
}

// Validate checks size and extension before anything touches the disk.
func (s *Store) Validate(filename string, size int64) error {
	if size > s.maxSize {
		return fmt.Errorf("%w: %.1fMB over the %.1fMB limit", ErrTooLarge,
			float64(size)/(1024*1024), float64(s.maxSize)/(1024*1024))
	}
	ext := extension(filename)
	if ext == "" || !allowedExtensions[ext] {
		return ErrBadExtension
	}
	return nil
}

// Save writes data to a uuid-named file and returns the public path
// ("/uploads/reportes/<uuid>.<ext>").
func (s *Store) Save(filename string, data []byte) (string, error) {
	if err := s.Validate(filename, int64(len(data))); err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, "uploads", "reportes")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := uuid.New().String() + "." + extension(filename)
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return "/uploads/reportes/" + name, nil
}

// Remove deletes the file behind a public path. Missing files are fine;
// rows and disk are only best-effort in sync.
func (s *Store) Remove(publicPath string) error {
	rel := strings.TrimPrefix(publicPath, "/")
	abs := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Abs resolves a public path to its filesystem location.
func (s *Store) Abs(publicPath string) string {
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(publicPath, "/")))
}
