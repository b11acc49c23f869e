package celestrak

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store is the on-disk element cache. The file's first line is the calendar
// day the catalog was fetched; everything after it is the raw catalog text.
// A catalog fetched today is fresh, anything older is stale.
type Store struct {
	path string
}

// NewStore creates a store at the given path. An empty path falls back to
// the OS temp directory.
func NewStore(path string) *Store {
	if path == "" {
		path = filepath.Join(os.TempDir(), "skywatch", "elements.tle")
	}
	return &Store{path: path}
}

// Read returns the cached fetch date and raw catalog text. A missing cache
// file is reported through os.IsNotExist on the returned error.
func (s *Store) Read() (date, raw string, err error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", "", err
	}
	date, raw, found := strings.Cut(string(data), "\n")
	if !found {
		return "", "", fmt.Errorf("element cache %s has no catalog after the date line", s.path)
	}
	return strings.TrimSpace(date), raw, nil
}

// Write replaces the cache with a catalog fetched on the given day. The
// write goes through a temp file and rename so a crash never leaves a
// half-written cache.
func (s *Store) Write(date, raw string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tempPath := s.path + ".tmp"
	content := date + "\n" + raw
	if err := os.WriteFile(tempPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename cache: %w", err)
	}
	return nil
}

// Fresh reports whether the cache holds a catalog fetched on the given day.
// A missing or unreadable cache is stale.
func (s *Store) Fresh(today string) bool {
	date, _, err := s.Read()
	if err != nil {
		return false
	}
	return date == today
}
