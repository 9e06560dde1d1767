// Package storage owns the on-disk output of a run: one .ics file per
// non-empty committee calendar plus an index.html overview page.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store writes run output into a managed directory.
type Store struct {
	dir string
}

// New creates a store rooted at dir, creating the directory if needed. A
// leading ~/ is expanded to the home directory.
func New(dir string) (*Store, error) {
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Store{dir: dir}, nil
}

// Dir returns the resolved output directory.
func (s *Store) Dir() string { return s.dir }

// WriteCalendar writes one serialized calendar under its deterministic
// filename (calendar UID plus .ics) and returns the filename.
func (s *Store) WriteCalendar(uid, ics string) (string, error) {
	filename := uid + ".ics"
	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, []byte(ics), 0644); err != nil {
		return "", fmt.Errorf("writing calendar %s: %w", uid, err)
	}
	return filename, nil
}
