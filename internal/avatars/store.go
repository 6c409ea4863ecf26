// Package avatars stores uploaded profile pictures on local disk.
package avatars

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// MaxBytes caps the size of a single upload.
const MaxBytes = 4 << 20

const tmpPrefix = ".upload_tmp_"

var ErrTooLarge = errors.New("avatar exceeds maximum size")

// Store handles avatar files inside a single directory.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore creates the avatar directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create avatar dir: %w", err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

// Dir returns the avatar directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Ping fails when the avatar directory has gone missing or stopped being
// a directory.
func (s *Store) Ping() error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	return nil
}

// Save writes r under a random name that keeps the extension of
// originalName and returns the new filename.
func (s *Store) Save(r io.Reader, originalName string) (string, error) {
	name := uuid.NewString() + filepath.Ext(originalName)

	// Temp file in the same directory for an atomic rename
	tmpFile, err := os.CreateTemp(s.dir, tmpPrefix)
	if err != nil {
		return "", err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath) // Clean up if we didn't rename
	}()

	n, err := io.Copy(tmpFile, io.LimitReader(r, MaxBytes+1))
	if err != nil {
		return "", err
	}
	if n > MaxBytes {
		return "", ErrTooLarge
	}
	if err := tmpFile.Close(); err != nil {
		return "", err
	}

	if err := os.Rename(tmpPath, filepath.Join(s.dir, name)); err != nil {
		return "", err
	}
	return name, nil
}

// Remove deletes the named avatar. The placeholder is never removed and a
// missing file is not an error.
func (s *Store) Remove(name string) error {
	if !removable(name) {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Sweep deletes avatar files that no account references and that are older
// than grace, so uploads still being committed survive. It returns the
// number of files removed.
func (s *Store) Sweep(referenced []string, grace time.Duration) (int, error) {
	keep := make(map[string]bool, len(referenced))
	for _, name := range referenced {
		keep[name] = true
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read avatar dir: %w", err)
	}

	cutoff := s.now().Add(-grace)
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || keep[name] || !removable(name) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// removable rejects the placeholder, path tricks and hidden files.
func removable(name string) bool {
	if name == "" || name == entities.DefaultAvatar {
		return false
	}
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return false
	}
	return true
}
