package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo describes a stored file.
type FileInfo struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// Directory persists files on disk under a base directory.
type Directory struct {
	baseDir string
	perm    os.FileMode
}

// NewDirectory ensures the base directory exists and returns a handle. Files are written
// with the supplied permission bits (0o644 when zero).
func NewDirectory(baseDir string, perm os.FileMode) (*Directory, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("storage directory is required")
	}
	if perm == 0 {
		perm = 0o644
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &Directory{baseDir: baseDir, perm: perm}, nil
}

// Save writes the given bytes to name under the base dir.
func (s *Directory) Save(name string, data []byte) (string, error) {
	path, err := s.resolve(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare storage directory: %w", err)
	}
	if err := os.WriteFile(path, data, s.perm); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return name, nil
}

// Create opens name for writing, truncating any existing file.
func (s *Directory) Create(name string) (io.WriteCloser, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, s.perm)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	return file, nil
}

// Open returns a read-only handle for the stored file.
func (s *Directory) Open(name string) (*os.File, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return file, nil
}

// Delete removes a stored file if present.
func (s *Directory) Delete(name string) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// List returns files whose name starts with prefix, newest first.
func (s *Directory) List(prefix string) ([]FileInfo, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read storage directory: %w", err)
	}
	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}
		files = append(files, FileInfo{Name: entry.Name(), Size: info.Size(), Modified: info.ModTime()})
	}
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Modified.Equal(files[j].Modified) {
			return files[i].Name > files[j].Name
		}
		return files[i].Modified.After(files[j].Modified)
	})
	return files, nil
}

// Prune keeps the newest keep files matching prefix and removes the rest.
func (s *Directory) Prune(prefix string, keep int) ([]string, error) {
	files, err := s.List(prefix)
	if err != nil {
		return nil, err
	}
	if keep < 0 {
		keep = 0
	}
	removed := make([]string, 0)
	for i := keep; i < len(files); i++ {
		if err := s.Delete(files[i].Name); err != nil {
			return removed, err
		}
		removed = append(removed, files[i].Name)
	}
	return removed, nil
}

// Path exposes the absolute location of a stored file.
func (s *Directory) Path(name string) string {
	path, err := s.resolve(name)
	if err != nil {
		return ""
	}
	return path
}

func (s *Directory) resolve(name string) (string, error) {
	clean := filepath.Clean(name)
	if name == "" || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	return filepath.Join(s.baseDir, clean), nil
}
