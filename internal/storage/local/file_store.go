// Package local implements a local filesystem file store rooted at one
// directory. The config record, generated placeholder scripts, employee lists,
// and sync manifests are all written through it.
package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Config captures the parameters for the local filesystem store.
type Config struct {
	// BaseDir is the root directory where files are stored.
	BaseDir string `mapstructure:"base_dir" yaml:"base_dir"`
}

// FileStore reads and writes files below a base directory.
type FileStore struct {
	baseDir string
}

// New creates a store rooted at cfg.BaseDir, creating the directory when it
// does not exist and checking that it is writable.
func New(cfg Config) (*FileStore, error) {
	if strings.TrimSpace(cfg.BaseDir) == "" {
		return nil, fmt.Errorf("base directory is required")
	}

	info, err := os.Stat(cfg.BaseDir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if mkErr := os.MkdirAll(cfg.BaseDir, 0o750); mkErr != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", mkErr)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to stat base directory: %w", err)
	case !info.IsDir():
		return nil, fmt.Errorf("base directory path is not a directory")
	}

	scratch, err := os.CreateTemp(cfg.BaseDir, ".writable_test")
	if err != nil {
		return nil, fmt.Errorf("base directory is not writable: %w", err)
	}
	name := scratch.Name()
	if err := scratch.Close(); err != nil {
		return nil, fmt.Errorf("failed to close scratch file: %w", err)
	}
	if err := os.Remove(name); err != nil {
		return nil, fmt.Errorf("failed to clean up scratch file: %w", err)
	}

	return &FileStore{baseDir: filepath.Clean(cfg.BaseDir)}, nil
}

// BaseDir returns the store root.
func (s *FileStore) BaseDir() string {
	return s.baseDir
}

// Path resolves name below the base directory. It rejects names that would
// escape the root.
func (s *FileStore) Path(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("path is required")
	}
	full := filepath.Clean(filepath.Join(s.baseDir, name))
	if full != s.baseDir && !strings.HasPrefix(full, s.baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal detected: %s", name)
	}
	return full, nil
}

// Exists reports whether name exists below the base directory.
func (s *FileStore) Exists(name string) (bool, error) {
	full, err := s.Path(name)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", full, err)
	}
	return true, nil
}

// Get reads the named file. Missing files return an error wrapping
// fs.ErrNotExist.
func (s *FileStore) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context canceled: %w", err)
	}
	full, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	// #nosec G304 -- path is confined to the store root by Path.
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", full, err)
	}
	return data, nil
}

// Put writes data to name with the given permissions, creating parent
// directories, and returns the absolute path written. Existing files are
// overwritten in place.
func (s *FileStore) Put(ctx context.Context, name string, data []byte, perm fs.FileMode) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context canceled: %w", err)
	}
	full, err := s.Path(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return "", fmt.Errorf("failed to create parent directories: %w", err)
	}
	if err := os.WriteFile(full, data, perm); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	// WriteFile keeps the mode of an existing file; apply perm explicitly.
	if err := os.Chmod(full, perm); err != nil {
		return "", fmt.Errorf("failed to set permissions: %w", err)
	}
	return full, nil
}
