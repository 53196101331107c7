package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/FireKid846/TG-bot/internal/repository"
)

// ConfigRepo implements repository.ConfigRepository on a local JSON file
type ConfigRepo struct {
	path string
}

// NewConfigRepo creates a file backed config repository
func NewConfigRepo(path string) *ConfigRepo {
	return &ConfigRepo{path: path}
}

// Path returns the file the document is stored in
func (r *ConfigRepo) Path() string {
	return r.path
}

// Load reads the whole document
func (r *ConfigRepo) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", r.path, err)
	}
	return data, nil
}

// Save replaces the whole document, creating the parent directory if needed
func (r *ConfigRepo) Save(_ context.Context, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	// Written beside the target and renamed over it. Each save gets its own
	// temp file since handlers save concurrently.
	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".config-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replacing %s: %w", r.path, err)
	}
	return nil
}
