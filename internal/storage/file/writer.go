// Package file persists snapshot documents on the local filesystem.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kurihiro0119/github-org-snapshot/internal/domain"
	"github.com/kurihiro0119/github-org-snapshot/internal/storage"
)

// WriteDocument writes snap to path through a temporary file in the same
// directory and a rename, so readers never observe a partial document.
func WriteDocument(path string, snap *domain.Snapshot) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := storage.EncodeDocument(tmp, snap); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move snapshot into place: %w", err)
	}
	return nil
}

// ReadDocument reads a snapshot document written by WriteDocument
func ReadDocument(path string) (*domain.Snapshot, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	return storage.UnmarshalDocument(data)
}
