// Package fixer persists auto-fixed manifest content.
package fixer

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// FileWriter implements domain.FileWriter. Files are replaced through a
// temporary sibling and a rename, so a reader never sees half a manifest,
// and the original permission bits are kept.
type FileWriter struct{}

func New() *FileWriter {
	return &FileWriter{}
}

func (w *FileWriter) WriteFile(path string, content []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrapf(err, "creating temp file for %s", path)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		cleanup()
		return errors.Wrapf(err, "writing %s", path)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return errors.Wrapf(err, "closing temp file for %s", path)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		cleanup()
		return errors.Wrapf(err, "setting mode on %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return errors.Wrapf(err, "replacing %s", path)
	}
	return nil
}
