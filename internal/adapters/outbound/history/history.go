package history

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/arclint/arclint/internal/domain"
)

const historyFile = ".arclint/history/runs.json"

// FileHistory implements domain.RunHistory using JSON file storage under
// the scanned root.
type FileHistory struct{}

func New() *FileHistory {
	return &FileHistory{}
}

func (h *FileHistory) Save(root string, entry domain.RunEntry) error {
	entries, err := h.Load(root)
	if err != nil {
		return err
	}

	entries = append(entries, entry)

	fp := filepath.Join(root, historyFile)
	if err := os.MkdirAll(filepath.Dir(fp), 0755); err != nil {
		return errors.Wrap(err, "creating history directory")
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding history")
	}

	return errors.Wrap(os.WriteFile(fp, data, 0644), "writing history")
}

func (h *FileHistory) Load(root string) ([]domain.RunEntry, error) {
	fp := filepath.Join(root, historyFile)

	data, err := os.ReadFile(fp)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading history")
	}

	var entries []domain.RunEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", historyFile)
	}

	return entries, nil
}
