package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/arclint/arclint/internal/domain"
)

var skipDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
	".git":         true,
}

// FileScanner implements domain.ManifestScanner by walking the filesystem.
type FileScanner struct{}

func New() *FileScanner {
	return &FileScanner{}
}

// Discover returns the slash-separated paths, relative to root, of every
// file whose extension is in extensions. Results are sorted so runs are
// reproducible. An exclude entry matches either a directory name anywhere
// in the tree or a path prefix relative to root. A symlinked root is
// resolved first; links below it are not followed.
func (s *FileScanner) Discover(root string, extensions []string, excludePaths []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(domain.ErrRootNotFound, "%s", root)
		}
		return nil, errors.Wrapf(err, "stat %s", root)
	}
	if !info.IsDir() {
		return nil, errors.Wrapf(domain.ErrRootNotFound, "%s is not a directory", root)
	}

	walkRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", root)
	}

	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(e)] = true
	}

	excludeNames := make(map[string]bool, len(excludePaths))
	var excludePrefixes []string
	for _, p := range excludePaths {
		p = strings.Trim(filepath.ToSlash(strings.TrimSpace(p)), "/")
		if p == "" {
			continue
		}
		if strings.Contains(p, "/") {
			excludePrefixes = append(excludePrefixes, p)
		} else {
			excludeNames[p] = true
		}
	}

	var files []string
	err = filepath.WalkDir(walkRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(walkRoot, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if skipDirs[d.Name()] || excludeNames[d.Name()] || hasPrefix(rel, excludePrefixes) {
				return filepath.SkipDir
			}
			return nil
		}

		if excludeNames[d.Name()] || hasPrefix(rel, excludePrefixes) {
			return nil
		}
		if exts[strings.ToLower(filepath.Ext(d.Name()))] {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", root)
	}

	sort.Strings(files)
	return files, nil
}

func hasPrefix(rel string, prefixes []string) bool {
	for _, p := range prefixes {
		if rel == p || strings.HasPrefix(rel, p+"/") {
			return true
		}
	}
	return false
}
