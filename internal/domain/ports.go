package domain

// ManifestScanner discovers candidate manifest files under a root directory.
type ManifestScanner interface {
	Discover(root string, extensions, excludePaths []string) ([]string, error)
}

// DocumentLoader reads and decodes manifest files.
type DocumentLoader interface {
	HasDecoder(ext string) bool
	Read(path string) ([]byte, error)
	Decode(path string, content []byte) []*Document
}

// ConfigLoader loads project configuration (.arclint.yaml).
type ConfigLoader interface {
	Load(root string) (ProjectConfig, error)
}

// FileWriter persists auto-fixed content.
type FileWriter interface {
	WriteFile(path string, content []byte) error
}

// GitInfo provides version control metadata for the scanned tree.
type GitInfo interface {
	IsGitRepo(path string) bool
	CommitHash(path string) (string, error)
}

// RunHistory stores a summary of past validation runs.
type RunHistory interface {
	Save(root string, entry RunEntry) error
	Load(root string) ([]RunEntry, error)
}
