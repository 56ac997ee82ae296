package legacy

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// archiveDir is where processed batch files are moved, relative to root.
const archiveDir = "done"

// FS implements Provider backed by a local drop directory.
type FS struct {
	root string
}

// NewFS creates a provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("legacy: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("legacy: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("legacy: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// safePath resolves a relative path against the root and rejects any result
// that escapes it.
func (f *FS) safePath(rel string) (string, error) {
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("legacy: absolute paths not allowed: %s", rel)
	}
	abs, err := filepath.Abs(filepath.Join(f.root, cleaned))
	if err != nil {
		return "", fmt.Errorf("legacy: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) && abs != f.root {
		return "", fmt.Errorf("legacy: path escapes import root: %s", rel)
	}
	return abs, nil
}

// List returns metadata for every pending .json batch file at the top level
// of the drop directory. Archived files are not listed.
func (f *FS) List() ([]BatchMeta, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("legacy: list: %w", err)
	}
	var out []BatchMeta
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("legacy: stat %s: %w", e.Name(), err)
		}
		out = append(out, BatchMeta{Path: e.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	return out, nil
}

// Read returns the raw bytes of a batch file.
func (f *FS) Read(path string) ([]byte, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("legacy: read %s: %w", path, err)
	}
	return data, nil
}

// Archive moves a processed batch file into the done/ subdirectory.
func (f *FS) Archive(path string) error {
	abs, err := f.safePath(path)
	if err != nil {
		return err
	}
	dest := filepath.Join(f.root, archiveDir, filepath.Base(abs))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("legacy: mkdir archive: %w", err)
	}
	if err := os.Rename(abs, dest); err != nil {
		return fmt.Errorf("legacy: archive %s: %w", path, err)
	}
	return nil
}
