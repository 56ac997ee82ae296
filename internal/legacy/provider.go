// Package legacy reads batch files dropped by the legacy store export into
// the import directory.
package legacy

import "time"

// BatchMeta describes one pending batch file.
type BatchMeta struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Provider abstracts access to the legacy import drop directory.
type Provider interface {
	// List returns metadata for every pending batch file.
	List() ([]BatchMeta, error)
	// Read returns the raw bytes of a batch file.
	Read(path string) ([]byte, error)
	// Archive moves a processed batch file out of the pending set.
	Archive(path string) error
}
