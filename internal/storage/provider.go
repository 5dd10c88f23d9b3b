// Package storage defines the repository file-system abstraction.
package storage

import "github.com/okvist/gitnote/internal/models"

// Provider is the interface for note file operations. All paths are
// relative to the repository root (e.g. "notes/my-note.md").
type Provider interface {
	// List returns metadata for every .md file under dir.
	List(dir string) ([]models.FileMetadata, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Exists reports whether a regular file exists at path.
	Exists(path string) bool
}
