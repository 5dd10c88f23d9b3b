package models

import "time"

// FileMetadata is a lightweight representation of a note file on
// disk, returned by storage list operations.
type FileMetadata struct {
	Path      string
	Checksum  string
	UpdatedAt time.Time
}
