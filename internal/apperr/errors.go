// Package apperr defines the sentinel errors shared across gitnote.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// ErrMalformed marks a Markdown file that does not match the
	// expected note shape (title line, Posted on line).
	ErrMalformed = errors.New("malformed note document")

	// ErrEmptyBody is returned when rendering is requested for a note
	// with no raw content.
	ErrEmptyBody = errors.New("note body is empty")

	// Repository sanity failures, fatal at startup.
	ErrNotARepo = errors.New("root is not a git repository")
	ErrNoRemote = errors.New("git remote not configured")
)
