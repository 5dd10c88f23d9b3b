package index

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/okvist/gitnote/internal/storage"
)

// Store loads and persists the index document at a fixed path inside
// the repository. Writes go through the storage provider, which is
// atomic (temp file then rename), so readers only ever observe a
// fully-consistent index.
type Store struct {
	files     storage.Provider
	path      string // repository-relative, e.g. "data.json"
	author    string
	blogTitle string
	logger    *slog.Logger
}

// NewStore creates a store for the index file at path. author and
// blogTitle seed the document when the file does not exist yet.
func NewStore(files storage.Provider, path, author, blogTitle string, logger *slog.Logger) *Store {
	return &Store{
		files:     files,
		path:      path,
		author:    author,
		blogTitle: blogTitle,
		logger:    logger,
	}
}

// Load reads the persisted document. When the file does not exist a
// fresh document is seeded from the configured metadata and persisted
// immediately, so first use creates the file.
func (s *Store) Load() (*Document, error) {
	data, err := s.files.Read(s.path)
	if errors.Is(err, os.ErrNotExist) {
		doc := NewDocument(s.author, s.blogTitle)
		s.logger.Info("index: creating fresh index",
			slog.String("path", s.path),
			slog.String("author", s.author))
		if err := s.Persist(doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("index: decode %s: %w", s.path, err)
	}
	doc.rebuild()
	return &doc, nil
}

// Persist recomputes count and writes the document atomically. The
// count field is never trusted from a prior read.
func (s *Store) Persist(doc *Document) error {
	doc.Count = len(doc.Notes)
	if doc.Notes == nil {
		doc.Notes = []NoteRecord{}
	}
	if doc.Pages == nil {
		doc.Pages = []json.RawMessage{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false) // content holds rendered HTML
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("index: encode: %w", err)
	}

	if err := s.files.Write(s.path, buf.Bytes()); err != nil {
		return fmt.Errorf("index: persist: %w", err)
	}
	s.logger.Debug("index: persisted",
		slog.String("path", s.path),
		slog.Int("count", doc.Count))
	return nil
}
