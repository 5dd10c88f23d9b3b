// Package noteservice implements the note creation flows: composing
// a note from CLI input, deriving its slug filename, writing it into
// the notes directory, and launching the editor.
package noteservice

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-slug"

	"github.com/okvist/gitnote/internal/apperr"
	"github.com/okvist/gitnote/internal/index"
	"github.com/okvist/gitnote/internal/models"
	"github.com/okvist/gitnote/internal/storage"
)

// Service coordinates note file creation and index lookups.
type Service struct {
	files    storage.Provider
	store    *index.Store
	repoRoot string
	notesDir string
	editor   string
	logger   *slog.Logger
}

// NewService creates a note service. editor is the command used to
// open newly created notes.
func NewService(files storage.Provider, store *index.Store, repoRoot, notesDir, editor string, logger *slog.Logger) *Service {
	return &Service{
		files:    files,
		store:    store,
		repoRoot: repoRoot,
		notesDir: notesDir,
		editor:   editor,
		logger:   logger,
	}
}

// Compose builds a Note from CLI input, timestamped now. An empty
// tags string yields absent tags, not an empty list.
func Compose(title, body, tagsCSV string) models.Note {
	return models.Note{
		Title:       title,
		ContentRaw:  body,
		Tags:        splitTags(tagsCSV),
		DateCreated: models.Timestamp(time.Now()),
	}
}

// SaveInline writes a complete note composed from title, body, and
// tags. A slug collision with an existing file fails with
// apperr.ErrAlreadyExists unless force is set. Returns the
// repository-relative path of the written file.
func (s *Service) SaveInline(title, body, tagsCSV string, force bool) (string, error) {
	if title == "" || body == "" {
		return "", fmt.Errorf("noteservice: title and body are required")
	}
	note := Compose(title, body, tagsCSV)
	return s.save(note, force)
}

// CreateSkeleton writes a note with an empty body and opens it in the
// configured editor. The skeleton uses the same anchors the parser
// expects, so the file is indexable as soon as a body is added.
func (s *Service) CreateSkeleton(ctx context.Context, title, tagsCSV string, force bool) (string, error) {
	if title == "" {
		return "", fmt.Errorf("noteservice: title is required")
	}
	note := Compose(title, "", tagsCSV)
	rel, err := s.save(note, force)
	if err != nil {
		return "", err
	}
	if err := s.openEditor(ctx, rel); err != nil {
		return rel, err
	}
	return rel, nil
}

// List writes "id -- title" for every index record, in index order.
func (s *Service) List(w io.Writer) error {
	doc, err := s.store.Load()
	if err != nil {
		return err
	}
	for _, rec := range doc.Notes {
		fmt.Fprintf(w, "%d -- %s\n", rec.ID, rec.Title)
	}
	return nil
}

// save serializes the note and writes it to its slug path.
func (s *Service) save(note models.Note, force bool) (string, error) {
	rel, err := s.notePath(note.Title)
	if err != nil {
		return "", err
	}
	if s.files.Exists(rel) && !force {
		return "", fmt.Errorf("noteservice: %s: %w", rel, apperr.ErrAlreadyExists)
	}
	if err := s.files.Write(rel, []byte(note.Markdown())); err != nil {
		return "", err
	}
	s.logger.Info("note saved", slog.String("path", rel), slog.String("title", note.Title))
	return rel, nil
}

// notePath derives the repository-relative file path for a title.
// Two titles that normalize to the same slug collide on purpose; the
// caller decides whether to overwrite.
func (s *Service) notePath(title string) (string, error) {
	sl, err := slug.Normalize(title)
	if err != nil {
		return "", fmt.Errorf("noteservice: slug for %q: %w", title, err)
	}
	return path.Join(s.notesDir, sl+".md"), nil
}

// openEditor launches the configured editor on the note file and
// waits for it to exit.
func (s *Service) openEditor(ctx context.Context, rel string) error {
	abs := filepath.Join(s.repoRoot, filepath.FromSlash(rel))
	parts := strings.Fields(s.editor)
	if len(parts) == 0 {
		return fmt.Errorf("noteservice: no editor configured")
	}
	args := append(parts[1:], abs)

	cmd := exec.CommandContext(ctx, parts[0], args...)
	cmd.Stdin = nil
	s.logger.Debug("opening editor", slog.String("command", parts[0]), slog.String("path", abs))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("noteservice: editor: %w", err)
	}
	return nil
}

// splitTags parses a comma-separated tag list. All-empty input
// normalizes to nil.
func splitTags(csv string) []string {
	var out []string
	for _, t := range strings.Split(csv, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
